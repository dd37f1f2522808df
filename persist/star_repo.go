package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/stargen"
	"go.uber.org/zap"
)

// StarRow is a star loaded back from the database.
type StarRow struct {
	SystemID ident.PackedId
	Star     stargen.Star
}

// StarRepo handles star records. A star is stored as its canonical record
// bytes; the LongId is never written.
type StarRepo struct {
	db *DB
}

func NewStarRepo(db *DB) *StarRepo {
	return &StarRepo{db: db}
}

// Save replaces the stars of one system.
func (r *StarRepo) Save(ctx context.Context, systemID ident.PackedId, stars []stargen.Star) error {
	records := make([][]byte, len(stars))
	for i := range stars {
		data, err := stars[i].Properties.Encode()
		if err != nil {
			return fmt.Errorf("save stars of %s: %w", systemID, err)
		}
		records[i] = data
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM stars WHERE system_id = $1`, int64(systemID.Raw())); err != nil {
		return fmt.Errorf("clear stars of %s: %w", systemID, err)
	}

	batch := &pgx.Batch{}
	for _, data := range records {
		batch.Queue(`INSERT INTO stars (system_id, record) VALUES ($1, $2)`, int64(systemID.Raw()), data)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert stars of %s: %w", systemID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit stars of %s: %w", systemID, err)
	}
	r.db.log.Debug("stars saved", zap.Stringer("system", systemID), zap.Int("count", len(stars)))
	return nil
}

// Load reads every stored star, re-deriving ids from the records.
func (r *StarRepo) Load(ctx context.Context) ([]StarRow, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT system_id, record FROM stars ORDER BY system_id, id`)
	if err != nil {
		return nil, fmt.Errorf("load stars: %w", err)
	}
	defer rows.Close()

	var out []StarRow
	for rows.Next() {
		var systemID int64
		var record []byte
		if err := rows.Scan(&systemID, &record); err != nil {
			return nil, fmt.Errorf("scan star: %w", err)
		}
		row, err := decodeRow(systemID, record)
		if err != nil {
			return nil, fmt.Errorf("load stars: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load stars: %w", err)
	}
	return out, nil
}

// LoadSystem reads the stars of one system.
func (r *StarRepo) LoadSystem(ctx context.Context, systemID ident.PackedId) ([]stargen.Star, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT record FROM stars WHERE system_id = $1 ORDER BY id`, int64(systemID.Raw()))
	if err != nil {
		return nil, fmt.Errorf("load stars of %s: %w", systemID, err)
	}
	defer rows.Close()

	var out []stargen.Star
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan star of %s: %w", systemID, err)
		}
		row, err := decodeRow(int64(systemID.Raw()), record)
		if err != nil {
			return nil, fmt.Errorf("load stars of %s: %w", systemID, err)
		}
		out = append(out, row.Star)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load stars of %s: %w", systemID, err)
	}
	return out, nil
}

// Count returns the number of stored stars.
func (r *StarRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM stars`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stars: %w", err)
	}
	return n, nil
}

func decodeRow(systemID int64, record []byte) (StarRow, error) {
	props, err := stargen.DecodeRecord(record)
	if err != nil {
		return StarRow{}, fmt.Errorf("star of system %d: %w", systemID, err)
	}
	star, err := stargen.FromProperties(props)
	if err != nil {
		return StarRow{}, err
	}
	return StarRow{SystemID: ident.PackedId(uint32(systemID)), Star: star}, nil
}
