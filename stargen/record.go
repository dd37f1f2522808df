package stargen

import (
	"errors"
	"fmt"

	"github.com/plus3/interstellar/ident"
	"github.com/vmihailenco/msgpack/v5"
)

// RecordVersion tags the canonical encoding. Any change to the field order
// or types changes every derived id and must bump it.
const RecordVersion uint8 = 1

var ErrRecordVersion = errors.New("stargen: unsupported record version")

// record is the frozen on-disk layout:
// [version, mass, radius, luminosity, temperature, category].
type record struct {
	_msgpack    struct{} `msgpack:",as_array"`
	Version     uint8
	Mass        float64
	Radius      float64
	Luminosity  float64
	Temperature float64
	Category    uint8
}

// Encode returns the canonical byte form of p. Identical properties always
// produce identical bytes.
func (p Properties) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(&record{
		Version:     RecordVersion,
		Mass:        p.Mass,
		Radius:      p.Radius,
		Luminosity:  p.Luminosity,
		Temperature: p.Temperature,
		Category:    uint8(p.Category),
	})
	if err != nil {
		return nil, fmt.Errorf("encode star record: %w", err)
	}
	return data, nil
}

// ID derives the star's LongId from its canonical encoding.
func (p Properties) ID() (ident.LongId, error) {
	data, err := p.Encode()
	if err != nil {
		return ident.NilLong, err
	}
	return ident.Derive(data), nil
}

// DecodeRecord parses bytes produced by Encode.
func DecodeRecord(data []byte) (Properties, error) {
	var r record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return Properties{}, fmt.Errorf("decode star record: %w", err)
	}
	if r.Version != RecordVersion {
		return Properties{}, fmt.Errorf("decode star record v%d: %w", r.Version, ErrRecordVersion)
	}
	category := Category(r.Category)
	if !category.Valid() {
		return Properties{}, fmt.Errorf("decode star record: unknown category %d", r.Category)
	}
	return Properties{
		Mass:        r.Mass,
		Radius:      r.Radius,
		Luminosity:  r.Luminosity,
		Temperature: r.Temperature,
		Category:    category,
	}, nil
}
