// Command galaxy-sim generates a galaxy, launches fleets between its
// systems and runs the simulation for a fixed duration, then prints a
// report of tick timings and contact counts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/profile"
	"github.com/plus3/interstellar/config"
	"github.com/plus3/interstellar/galaxy"
	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/persist"
	"github.com/plus3/interstellar/sim"
	"github.com/plus3/interstellar/stargen"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "galaxy-sim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to the TOML config (defaults to $"+config.EnvPath+").")
	duration := flag.Duration("duration", 0, "Override simulation.duration.")
	systemCount := flag.Int("systems", -1, "Override galaxy.systems.")
	fleetCount := flag.Int("fleets", -1, "Override fleets.count.")
	profileDir := flag.String("profile", "", "Write a CPU profile into this directory.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	// .env is optional; the environment may already carry everything.
	_ = godotenv.Load()

	path := *configPath
	if path == "" {
		path = os.Getenv(config.EnvPath)
	}
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if *duration > 0 {
		cfg.Simulation.Duration = *duration
	}
	if *systemCount >= 0 {
		cfg.Galaxy.Systems = *systemCount
	}
	if *fleetCount >= 0 {
		cfg.Fleets.Count = *fleetCount
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report := &Report{
		Config:         cfg,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	// 1. Generate systems
	alloc := ident.NewAllocator()
	genStart := time.Now()
	systems, err := galaxy.GenerateParallel(ctx, cfg.Galaxy.Systems, cfg.Galaxy.Workers, cfg.Galaxy.Seed,
		alloc, cfg.Stars.IMF(), cfg.Stars.ParsedFormula(), cfg.Galaxy.Shape())
	if err != nil {
		return fmt.Errorf("generate systems: %w", err)
	}
	report.GenerateTime = time.Since(genStart)
	log.Info("systems generated", zap.Int("count", len(systems)), zap.Duration("took", report.GenerateTime))

	// 2. Persist stars
	if cfg.Database.Enabled {
		if err := saveStars(ctx, cfg.Database, systems, log); err != nil {
			return err
		}
	}

	// 3. Assemble the galaxy and launch fleets
	templates, err := galaxy.LoadTemplates(cfg.Fleets.Templates)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("no ship templates, fleets disabled", zap.String("path", cfg.Fleets.Templates))
		templates, err = galaxy.ParseTemplates(nil)
	}
	if err != nil {
		return err
	}

	g := galaxy.New(alloc, galaxy.Options{Spatial: cfg.Spatial.Options(), Templates: templates}, log)
	g.Populate(systems)
	report.Fleets = launchFleets(g, templates, cfg, log)
	report.Systems = g.SystemCount()
	report.Stars = g.StarCount()

	// 4. Run the simulation loop
	log.Info("running simulation", zap.Duration("duration", cfg.Simulation.Duration), zap.Duration("tick", cfg.Simulation.TickRate))
	runCtx, cancel := context.WithTimeout(ctx, cfg.Simulation.Duration)
	defer cancel()

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	startTime := time.Now()
	lastFrameTime := startTime
Loop:
	for {
		select {
		case <-runCtx.Done():
			break Loop
		case now := <-ticker.C:
			dt := now.Sub(lastFrameTime).Seconds()
			lastFrameTime = now

			tickStart := time.Now()
			g.Tick(dt)
			report.TickTime.Samples = append(report.TickTime.Samples, time.Since(tickStart))
			report.TotalTicks++
			report.Contacts += int64(g.ContactCount())
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TickTime.Finalize()
	report.Arrived = arrivedFleets(g)
	report.IndexedIds = g.Table.Len()
	report.Scheduler = g.Scheduler.GetStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("simulation finished", zap.Int64("ticks", report.TotalTicks))
	return report.Generate(os.Stdout)
}

func saveStars(ctx context.Context, cfg config.DatabaseConfig, systems []galaxy.SolarSystem, log *zap.Logger) error {
	db, err := persist.NewDB(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	repo := persist.NewStarRepo(db)
	for _, sys := range systems {
		stars := make([]stargen.Star, len(sys.Stars))
		for i, s := range sys.Stars {
			stars[i] = s.Star
		}
		if err := repo.Save(ctx, sys.ID, stars); err != nil {
			return err
		}
	}
	log.Info("stars saved", zap.Int("systems", len(systems)))
	return nil
}

func launchFleets(g *galaxy.Galaxy, templates *galaxy.TemplateTable, cfg *config.Config, log *zap.Logger) int {
	classes := templates.Classes()
	var systems []sim.Entity
	for e := range g.Systems() {
		systems = append(systems, e)
	}
	if len(classes) == 0 || len(systems) < 2 {
		return 0
	}

	rng := rand.New(rand.NewPCG(cfg.Galaxy.Seed, uint64(cfg.Fleets.Count)))
	launched := 0
	for range cfg.Fleets.Count {
		from := systems[rng.IntN(len(systems))]
		to := systems[rng.IntN(len(systems))]
		class := classes[rng.IntN(len(classes))]
		ships := 1 + rng.IntN(max(cfg.Fleets.MaxShips, 1))
		if _, err := g.LaunchFleet(class, ships, from, to); err != nil {
			log.Warn("fleet not launched", zap.Error(err))
			continue
		}
		launched++
	}
	log.Info("fleets launched", zap.Int("count", launched))
	return launched
}

func arrivedFleets(g *galaxy.Galaxy) int {
	n := 0
	for _, f := range g.Fleets() {
		if f.Arrived {
			n++
		}
	}
	return n
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
