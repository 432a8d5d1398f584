package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/danmaku/internal/bullet"
	"github.com/l1jgo/danmaku/internal/config"
	"github.com/l1jgo/danmaku/internal/core/ecs"
	"github.com/l1jgo/danmaku/internal/core/event"
	coresys "github.com/l1jgo/danmaku/internal/core/system"
	"github.com/l1jgo/danmaku/internal/data"
	"github.com/l1jgo/danmaku/internal/scripting"
	"github.com/l1jgo/danmaku/internal/spatial"
	"github.com/l1jgo/danmaku/internal/spellcard"
	"github.com/l1jgo/danmaku/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              danmaku  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      headless bullet-pattern simulator    \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Simulation ────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/danmaku.toml"
	if p := os.Getenv("DANMAKU_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load data tables
	printSection("Data")
	cards, err := data.LoadSpellCardTable(cfg.Data.SpellCards)
	if err != nil {
		return fmt.Errorf("spell cards: %w", err)
	}
	printStat("spell cards", cards.Count())

	enc, err := data.LoadEncounter(cfg.Data.Encounter, cards)
	if err != nil {
		return fmt.Errorf("encounter: %w", err)
	}
	printStat("casters", len(enc.Casters))
	fmt.Println()

	// 4. Scripts
	var planner spellcard.Planner
	if cfg.Scripting.Enabled {
		printSection("Scripting")
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		for _, name := range cards.Names() {
			card := cards.Get(name)
			if card.Script != "" && !engine.Has(card.Script) {
				log.Warn("spell card planner missing, static shots used",
					zap.String("card", name), zap.String("func", card.Script))
			}
		}
		planner = engine
		printOK(fmt.Sprintf("Lua planners loaded from %s", cfg.Scripting.Dir))
		fmt.Println()
	}

	// 5. World and spawner
	ecsWorld := ecs.NewWorld()
	bus := event.NewBus()
	bullets := bullet.NewManager(ecsWorld, bus, bullet.Config{
		DefaultLifetime: cfg.Simulation.DefaultLifetime,
		MaxBullets:      cfg.Simulation.MaxBullets,
	}, log)
	bullets.AddObserver(system.LogObserver(log))
	grid := spatial.NewGrid(cfg.Simulation.GridCell)
	grid.Attach(bus)
	bullets.AddObserver(grid)

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// 6. Casters
	target := system.NewTargetSystem(enc.Target)
	cardSys := system.NewSpellCardSystem()
	deps := spellcard.Deps{Spawner: bullets, Planner: planner, Bus: bus, Rand: rng, Log: log}
	for _, cs := range enc.Casters {
		cardSys.Add(spellcard.NewCaster(cs.Name, cs.Position, cs.Facing, cards.Get(cs.Card), target, deps))
	}

	// 7. Create systems and register with runner
	runner := coresys.NewRunner()
	input := system.NewInputSystem(bullets, cfg.Input.QueueSize, cfg.Input.MaxRequestsPerTick, log)
	stats := system.NewStatsSystem(bus, bullets, cfg.Simulation.StatsInterval, log)
	stats.TrackPressure(grid, target, cfg.Simulation.PressureRadius)
	runner.Register(input)
	runner.Register(target)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(cardSys)
	runner.Register(system.NewBulletSystem(bullets))
	runner.Register(system.NewPublishSystem(bullets))
	runner.Register(stats)
	runner.Register(system.NewCleanupSystem(bullets))

	// 8. Start simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("simulation loop started (tick: %s, seed: %d)", cfg.Simulation.TickRate, seed))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			bullets.Each(func(b *bullet.Bullet) { bullets.RequestDestroy(b.ID) })
			cleared := bullets.Flush()
			st := stats.Snapshot()
			log.Info("simulation stopped",
				zap.Uint64("ticks", runner.Ticks()),
				zap.Uint64("spawned", st.Spawned),
				zap.Uint64("volleys", st.Volleys),
				zap.Int("cleared", cleared))
			return nil
		}
	}
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
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
