// Command simulate runs a game description headlessly for a fixed
// number of ticks and dumps rendered frames as PNGs. Artwork resolves
// offline from the cache and fallback sprites; no generation calls are
// made.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/codecravings/game-builder/assets"
	"github.com/codecravings/game-builder/config"
	"github.com/codecravings/game-builder/engine"
	"github.com/codecravings/game-builder/examples"
	"github.com/codecravings/game-builder/gamespec"
	"github.com/codecravings/game-builder/prefabs"
	"github.com/codecravings/game-builder/render"
)

func main() {
	descPath := flag.String("desc", "", "Game description JSON to simulate (default: embedded example)")
	ticks := flag.Int("ticks", 300, "Number of fixed steps to advance")
	every := flag.Int("every", 60, "Dump a frame every N ticks (0 disables dumps)")
	outDir := flag.String("out", "sim_out", "Directory for dumped frames")
	scriptPath := flag.String("script", "", "Scripted input file: one \"TICK KEY...\" line per event")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	watch := flag.Bool("watch", false, "Re-run whenever the description directory changes")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := runOnce(cfg, *descPath, *scriptPath, *ticks, *every, *outDir, log); err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
	if !*watch {
		return
	}
	if *descPath == "" {
		log.Fatal().Msg("-watch requires -desc")
	}

	watcher, err := NewWatcher(filepath.Dir(*descPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to watch description directory")
	}
	defer watcher.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Info().Str("dir", filepath.Dir(*descPath)).Msg("watching for description changes")

	for {
		select {
		case name := <-watcher.Events:
			log.Info().Str("file", name).Msg("description changed, re-running")
			if err := runOnce(cfg, *descPath, *scriptPath, *ticks, *every, *outDir, log); err != nil {
				log.Error().Err(err).Msg("simulation failed")
			}
		case err := <-watcher.Errors:
			log.Error().Err(err).Msg("watcher error")
		case <-quit:
			return
		}
	}
}

func runOnce(cfg *config.Config, descPath, scriptPath string, ticks, every int, outDir string, log zerolog.Logger) error {
	desc, err := loadDescription(descPath)
	if err != nil {
		return err
	}

	var script map[int][]string
	if scriptPath != "" {
		if script, err = parseScript(scriptPath); err != nil {
			return err
		}
	}

	defaults, err := prefabs.LoadDefaults()
	if err != nil {
		return fmt.Errorf("load prefab defaults: %w", err)
	}
	cache, err := assets.OpenCache(cfg.Assets.CacheDir, log)
	if err != nil {
		return fmt.Errorf("open asset cache: %w", err)
	}

	// Nil generator: everything resolves from cache hits and fallbacks.
	prov := assets.NewProvisioner(cache, nil, cfg.Assets.GenerationBudget, defaults.Fallback.Color.Or(nil), log)
	res := prov.Provision(context.Background(), desc)

	eng, err := engine.New(engineParams(cfg), defaults, desc, res.Images, log)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	if every > 0 {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	dt := 1.0 / float64(cfg.Game.FPS)
	for tick := 1; tick <= ticks; tick++ {
		if keys, ok := script[tick]; ok {
			if err := eng.ApplyInput(keys); err != nil {
				return fmt.Errorf("apply input at tick %d: %w", tick, err)
			}
		}
		if err := eng.Advance(dt); err != nil {
			return fmt.Errorf("advance tick %d: %w", tick, err)
		}
		if every > 0 && tick%every == 0 {
			if err := dumpFrame(eng, outDir, tick); err != nil {
				return err
			}
		}
	}

	snap := eng.Snapshot()
	log.Info().
		Int("score", snap.Score).
		Int("health", snap.Health).
		Float64("time", snap.Time).
		Bool("game_over", snap.GameOver).
		Bool("win", snap.Win).
		Msg("simulation finished")
	return nil
}

func loadDescription(path string) (*gamespec.GameDescription, error) {
	if path == "" {
		return examples.Load("platformer.json")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read description: %w", err)
	}
	desc, err := gamespec.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse description: %w", err)
	}
	return desc, nil
}

// parseScript reads a scripted input file: one "TICK KEY [KEY...]"
// line per scheduled event, using the engine's logical key names
// (left, right, up, down, space). A line with only a tick releases
// every key at that tick. Blank lines and #-comments are skipped.
func parseScript(path string) (map[int][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input script: %w", err)
	}
	defer f.Close()

	script := make(map[int][]string)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		tick, err := strconv.Atoi(fields[0])
		if err != nil || tick < 1 {
			return nil, fmt.Errorf("input script line %d: bad tick %q", line, fields[0])
		}
		script[tick] = append(script[tick], fields[1:]...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input script: %w", err)
	}
	return script, nil
}

func dumpFrame(eng *engine.Engine, outDir string, tick int) error {
	path := filepath.Join(outDir, fmt.Sprintf("frame_%05d.png", tick))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, render.Frame(eng)); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func engineParams(cfg *config.Config) engine.Params {
	g := cfg.Game
	return engine.Params{
		ViewportWidth:  float64(g.ViewportWidth),
		ViewportHeight: float64(g.ViewportHeight),
		FPS:            g.FPS,
		Gravity:        g.Gravity,
		Friction:       g.Friction,
		MoveSpeed:      g.MoveSpeed,
		JumpForce:      g.JumpForce,
	}
}
