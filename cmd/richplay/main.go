// Command richplay runs a Lua game script in the terminal.
//
//	richplay -script games/catch.lua
//	richplay -config richplay.toml -backend tcell -reload
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/lixenwraith/rich-engine/config"
	"github.com/lixenwraith/rich-engine/engine"
	"github.com/lixenwraith/rich-engine/logging"
	"github.com/lixenwraith/rich-engine/script"
	"github.com/lixenwraith/rich-engine/sound"
	"github.com/lixenwraith/rich-engine/terminal"
	"github.com/lixenwraith/rich-engine/terminal/tcellterm"
)

var (
	configFlag   = flag.String("config", "richplay.toml", "Path to TOML configuration (optional)")
	scriptFlag   = flag.String("script", "", "Lua game script")
	backendFlag  = flag.String("backend", "", "Display backend: ansi, tcell")
	widthFlag    = flag.Int("width", 0, "Grid width")
	heightFlag   = flag.Int("height", 0, "Grid height")
	intervalFlag = flag.Duration("interval", 0, "Minimum frame interval, e.g. 16ms")
	reloadFlag   = flag.Bool("reload", false, "Reload the script when it changes")
	muteFlag     = flag.Bool("mute", false, "Disable sound")
	debugFlag    = flag.Bool("debug", false, "Write logs to the log directory")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mRICHPLAY CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "richplay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Script.Path == "" {
		flag.Usage()
		return errors.New("no script given")
	}

	logFile, err := logging.Setup(cfg.Debug, cfg.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging disabled: %v\n", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	var opts []script.Option
	if cfg.Script.HotReload {
		opts = append(opts, script.WithHotReload())
	}
	game, err := script.NewFromFile(cfg.Script.Path, opts...)
	if err != nil {
		return err
	}
	defer game.Close()

	display, err := newDisplay(cfg.Backend)
	if err != nil {
		return err
	}

	player, err := sound.New(cfg.Sound)
	if err != nil {
		// Non-fatal, game can run without sound
		log.Printf("Audio initialization failed: %v", err)
	}
	defer player.Close()

	// Raw mode swallows Ctrl+C as a key; signals still arrive from outside
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return engine.Play(ctx, game,
		engine.WithSize(cfg.Width, cfg.Height),
		engine.WithDisplay(display),
		engine.WithFrameInterval(cfg.FrameInterval.Duration),
		engine.WithSound(player),
	)
}

// loadConfig reads the config file, applies flags set on the command line,
// then validates the merged result
func loadConfig() (config.Config, error) {
	cfg, err := config.Read(*configFlag)
	if err != nil {
		return cfg, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "script":
			cfg.Script.Path = *scriptFlag
		case "backend":
			cfg.Backend = *backendFlag
		case "width":
			cfg.Width = *widthFlag
		case "height":
			cfg.Height = *heightFlag
		case "interval":
			cfg.FrameInterval.Duration = *intervalFlag
		case "reload":
			cfg.Script.HotReload = *reloadFlag
		case "mute":
			cfg.Sound.Enabled = !*muteFlag
		case "debug":
			cfg.Debug = *debugFlag
		}
	})
	return cfg, cfg.Validate()
}

func newDisplay(backend string) (engine.Display, error) {
	switch backend {
	case config.BackendTcell:
		return tcellterm.New()
	default:
		return terminal.New(), nil
	}
}
