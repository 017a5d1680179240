package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/nevisdale/tinynes/internal/config"
	"github.com/nevisdale/tinynes/internal/nes"
	"github.com/nevisdale/tinynes/internal/ui"
	"github.com/nevisdale/tinynes/internal/wavrec"
	"github.com/pkg/profile"
)

type flags struct {
	rom         string
	configPath  string
	writeConfig bool
	scale       int
	wavPath     string
	mute        bool
	debug       bool
	profileMode string
	profileDir  string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.rom, "rom", "", "path to an iNES ROM file")
	flag.StringVar(&f.configPath, "config", "tinynes.json", "path to the JSON config file")
	flag.BoolVar(&f.writeConfig, "write-config", false, "write the effective settings to the -config file and exit")
	flag.IntVar(&f.scale, "scale", 0, "window scale, overrides the config")
	flag.StringVar(&f.wavPath, "wav", "", "record audio to this WAV file")
	flag.BoolVar(&f.mute, "mute", false, "disable audio playback")
	flag.BoolVar(&f.debug, "debug", false, "show the debug pane on start")
	flag.StringVar(&f.profileMode, "profile", "", "write a profile: cpu or mem")
	flag.StringVar(&f.profileDir, "profile-dir", ".", "directory for the -profile output")
	flag.Parse()
	return f
}

func main() {
	if err := run(parseFlags()); err != nil {
		log.Fatalf("%s\n", err.Error())
	}
}

// run returns instead of exiting so deferred cleanup, the profiler
// included, always completes.
func run(f flags) (err error) {
	switch f.profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(f.profileDir)).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(f.profileDir)).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", f.profileMode)
	}

	cfg, err := settings(f)
	if err != nil {
		return err
	}
	if f.writeConfig {
		if err := cfg.Save(f.configPath); err != nil {
			return err
		}
		log.Printf("settings written to %s\n", f.configPath)
		return nil
	}
	if f.rom == "" {
		flag.Usage()
		return errors.New("the -rom flag is required")
	}

	cart, err := nes.NewCartFromFile(f.rom)
	if err != nil {
		return fmt.Errorf("couldn't load rom: %w", err)
	}
	log.Printf("loaded %s: mapper %d, %s mirroring\n", filepath.Base(f.rom), cart.MapperID(), cart.Mirror())

	bus := nes.NewBus()
	bus.LoadCart(cart)

	var rec *wavrec.Recorder
	if cfg.Audio.WAVPath != "" {
		rec, err = wavrec.New(cfg.Audio.WAVPath, cfg.Audio.SampleRate)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, rec.Close())
			log.Printf("recorded %d samples to %s\n", rec.Samples(), cfg.Audio.WAVPath)
		}()
	}

	window, err := ui.New(bus, cfg, rec)
	if err != nil {
		return fmt.Errorf("couldn't create ui: %w", err)
	}
	defer func() {
		err = errors.Join(err, window.Close())
	}()

	return ui.RunUI(window, "tinynes - "+filepath.Base(f.rom))
}

// settings loads the config file and applies the command-line overrides.
func settings(f flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.scale != 0 {
		cfg.Window.Scale = f.scale
	}
	if f.wavPath != "" {
		cfg.Audio.WAVPath = f.wavPath
	}
	if f.mute {
		cfg.Audio.Enabled = false
	}
	if f.debug {
		cfg.Debug.ShowDebugPane = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}
