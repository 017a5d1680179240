// Package config holds the emulator front-end settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

type Config struct {
	Window WindowConfig `json:"window"`
	Audio  AudioConfig  `json:"audio"`
	Input  InputConfig  `json:"input"`
	Debug  DebugConfig  `json:"debug"`
}

type WindowConfig struct {
	Scale int `json:"scale"` // NES resolution multiplier
	TPS   int `json:"tps"`
}

type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	Volume     float32 `json:"volume"`
	// WAVPath, when set, records the mixed output to this file
	WAVPath string `json:"wav_path"`
}

type InputConfig struct {
	Player1Keys KeyMapping `json:"player1_keys"`
	Player2Keys KeyMapping `json:"player2_keys"`
}

// KeyMapping names the keyboard key of every pad button. Names are
// ebiten key names, e.g. "ArrowUp", "Z", "Enter".
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

type DebugConfig struct {
	ShowDebugPane bool `json:"show_debug_pane"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Scale: 2,
			TPS:   60,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.8,
		},
		Input: InputConfig{
			Player1Keys: KeyMapping{
				Up:     "ArrowUp",
				Down:   "ArrowDown",
				Left:   "ArrowLeft",
				Right:  "ArrowRight",
				A:      "X",
				B:      "Z",
				Start:  "Enter",
				Select: "ShiftRight",
			},
			Player2Keys: KeyMapping{
				Up:     "W",
				Down:   "S",
				Left:   "A",
				Right:  "D",
				A:      "K",
				B:      "J",
				Start:  "I",
				Select: "U",
			},
		},
	}
}

// Load reads a JSON config on top of the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("couldn't parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("couldn't marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("couldn't write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Window.Scale < 1 || c.Window.Scale > 8 {
		return fmt.Errorf("window scale must be in [1, 8], got %d", c.Window.Scale)
	}
	if c.Window.TPS < 1 || c.Window.TPS > 240 {
		return fmt.Errorf("tps must be in [1, 240], got %d", c.Window.TPS)
	}
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("sample rate must be in [8000, 192000], got %d", c.Audio.SampleRate)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("volume must be in [0, 1], got %.2f", c.Audio.Volume)
	}
	for player, keys := range []KeyMapping{c.Input.Player1Keys, c.Input.Player2Keys} {
		for _, key := range keys.Keys() {
			if key == "" {
				return fmt.Errorf("player %d: every button needs a key", player+1)
			}
		}
	}
	return nil
}

// Keys lists the mapping in the order a pad reports its buttons, A first.
func (k KeyMapping) Keys() [8]string {
	return [8]string{k.A, k.B, k.Select, k.Start, k.Up, k.Down, k.Left, k.Right}
}
