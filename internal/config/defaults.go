package config

import (
	_ "embed"

	"github.com/vovakirdan/druid-frontend/internal/canvas"
	"github.com/vovakirdan/druid-frontend/internal/render"
)

//go:embed defaults/druid.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration.
func Default() Config {
	rc := render.DefaultConfig()
	return Config{
		Canvas: CanvasConfig{
			ElementID: canvas.DefaultElementID,
			Width:     rc.Width,
			Height:    rc.Height,
		},
		Frame: FrameConfig{
			TickRate:   rc.TickRate,
			Background: "#000000",
			BlockColor: render.PlaceholderColor.String(),
		},
		Asset: AssetConfig{
			Root:   "asset",
			Splash: "example.png",
		},
		Storage: StorageConfig{
			DBPath: "~/.druid/druid.db",
		},
		Server: ServerConfig{
			Address:            ":23234",
			HostKey:            "~/.druid/host_key",
			IdleTimeoutMinutes: 30,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
