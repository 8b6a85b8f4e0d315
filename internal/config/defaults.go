package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/geocoin.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		World: WorldConfig{
			Seed:             0,
			TileSize:         1e-4,
			SpawnProbability: 0.1,
			PointScale:       100,
			CoinScale:        10,
			Radius:           8,
		},
		Player: PlayerConfig{
			Name:     "player",
			StartLat: 36.98949379578401,
			StartLng: -122.06277128548504,
		},
		Storage: StorageConfig{
			DBPath:  "~/.geocoin/geocoin.db",
			Slot:    "default",
			LogFile: "~/.geocoin/geocoin.log",
		},
		Feed: FeedConfig{
			Name:     "none",
			Interval: time.Second,
		},
		Server: ServerConfig{
			Address:     ":23235",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
