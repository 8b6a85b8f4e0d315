// Package config provides YAML-based configuration loading for geocoin,
// with environment overrides applied on top of the file.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/geocoin/internal/cache"
	"github.com/vovakirdan/geocoin/internal/grid"
)

// Config is the full geocoin configuration.
type Config struct {
	World   WorldConfig   `yaml:"world" envPrefix:"WORLD_"`
	Player  PlayerConfig  `yaml:"player" envPrefix:"PLAYER_"`
	Storage StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Feed    FeedConfig    `yaml:"feed" envPrefix:"FEED_"`
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
}

// WorldConfig defines how the world is generated. Two installs with the same
// world section see the same caches.
type WorldConfig struct {
	Seed             uint64  `yaml:"seed" env:"SEED"`
	TileSize         float64 `yaml:"tile_size" env:"TILE_SIZE"`                 // Degrees per cell side
	SpawnProbability float64 `yaml:"spawn_probability" env:"SPAWN_PROBABILITY"` // Chance a cell holds a cache
	PointScale       int     `yaml:"point_scale" env:"POINT_SCALE"`             // Point values fall in [0, PointScale)
	CoinScale        int     `yaml:"coin_scale" env:"COIN_SCALE"`               // Initial coins fall in [0, CoinScale)
	Radius           int     `yaml:"radius" env:"RADIUS"`                       // Scan window half-width in cells
}

// PlayerConfig defines the player's defaults.
type PlayerConfig struct {
	Name     string  `yaml:"name" env:"NAME"`
	StartLat float64 `yaml:"start_lat" env:"START_LAT"`
	StartLng float64 `yaml:"start_lng" env:"START_LNG"`
}

// StorageConfig defines where sessions and logs live.
type StorageConfig struct {
	DBPath  string `yaml:"db" env:"DB"`
	Slot    string `yaml:"slot" env:"SLOT"`
	LogFile string `yaml:"log_file" env:"LOG_FILE"`
}

// FeedConfig defines the location feed used by play and walk.
type FeedConfig struct {
	Name     string        `yaml:"name" env:"NAME"` // Registered feed name, or "none"
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
	Track    string        `yaml:"track" env:"TRACK"` // Track file for the replay feed
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address     string        `yaml:"address" env:"ADDRESS"`
	HostKeyPath string        `yaml:"host_key" env:"HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
}

// Start returns the configured start location.
func (c PlayerConfig) Start() grid.LatLng {
	return grid.LatLng{Lat: c.StartLat, Lng: c.StartLng}
}

// Params returns the cache generation parameters.
func (c WorldConfig) Params() cache.Params {
	return cache.Params{
		SpawnProbability: c.SpawnProbability,
		PointScale:       c.PointScale,
		CoinScale:        c.CoinScale,
	}
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if !finite(c.World.TileSize) || c.World.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("world.tile_size must be positive, got %v", c.World.TileSize))
	}
	if !finite(c.World.SpawnProbability) || c.World.SpawnProbability <= 0 || c.World.SpawnProbability > 1 {
		errs = append(errs, fmt.Errorf("world.spawn_probability must be in (0, 1], got %v", c.World.SpawnProbability))
	}
	if c.World.PointScale <= 0 {
		errs = append(errs, fmt.Errorf("world.point_scale must be positive, got %d", c.World.PointScale))
	}
	if c.World.CoinScale <= 0 {
		errs = append(errs, fmt.Errorf("world.coin_scale must be positive, got %d", c.World.CoinScale))
	}
	if c.World.Radius < 0 {
		errs = append(errs, fmt.Errorf("world.radius must not be negative, got %d", c.World.Radius))
	}
	if !finite(c.Player.StartLat) || c.Player.StartLat < -90 || c.Player.StartLat > 90 {
		errs = append(errs, fmt.Errorf("player.start_lat out of range: %v", c.Player.StartLat))
	}
	if !finite(c.Player.StartLng) || c.Player.StartLng < -180 || c.Player.StartLng > 180 {
		errs = append(errs, fmt.Errorf("player.start_lng out of range: %v", c.Player.StartLng))
	}
	if c.Storage.Slot == "" {
		errs = append(errs, errors.New("storage.slot must not be empty"))
	}
	if c.Feed.Interval <= 0 {
		errs = append(errs, fmt.Errorf("feed.interval must be positive, got %v", c.Feed.Interval))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
