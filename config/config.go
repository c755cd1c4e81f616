package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "NPCSIM"

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Sim     SimConfig     `mapstructure:"sim"`
	Log     LogConfig     `mapstructure:"log"`
	Prefabs PrefabsConfig `mapstructure:"prefabs"`
	Level   LevelConfig   `mapstructure:"level"`
	Feed    FeedConfig    `mapstructure:"feed"`
}

type SimConfig struct {
	TickRate      int     `mapstructure:"tick_rate"`
	Seed          uint64  `mapstructure:"seed"`
	Authoritative bool    `mapstructure:"authoritative"`
	// CorpseTTL is how long a corpse stays in the world, in seconds.
	CorpseTTL float64 `mapstructure:"corpse_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PrefabsConfig points at an optional on-disk prefab tree that overrides
// the embedded one.
type PrefabsConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

type LevelConfig struct {
	Name string `mapstructure:"name"`
}

type FeedConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sim.tick_rate", 60)
	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.authoritative", true)
	v.SetDefault("sim.corpse_ttl", 30.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("prefabs.dir", "")
	v.SetDefault("prefabs.watch", false)
	v.SetDefault("level.name", "arena")
	v.SetDefault("feed.addr", ":8089")
	v.SetDefault("feed.enabled", true)
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads defaults, then the optional file at path, then NPCSIM_*
// environment variables (NPCSIM_SIM_TICK_RATE and so on).
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("%w: sim.tick_rate must be positive, got %v", ErrInvalidConfig, c.Sim.TickRate)
	}
	if c.Sim.CorpseTTL <= 0 {
		return fmt.Errorf("%w: sim.corpse_ttl must be positive, got %v", ErrInvalidConfig, c.Sim.CorpseTTL)
	}
	if strings.TrimSpace(c.Level.Name) == "" {
		return fmt.Errorf("%w: level.name is empty", ErrInvalidConfig)
	}
	if c.Feed.Enabled && strings.TrimSpace(c.Feed.Addr) == "" {
		return fmt.Errorf("%w: feed.addr is empty", ErrInvalidConfig)
	}
	return nil
}
