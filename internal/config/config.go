// Package config loads runtime settings from an optional YAML file and
// FORESTCLASH_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/peterkuimelis/forestclash/internal/game"
)

// EnvPrefix namespaces environment overrides, e.g. FORESTCLASH_GAME_GOAL.
const EnvPrefix = "FORESTCLASH"

type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
	Storage StorageConfig `mapstructure:"storage"`
	Web     WebConfig     `mapstructure:"web"`
}

type GameConfig struct {
	Goal                int    `mapstructure:"goal"`
	MaxHandSize         int    `mapstructure:"max_hand_size"`
	OpeningHand         int    `mapstructure:"opening_hand"`
	HistoryCap          int    `mapstructure:"history_cap"`
	ContractEndsTurn    bool   `mapstructure:"contract_ends_turn"`
	ChainTurnPreserving bool   `mapstructure:"chain_turn_preserving"`
	CatalogFile         string `mapstructure:"catalog_file"`
	Seed                int64  `mapstructure:"seed"` // 0 = time based
	// OpponentDelay paces the opponent's move in interactive front ends.
	OpponentDelay time.Duration `mapstructure:"opponent_delay"`
	Account       string        `mapstructure:"account"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // memory, sqlite or postgres
	Path   string `mapstructure:"path"`   // sqlite file
	DSN    string `mapstructure:"dsn"`    // postgres url
}

type WebConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.goal", game.DefaultGoal)
	v.SetDefault("game.max_hand_size", game.DefaultMaxHandSize)
	v.SetDefault("game.opening_hand", game.DefaultOpeningHand)
	v.SetDefault("game.history_cap", game.DefaultHistoryCap)
	v.SetDefault("game.contract_ends_turn", true)
	v.SetDefault("game.chain_turn_preserving", true)
	v.SetDefault("game.catalog_file", "")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.opponent_delay", "1s")
	v.SetDefault("game.account", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.path", "forestclash.db")
	v.SetDefault("storage.dsn", "")

	v.SetDefault("web.addr", ":8080")
	v.SetDefault("web.allowed_origins", []string{})
}

// Load reads path (if non-empty) over the defaults, then applies environment
// overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the rest of the program cannot run with.
func (c *Config) Validate() error {
	g := c.Game
	if g.Goal <= 0 {
		return fmt.Errorf("game.goal must be positive, got %d", g.Goal)
	}
	if g.MaxHandSize <= 0 {
		return fmt.Errorf("game.max_hand_size must be positive, got %d", g.MaxHandSize)
	}
	if g.OpeningHand < 0 || g.OpeningHand > g.MaxHandSize {
		return fmt.Errorf("game.opening_hand must be between 0 and %d, got %d", g.MaxHandSize, g.OpeningHand)
	}
	if g.HistoryCap <= 0 {
		return fmt.Errorf("game.history_cap must be positive, got %d", g.HistoryCap)
	}
	if g.OpponentDelay < 0 {
		return fmt.Errorf("game.opponent_delay must not be negative")
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage.path is required for sqlite")
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("storage.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	return nil
}

// Rules maps the game section onto engine rules.
func (g GameConfig) Rules() game.Rules {
	return game.Rules{
		Goal:                g.Goal,
		MaxHandSize:         g.MaxHandSize,
		OpeningHand:         g.OpeningHand,
		HistoryCap:          g.HistoryCap,
		ContractEndsTurn:    g.ContractEndsTurn,
		ChainTurnPreserving: g.ChainTurnPreserving,
	}
}

// Catalog loads the configured catalog file, or the built-in catalog.
func (g GameConfig) Catalog() (*game.Catalog, error) {
	if g.CatalogFile == "" {
		return game.DefaultCatalog(), nil
	}
	c, err := game.LoadCatalog(g.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", g.CatalogFile, err)
	}
	return c, nil
}
