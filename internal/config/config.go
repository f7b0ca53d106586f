package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Strategy selects how the survival resource is replenished.
type Strategy string

const (
	// StrategyBanked withdraws a pre-stocked consumable at the camp bank.
	StrategyBanked Strategy = "banked"
	// StrategyBrewed crafts rejuvenation potions inside the arena.
	StrategyBrewed Strategy = "brewed"
)

// Config is the full, validated option surface. The engine and the
// domain transition only ever see final values.
type Config struct {
	RunMinutes      int      `yaml:"run_minutes"`
	DamageThreshold int      `yaml:"damage_threshold"`
	TargetPotions   int      `yaml:"target_potions"`
	DoseLowWater    int      `yaml:"dose_low_water"`
	FletchRoots     bool     `yaml:"fletch_roots"`
	TakeBreaks      bool     `yaml:"take_breaks"`
	Strategy        Strategy `yaml:"strategy"`
	FoodName        string   `yaml:"food_name"`
	FoodCount       int      `yaml:"food_count"`

	RespawnSeconds       int `yaml:"respawn_seconds"`
	RespawnMarginSeconds int `yaml:"respawn_margin_seconds"`

	ClientURL string `yaml:"client_url"`
	DBDSN     string `yaml:"db_dsn"`
	OpsAddr   string `yaml:"ops_addr"`
}

func Default() Config {
	return Config{
		RunMinutes:           180,
		DamageThreshold:      3,
		TargetPotions:        4,
		DoseLowWater:         4,
		Strategy:             StrategyBrewed,
		FoodName:             "Shark",
		FoodCount:            5,
		RespawnSeconds:       60,
		RespawnMarginSeconds: 5,
		ClientURL:            "ws://127.0.0.1:17710/agent",
		OpsAddr:              ":8090",
	}
}

// Load reads the YAML file at path (optional, "" skips it), applies
// FROSTBOT_* environment overrides, then validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.RunMinutes = intEnv("FROSTBOT_RUN_MINUTES", c.RunMinutes)
	c.DamageThreshold = intEnv("FROSTBOT_DAMAGE_THRESHOLD", c.DamageThreshold)
	c.TargetPotions = intEnv("FROSTBOT_TARGET_POTIONS", c.TargetPotions)
	c.DoseLowWater = intEnv("FROSTBOT_DOSE_LOW_WATER", c.DoseLowWater)
	c.FoodCount = intEnv("FROSTBOT_FOOD_COUNT", c.FoodCount)
	if v := strings.TrimSpace(os.Getenv("FROSTBOT_STRATEGY")); v != "" {
		c.Strategy = Strategy(v)
	}
	if v := strings.TrimSpace(os.Getenv("FROSTBOT_CLIENT_URL")); v != "" {
		c.ClientURL = v
	}
	if v := strings.TrimSpace(os.Getenv("FROSTBOT_DB_DSN")); v != "" {
		c.DBDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("FROSTBOT_OPS_ADDR")); v != "" {
		c.OpsAddr = v
	}
}

func (c Config) Validate() error {
	if c.RunMinutes < 1 || c.RunMinutes > 1000 {
		return fmt.Errorf("run_minutes out of range: %d", c.RunMinutes)
	}
	if c.DamageThreshold < 1 {
		return fmt.Errorf("damage_threshold must be positive: %d", c.DamageThreshold)
	}
	if c.TargetPotions < 1 || c.TargetPotions > 14 {
		return fmt.Errorf("target_potions out of range: %d", c.TargetPotions)
	}
	if c.DoseLowWater < 1 {
		return fmt.Errorf("dose_low_water must be positive: %d", c.DoseLowWater)
	}
	if c.Strategy != StrategyBanked && c.Strategy != StrategyBrewed {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.Strategy == StrategyBanked && strings.TrimSpace(c.FoodName) == "" {
		return fmt.Errorf("banked strategy requires food_name")
	}
	if c.RespawnSeconds < 1 || c.RespawnMarginSeconds < 0 {
		return fmt.Errorf("invalid respawn timing %d+%ds", c.RespawnSeconds, c.RespawnMarginSeconds)
	}
	if strings.TrimSpace(c.ClientURL) == "" {
		return fmt.Errorf("client_url is required")
	}
	return nil
}

func (c Config) RunBudget() time.Duration {
	return time.Duration(c.RunMinutes) * time.Minute
}

func (c Config) RespawnInterval() time.Duration {
	return time.Duration(c.RespawnSeconds) * time.Second
}

func (c Config) RespawnMargin() time.Duration {
	return time.Duration(c.RespawnMarginSeconds) * time.Second
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
