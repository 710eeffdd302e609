package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameConfig     `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Addr     string `hcl:"addr,optional"`
	LogLevel string `hcl:"log_level,optional"`
	AuthURL  string `hcl:"auth_url,optional"`
}

// GameConfig defines the button game parameters. Countdown is a Go duration
// string ("24h", "90s"). Holder optionally seeds the initial holder; when
// empty the house account holds the (empty) pot until the first press.
type GameConfig struct {
	Countdown         string `hcl:"countdown,optional"`
	MinStake          int64  `hcl:"min_stake,optional"`
	TerminateOnPayout bool   `hcl:"terminate_on_payout,optional"`
	Holder            string `hcl:"holder,optional"`
}

// CountdownDuration parses the configured countdown window.
func (g GameConfig) CountdownDuration() (time.Duration, error) {
	d, err := time.ParseDuration(g.Countdown)
	if err != nil {
		return 0, fmt.Errorf("invalid countdown %q: %w", g.Countdown, err)
	}
	return d, nil
}

// DefaultConfig returns the default server configuration: a repeatable
// 24-hour game with a 1000-unit minimum stake.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Addr:     ":8080",
			LogLevel: "info",
		},
		Game: GameConfig{
			Countdown: "24h",
			MinStake:  1000,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Game.Countdown == "" {
		config.Game.Countdown = "24h"
	}
	if config.Game.MinStake == 0 {
		config.Game.MinStake = 1000
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}

	countdown, err := c.Game.CountdownDuration()
	if err != nil {
		return err
	}
	if countdown <= 0 {
		return fmt.Errorf("countdown must be positive, got %s", countdown)
	}
	if c.Game.MinStake <= 0 {
		return fmt.Errorf("min_stake must be positive, got %d", c.Game.MinStake)
	}

	return nil
}
