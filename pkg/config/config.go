package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/whensmy/whensmy/pkg/util"
	"gopkg.in/yaml.v3"
)

// BotConfig configures one bot instance. Network decides the grammar,
// gazetteer and feeds the bot uses.
type BotConfig struct {
	Username string `yaml:"username" validate:"required"`
	Network  string `yaml:"network" validate:"required,oneof=bus tube dlr"`
	// Queue is the rmq queue the bot drains when running as a consumer.
	Queue string `yaml:"queue"`
	// CacheTTLSeconds enables the redis feed cache when greater than zero.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" validate:"gte=0"`
}

type APIConfig struct {
	ListenAddress string `yaml:"listen" validate:"required,hostname_port"`
}

type AppConfig struct {
	Bot BotConfig `yaml:"bot" validate:"required"`
	API APIConfig `yaml:"api"`
}

// Load reads and validates the YAML config, then applies WHENSMY_*
// environment overrides so deployments can tweak single values without
// shipping a file.
func Load(path string) (*AppConfig, error) {
	cfg := AppConfig{
		Bot: BotConfig{Username: "whensmybus", Network: "bus", Queue: "inbound-messages"},
		API: APIConfig{ListenAddress: "localhost:8080"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	env := util.GetEnvironmentVariables()
	if env["WHENSMY_BOT_USERNAME"] != "" {
		cfg.Bot.Username = env["WHENSMY_BOT_USERNAME"]
	}
	if env["WHENSMY_BOT_NETWORK"] != "" {
		cfg.Bot.Network = env["WHENSMY_BOT_NETWORK"]
	}
	if env["WHENSMY_BOT_QUEUE"] != "" {
		cfg.Bot.Queue = env["WHENSMY_BOT_QUEUE"]
	}
	if env["WHENSMY_API_LISTEN"] != "" {
		cfg.API.ListenAddress = env["WHENSMY_API_LISTEN"]
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
