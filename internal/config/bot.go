package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	BaseURL  string `env:"ARBITER_URL" envDefault:"http://localhost:8080"`
	EntryFee int64  `env:"BOT_ENTRY_FEE" envDefault:"5"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
