package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	// Empty DSN runs the service against the in-memory bank and registry.
	PostgresDSN string `env:"POSTGRES_DSN"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// Protocol economics. Amounts are integer chain units.
	BaseStake      int64 `env:"BASE_STAKE" envDefault:"1000"`
	JuryCollateral int64 `env:"JURY_COLLATERAL" envDefault:"100"`

	// Balance granted to first-seen wallets in in-memory mode.
	InitialBalance int64 `env:"INITIAL_BALANCE" envDefault:"100000"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
