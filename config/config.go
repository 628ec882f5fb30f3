package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Configuration struct {
	ApiPort string `mapstructure:"api_port"`

	Database string `mapstructure:"database"` // "sqlite3" ou "postgres"
	DbHost   string `mapstructure:"db_host"`
	DbPort   string `mapstructure:"db_port"`
	DbUser   string `mapstructure:"db_user"`
	DbName   string `mapstructure:"db_name"`
	DbPass   string `mapstructure:"db_pass"`
	DbPath   string `mapstructure:"db_path"` // arquivo sqlite3

	Security struct {
		JwtSecret string `mapstructure:"jwt_secret"`
		// Token de serviço exigido no endpoint do sweep (chamado por cron
		// externo, não por um usuário final).
		SweepToken string `mapstructure:"sweep_token"`
	} `mapstructure:"security"`

	Sweep struct {
		// Intervalo do sweeper interno, em segundos. 0 desliga o ticker
		// (só o endpoint HTTP dispara o sweep).
		IntervalSeconds int `mapstructure:"interval_seconds"`
	} `mapstructure:"sweep"`
}

// Get carrega config.json do path indicado, com override por env
// (LOCAFESTA_DB_HOST, LOCAFESTA_SECURITY_JWT_SECRET, etc).
func Get(path string) Configuration {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("LOCAFESTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("erro ao ler config")
	}

	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		log.Fatal().Err(err).Msg("erro ao interpretar config")
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.DbPath == "" {
		c.DbPath = "db/database.db"
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if c.Sweep.IntervalSeconds < 0 {
		c.Sweep.IntervalSeconds = 0
	}

	return c
}
