package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env            string `env:"ENVIRONMENT"`
	BotToken       string `env:"BOT_TOKEN"`
	BasicAuthCreds string `env:"BASIC_AUTH_CREDS"`

	MarketAPIBase    string `env:"MARKET_API_BASE" envDefault:"https://api.wynncraft.com/v3"`
	DBFile           string `env:"DB_FILE" envDefault:"pricewatch.sqlite"`
	ServerPort       int    `env:"PORT" envDefault:"5000"`
	PollIntervalSecs int    `env:"POLL_INTERVAL_SECS" envDefault:"120"`
	FetchTimeoutSecs int    `env:"FETCH_TIMEOUT_SECS" envDefault:"10"`
	PollConcurrency  int    `env:"POLL_CONCURRENCY" envDefault:"5"`
	AlertPlatform    string `env:"ALERT_PLATFORM" envDefault:"telegram"`

	Mailgun struct {
		Domain      string `env:"MAILGUN_DOMAIN"`
		APIKey      string `env:"MAILGUN_API_KEY"`
		SenderFrom  string `env:"MAILGUN_SENDER_FROM"`
		AlertTo     string `env:"MAILGUN_ALERT_TO"`
		TimeoutSecs int    `env:"MAILGUN_TIMEOUT_SECS" envDefault:"10"`
	}

	log   *zap.Logger
	creds map[string]string
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) *Config {
	cfg := &Config{log: log}
	if err := env.Parse(cfg); err != nil {
		log.Sugar().Panic(err)
	}

	creds, err := cfg.parseCreds()
	if err != nil {
		if cfg.Env == "production" {
			cfg.log.Sugar().Panic(err)
		}
		cfg.log.Sugar().Infof("%s (credentials will be set to default in development env)", err)
		creds = map[string]string{"admin": "password"}
	}
	cfg.creds = creds

	if cfg.BotToken == "" && cfg.Env == "production" {
		log.Sugar().Panic("BOT_TOKEN envvar must be populated")
	}

	return cfg
}

func (cfg *Config) PollInterval() time.Duration {
	return time.Duration(cfg.PollIntervalSecs) * time.Second
}

func (cfg *Config) FetchTimeout() time.Duration {
	return time.Duration(cfg.FetchTimeoutSecs) * time.Second
}

func (cfg *Config) GetCreds() map[string]string {
	return cfg.creds
}

func (cfg *Config) parseCreds() (map[string]string, error) {
	if cfg.BasicAuthCreds == "" {
		return nil, errors.New("BASIC_AUTH_CREDS envvar must be populated")
	}

	creds := strings.Split(cfg.BasicAuthCreds, ",")
	if len(creds) == 0 {
		return nil, errors.New("BASIC_AUTH_CREDS envvar should be filled with comma-separated values -- user1:pass1,user2:pass2")
	}

	result := make(map[string]string)
	for _, cred := range creds {
		userPass := strings.Split(cred, ":")
		if len(userPass) != 2 {
			return nil, fmt.Errorf("failed to parse '%s', each credential should be delimited by a colon -- user1:pass1,user2:pass2", cred)
		}

		user, pass := userPass[0], userPass[1]
		result[strings.Trim(user, " ")] = strings.Trim(pass, " ")
	}

	return result, nil
}
