// Command authbridge-devserver runs the development authorization backend.
// Point AUTHBRIDGE_BACKEND_URL at it and every SDK transport can be
// exercised end to end without real provider credentials.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/open-rails/authbridge/backend"
	"github.com/open-rails/authbridge/devserver"
	memorystore "github.com/open-rails/authbridge/storage/memory"
	redisstore "github.com/open-rails/authbridge/storage/redis"
)

type config struct {
	ListenAddr string `env:"DEVSERVER_LISTEN_ADDR" envDefault:":8080"`
	Env        string `env:"DEVSERVER_ENV" envDefault:"dev"`
	RedisAddr  string `env:"DEVSERVER_REDIS_ADDR"`

	Server devserver.Config
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fatal(err)
	}

	log, err := buildLogger(cfg.Env)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = log.Sync() }()

	var store backend.StateStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			fatal(fmt.Errorf("redis ping: %w", err))
		}
		store = redisstore.New(rdb)
		log.Info("using redis handshake store", zap.String("addr", cfg.RedisAddr))
	} else {
		store = memorystore.New()
		log.Info("using in-memory handshake store")
	}

	srv := devserver.New(cfg.Server, store, log)
	log.Info("devserver listening", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		fatal(err)
	}
}

func buildLogger(envName string) (*zap.Logger, error) {
	if strings.EqualFold(envName, "prod") {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "authbridge-devserver:", err)
	os.Exit(1)
}
