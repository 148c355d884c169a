package common

import (
	"context"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
)

type contextKey int

const configKey contextKey = iota

func SetConfig(ctx context.Context, config *config.Config) context.Context {
	return context.WithValue(ctx, configKey, config)
}

func GetConfig(ctx context.Context) *config.Config {
	return ctx.Value(configKey).(*config.Config)
}
