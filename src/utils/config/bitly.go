package config

import (
	"time"

	"github.com/spf13/viper"
)

type Bitly struct {
	// Access token for the v4 API
	Token string

	// Base URL of the API
	ApiUrl string

	// Request timeout
	RequestTimeout time.Duration

	// How long shortened links are memoized
	CacheTtl time.Duration
}

func setBitlyDefaults() {
	viper.SetDefault("Bitly.ApiUrl", "https://api-ssl.bitly.com")
	viper.SetDefault("Bitly.RequestTimeout", "30s")
	viper.SetDefault("Bitly.CacheTtl", "24h")
}
