package config

import (
	"time"

	"github.com/spf13/viper"
)

type Ipfs struct {
	// Gateway serving path-relative URIs
	GatewayUrl string

	// Fallback origin for relative paths that don't start with a path separator
	FileBaseUrl string

	// Request timeout
	RequestTimeout time.Duration
}

func setIpfsDefaults() {
	viper.SetDefault("Ipfs.GatewayUrl", "https://ipfs.kleros.io")
	viper.SetDefault("Ipfs.FileBaseUrl", "")
	viper.SetDefault("Ipfs.RequestTimeout", "30s")
}
