package config

import (
	"time"

	"github.com/spf13/viper"
)

type Eth struct {
	// JSON-RPC endpoint of the Ethereum node
	RpcUrl string

	// Timeout for a single read call
	CallTimeout time.Duration
}

func setEthDefaults() {
	viper.SetDefault("Eth.RpcUrl", "https://mainnet.infura.io/v3/")
	viper.SetDefault("Eth.CallTimeout", "30s")
}
