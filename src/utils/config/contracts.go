package config

import "github.com/spf13/viper"

type Contracts struct {
	// T2CR registry contract address
	RegistryAddress string

	// Kleros arbitrator contract address
	ArbitratorAddress string

	// Badge contracts watched next to the registry
	Badges []Badge
}

type Badge struct {
	// Badge contract address
	Address string

	// Human readable badge name used in messages
	Title string
}

func setContractsDefaults() {
	viper.SetDefault("Contracts.RegistryAddress", "")
	viper.SetDefault("Contracts.ArbitratorAddress", "")
}
