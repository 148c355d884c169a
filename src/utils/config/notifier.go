package config

import (
	"time"

	"github.com/spf13/viper"
)

type Notifier struct {
	// How often to scan for new events
	PollInterval time.Duration

	// Base URL for listing pages
	ListingBaseUrl string

	// Base URL of the block explorer used for token address links
	EtherscanBaseUrl string

	// Directory with one static image per badge contract, keyed by address
	BadgeAssetDir string

	// Number of workers used to gather independent contract reads
	NumWorkers int

	// Max number of read jobs waiting in the worker queue
	MaxQueueSize int

	// Max time between failed retries to persist the checkpoint
	CheckpointBackoffInterval time.Duration

	// Max total time spent retrying a checkpoint write.
	// 0 keeps retrying until the task stops.
	CheckpointMaxElapsedTime time.Duration
}

func setNotifierDefaults() {
	viper.SetDefault("Notifier.PollInterval", "5m")
	viper.SetDefault("Notifier.ListingBaseUrl", "https://tokens.kleros.io")
	viper.SetDefault("Notifier.EtherscanBaseUrl", "https://etherscan.io")
	viper.SetDefault("Notifier.BadgeAssetDir", "./assets")
	viper.SetDefault("Notifier.NumWorkers", "5")
	viper.SetDefault("Notifier.MaxQueueSize", "50")
	viper.SetDefault("Notifier.CheckpointBackoffInterval", "10s")
	viper.SetDefault("Notifier.CheckpointMaxElapsedTime", "1m")
}
