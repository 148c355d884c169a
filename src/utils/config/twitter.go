package config

import (
	"time"

	"github.com/spf13/viper"
)

type Twitter struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string

	// Base URL of the REST API
	ApiUrl string

	// Base URL of the media upload API
	UploadUrl string

	// Request timeout
	RequestTimeout time.Duration

	// Max write requests per second
	RequestsPerSecond int
}

func setTwitterDefaults() {
	viper.SetDefault("Twitter.ApiUrl", "https://api.twitter.com/1.1")
	viper.SetDefault("Twitter.UploadUrl", "https://upload.twitter.com/1.1")
	viper.SetDefault("Twitter.RequestTimeout", "30s")
	viper.SetDefault("Twitter.RequestsPerSecond", "1")
}
