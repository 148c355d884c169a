package config

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const MAX_SLICE_LEN = 10

// Config stores global configuration
type Config struct {
	// Is development mode on
	IsDevelopment bool

	// REST API address. API used for monitoring etc.
	RESTListenAddress string

	// Maximum time the bot will be closing before stop is forced.
	StopTimeout time.Duration

	// Logging level
	LogLevel string

	Notifier  Notifier
	Contracts Contracts
	Database  Database
	Eth       Eth
	Twitter   Twitter
	Bitly     Bitly
	Ipfs      Ipfs
}

func setDefaults() {
	viper.SetDefault("IsDevelopment", "false")
	viper.SetDefault("RESTListenAddress", ":7777")
	viper.SetDefault("LogLevel", "DEBUG")
	viper.SetDefault("StopTimeout", "30s")

	setNotifierDefaults()
	setContractsDefaults()
	setDatabaseDefaults()
	setEthDefaults()
	setTwitterDefaults()
	setBitlyDefaults()
	setIpfsDefaults()
}

func Default() (config *Config) {
	config, _ = Load("")
	return
}

func IsIndex(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func BindEnv(path []string, val reflect.Value) {
	if val.Kind() == reflect.Slice {
		_, ok := val.Interface().([]Badge)
		if ok {
			for i := 0; i < MAX_SLICE_LEN; i++ {
				newPath := make([]string, len(path))
				copy(newPath, path)
				newPath = append(newPath, fmt.Sprintf("%d", i))
				BindEnv(newPath, reflect.ValueOf(Badge{}))
			}
		} else {
			// Slice of base types
			key := strings.ToLower(strings.Join(path, "."))
			env := "T2CR_" + strcase.ToScreamingSnake(strings.Join(path, "_"))
			err := viper.BindEnv(key, env)
			if err != nil {
				panic(err)
			}
		}
	} else if val.Kind() != reflect.Struct {
		// Base types
		key := path[0]
		for _, p := range path[1:] {
			if IsIndex(p) {
				key += "[" + p + "]"
			} else {
				key += "." + p
			}
		}

		env := "T2CR_" + strcase.ToScreamingSnake(strings.Join(path, "_"))
		err := viper.BindEnv(key, env)
		if err != nil {
			panic(err)
		}
	} else {
		// Iterates over struct fields
		for i := 0; i < val.NumField(); i++ {
			newPath := make([]string, len(path))
			copy(newPath, path)
			newPath = append(newPath, val.Type().Field(i).Name)
			BindEnv(newPath, val.Field(i))
		}
	}
}

func defaultDecoderConfig(output interface{}) *mapstructure.DecoderConfig {
	c := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           output,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}
	return c
}

// Load configuration from file and env
func Load(filename string) (config *Config, err error) {
	viper.SetConfigType("json")

	setDefaults()

	// Visits every field and registers upper snake case ENV name for it
	// Works with embedded structs
	BindEnv([]string{}, reflect.ValueOf(Config{}))

	// Empty filename means we use default values
	if filename != "" {
		var content []byte
		/* #nosec */
		content, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		err = viper.ReadConfig(bytes.NewBuffer(content))
		if err != nil {
			return nil, err
		}
	}

	config = new(Config)
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}

	err = unmarshalBadges(config)
	if err != nil {
		return nil, err
	}

	return
}

// Indexed env entries aren't picked up by viper's Unmarshal, gather them by hand
func unmarshalBadges(config *Config) (err error) {
	for i := 0; i < MAX_SLICE_LEN; i++ {
		address := viper.GetString(fmt.Sprintf("contracts.badges[%d].address", i))
		if address == "" {
			break
		}

		badge := Badge{
			Address: address,
			Title:   viper.GetString(fmt.Sprintf("contracts.badges[%d].title", i)),
		}

		if i < len(config.Contracts.Badges) {
			config.Contracts.Badges[i] = badge
		} else {
			config.Contracts.Badges = append(config.Contracts.Badges, badge)
		}
	}
	return
}
