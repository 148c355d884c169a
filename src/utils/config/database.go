package config

import "github.com/spf13/viper"

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SslMode  string
}

func setDatabaseDefaults() {
	viper.SetDefault("Database.Host", "127.0.0.1")
	viper.SetDefault("Database.Port", "5432")
	viper.SetDefault("Database.User", "postgres")
	viper.SetDefault("Database.Password", "postgres")
	viper.SetDefault("Database.Name", "t2cr")
	viper.SetDefault("Database.SslMode", "disable")
}
