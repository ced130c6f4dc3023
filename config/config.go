package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	AWS    AWSConfig
	Clerk  ClerkConfig
}

type ServerConfig struct {
	Port       string
	CORSOrigin string
}

type AWSConfig struct {
	Region string
	Bucket string
	// MediaBaseURL is the public prefix for uploaded objects, e.g.
	// https://<bucket>.s3.<region>.amazonaws.com
	MediaBaseURL string
}

type ClerkConfig struct {
	SecretKey     string
	WebhookSecret string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Printf("Unable to unmarshal config: %v", err)
		return nil, err
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	return &c, nil
}
