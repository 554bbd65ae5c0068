package server

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	DataDir string `mapstructure:"data_dir"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.data_dir", "./data")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("catalog.path", "./data/networks.json")
	v.SetDefault("icons.path", "./data/icons.json")
	v.SetDefault("oui.overrides_path", "./data/oui_overrides.json")
	v.SetDefault("history.path", "./data/netscan2.db")
	v.SetDefault("history.retention", "720h")
	v.SetDefault("sweep.concurrency", 64)
	v.SetDefault("sweep.ping_timeout", "700ms")
	v.SetDefault("sweep.dns_timeout", "500ms")
	v.SetDefault("sweep.interval", "0")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("netscan2")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/netscan2")
	}

	// Environment overrides: NETSCAN2_SERVER_PORT=9090 maps to server.port.
	v.SetEnvPrefix("NETSCAN2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
