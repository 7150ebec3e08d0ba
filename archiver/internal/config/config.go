package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Consumer   ConsumerConfig   `mapstructure:"consumer"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type QueueConfig struct {
	URL      string        `mapstructure:"url"`
	Stream   string        `mapstructure:"stream"`
	Subject  string        `mapstructure:"subject"`
	Consumer string        `mapstructure:"consumer"`
	AckWait  time.Duration `mapstructure:"ack_wait"`
}

type ConsumerConfig struct {
	BatchSize    int           `mapstructure:"batch_size"`
	WaitTime     time.Duration `mapstructure:"wait_time"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type OpenSearchConfig struct {
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
	Index         string `mapstructure:"index"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("queue.url", "nats://localhost:4222")
	v.SetDefault("queue.stream", "MAIL_EVENTS")
	v.SetDefault("queue.subject", "mail.events")
	v.SetDefault("queue.consumer", "archiver")
	v.SetDefault("queue.ack_wait", "30s")
	v.SetDefault("consumer.batch_size", 10)
	v.SetDefault("consumer.wait_time", "20s")
	v.SetDefault("consumer.poll_interval", "5s")
	v.SetDefault("opensearch.url", "https://localhost:9200")
	v.SetDefault("opensearch.username", "admin")
	v.SetDefault("opensearch.tls_skip_verify", true)
	v.SetDefault("opensearch.index", "mailvault-archive")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/mailvault/archiver")
	}

	// Environment variables override with MAILVAULT prefix
	v.SetEnvPrefix("MAILVAULT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
