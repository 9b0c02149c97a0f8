package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Log              LogConfigs       `toml:"log"`
	Database         DatabaseConfigs  `toml:"database"`
	ApiServer        APIServerConfigs `toml:"api_server"`
	PrometheusServer ServerConfigs    `toml:"prometheus_server"`
	Redis            RedisConfigs     `toml:"redis"`
	Kafka            KafkaConfigs     `toml:"kafka"`
	Cache            CacheConfigs     `toml:"cache"`
	Card             CardConfigs      `toml:"card"`
}

type LogConfigs struct {
	Level string `toml:"level"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	AllowedOrigins []string `toml:"allowed_origins"`
	MaxLimit       int      `toml:"max_limit"`
	DefaultLimit   int      `toml:"default_limit"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr       string `toml:"addr"`
	ClientID   string `toml:"client_id"`
	GroupID    string `toml:"group_id"`
	EventTopic string `toml:"event_topic"`
	RoomTopic  string `toml:"room_topic"`
}

type CacheConfigs struct {
	TTL Duration `toml:"ttl"`
}

type CardConfigs struct {
	MaxGenerateAttempts int `toml:"max_generate_attempts"`
	MaxQuantity         int `toml:"max_quantity"`
}

// Duration is a time.Duration which can be decoded from strings like "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Configs {
	return Configs{
		Env: "local",
		Log: LogConfigs{Level: "info"},
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "bingo",
			User:     "root",
			LogLevel: "error",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs:  ServerConfigs{Port: "8080"},
			AllowedOrigins: []string{"*"},
			MaxLimit:       100,
			DefaultLimit:   10,
		},
		PrometheusServer: ServerConfigs{Port: "9090"},
		Redis:            RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{
			Addr:       "localhost:9092",
			ClientID:   "bingo-backend",
			GroupID:    "bingo-backend",
			EventTopic: "event",
			RoomTopic:  "room",
		},
		Cache: CacheConfigs{TTL: Duration{1800 * time.Second}},
		Card: CardConfigs{
			MaxGenerateAttempts: 100,
			MaxQuantity:         50,
		},
	}
}

// Load reads the toml file at path on top of the default configurations. An
// empty path returns the default configurations.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}
