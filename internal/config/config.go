package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	ContestDir string  `yaml:"contest_dir"`
	Listen     string  `yaml:"listen"`
	Admin      Admin   `yaml:"admin"`
	Logger     Logger  `yaml:"logger"`
	Storage    Storage `yaml:"storage"`
	Stream     Stream  `yaml:"stream"`
	Auth       Auth    `yaml:"auth"`
	CORS       CORS    `yaml:"cors"`
}

// Admin configures the operator API listener and the account created on
// first boot when the operator table is empty.
type Admin struct {
	Enabled         bool   `yaml:"enabled"`
	Listen          string `yaml:"listen"`
	InitialUsername string `yaml:"initial_username"`
	InitialPassword string `yaml:"initial_password"`
}

type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Storage struct {
	Database string `yaml:"database"`
}

// Stream configures the Redis subscription carrying graded runs.
type Stream struct {
	Enabled  bool     `yaml:"enabled"`
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	Channels []string `yaml:"channels"`
}

type Auth struct {
	JWT JWT `yaml:"jwt"`
}

type JWT struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Admin.Listen == "" {
		c.Admin.Listen = ":8081"
	}
	if c.Auth.JWT.ExpireHours <= 0 {
		c.Auth.JWT.ExpireHours = 24
	}
	if c.Storage.Database == "" {
		c.Storage.Database = "data/ranklist.db"
	}
	if c.Stream.Addr == "" {
		c.Stream.Addr = "localhost:6379"
	}
	if len(c.Stream.Channels) == 0 {
		c.Stream.Channels = []string{"judge:results", "anigma:results"}
	}
}
