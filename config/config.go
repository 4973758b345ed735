package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Discord struct {
		Token    string   `yaml:"token"`
		GuildID  string   `yaml:"guild_id"`
		Status   string   `yaml:"status"`
		ClientID string   `yaml:"client_id"`
		Devs     []string `yaml:"developers"`
		Sharding struct {
			Enabled     bool `yaml:"enabled"`
			TotalShards int  `yaml:"total_shards"`
		} `yaml:"sharding"`
	} `yaml:"discord"`

	MongoDB struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongodb"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	SFTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		LogDir   string `yaml:"log_dir"`
	} `yaml:"sftp"`

	Logger struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logger"`

	Debug        bool      `yaml:"debug"`
	BotStartTime time.Time `yaml:"-"`
}

func Load(path string) (*Config, error) {
	var cfg Config

	file, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// No config file is fine: everything can come from the environment.
	} else if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.BotStartTime = time.Now()

	return &cfg, nil
}

// applyEnv lets the environment override file values. The MongoDB settings are
// optional: an empty URI makes the database layer run on its in-memory
// fallback.
func (c *Config) applyEnv() {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("DISCORD_CLIENT_ID"); v != "" {
		c.Discord.ClientID = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.MongoDB.URI = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.MongoDB.Database = v
	}
	if c.MongoDB.Database == "" {
		c.MongoDB.Database = "discord_bot"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Discord.Status == "" {
		c.Discord.Status = "over the killfeed"
	}
}
