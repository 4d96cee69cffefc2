package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
	Stats    StatsConfig    `mapstructure:"stats"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MonitorAddress string `mapstructure:"monitor_address"`
}

// GameConfig holds the room defaults applied when a createRoom request
// leaves its settings empty.
type GameConfig struct {
	MaxPlayers        int           `mapstructure:"max_players"`
	MaxRounds         int           `mapstructure:"max_rounds"`
	GuessTime         int           `mapstructure:"guess_time"`
	RoomCodeLength    int           `mapstructure:"room_code_length"`
	IdleGrace         time.Duration `mapstructure:"idle_grace"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
	SolvableThreshold float64       `mapstructure:"solvable_threshold"`
}

type StatsConfig struct {
	// BaseURL of the leaderboard/daily-stats HTTP service. Empty means the
	// built-in service on HTTPAddress is used.
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("game.max_players", 8)
	viper.SetDefault("game.max_rounds", 5)
	viper.SetDefault("game.guess_time", 30)
	viper.SetDefault("game.room_code_length", 6)
	viper.SetDefault("game.idle_grace", 2*time.Minute)
	viper.SetDefault("game.sweep_interval", 30*time.Second)
	viper.SetDefault("game.solvable_threshold", 95.0)
	viper.SetDefault("stats.timeout", 5*time.Second)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
