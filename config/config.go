// Package config loads the process configuration from an optional YAML file
// with environment-variable overrides. Everything here is read once at
// startup and never mutated afterward.
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Assets AssetsConfig `yaml:"assets"`
	Chat   ChatConfig   `yaml:"chat"`
	Game   GameConfig   `yaml:"game"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host        string   `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port        string   `yaml:"port" env:"SERVER_PORT" env-default:"8002"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"http://localhost:3000,http://localhost:5173"`
	SavesDir    string   `yaml:"saves_dir" env:"SAVES_DIR" env-default:"saved_games"`
}

// Addr returns the host:port the HTTP server binds.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type AssetsConfig struct {
	APIKey            string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL           string        `yaml:"base_url" env:"OPENAI_BASE_URL"`
	ImageModel        string        `yaml:"image_model" env:"IMAGE_MODEL" env-default:"dall-e-3"`
	CacheDir          string        `yaml:"cache_dir" env:"ASSET_CACHE_DIR" env-default:"cached_assets"`
	GenerationBudget  int           `yaml:"generation_budget" env:"GENERATION_BUDGET" env-default:"5"`
	GenerationTimeout time.Duration `yaml:"generation_timeout" env:"GENERATION_TIMEOUT" env-default:"60s"`
}

// ChatConfig drives the "improve game" chat completion call. The provider is
// any OpenAI-compatible endpoint.
type ChatConfig struct {
	APIKey  string `yaml:"api_key" env:"DEEPSEEK_API_KEY"`
	BaseURL string `yaml:"base_url" env:"CHAT_BASE_URL" env-default:"https://api.deepseek.com/v1"`
	Model   string `yaml:"model" env:"CHAT_MODEL" env-default:"deepseek-chat"`
}

type GameConfig struct {
	ViewportWidth  int     `yaml:"viewport_width" env:"GAME_WIDTH" env-default:"800"`
	ViewportHeight int     `yaml:"viewport_height" env:"GAME_HEIGHT" env-default:"600"`
	FPS            int     `yaml:"fps" env:"GAME_FPS" env-default:"60"`
	Gravity        float64 `yaml:"gravity" env:"GAME_GRAVITY" env-default:"981"`
	Friction       float64 `yaml:"friction" env:"GAME_FRICTION" env-default:"0.7"`
	MoveSpeed      float64 `yaml:"move_speed" env:"GAME_MOVE_SPEED" env-default:"200"`
	JumpForce      float64 `yaml:"jump_force" env:"GAME_JUMP_FORCE" env-default:"-500"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY" env-default:"true"`
}

// Load reads path (default config.yaml) and falls back to environment-only
// configuration when the file is missing.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: load: %w", err)
		}
	}

	// Frame cadence divides by this everywhere.
	if cfg.Game.FPS <= 0 {
		cfg.Game.FPS = 60
	}
	return &cfg, nil
}
