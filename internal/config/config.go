package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Sound   SoundConfig   `yaml:"sound"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

type AppConfig struct {
	Name         string `yaml:"name" env:"GAME_TIMER_NAME"`
	WindowWidth  int    `yaml:"window_width" env:"GAME_TIMER_WINDOW_WIDTH"`
	WindowHeight int    `yaml:"window_height" env:"GAME_TIMER_WINDOW_HEIGHT"`
}

type SoundConfig struct {
	Enabled bool `yaml:"enabled" env:"GAME_TIMER_SOUND"`
	// 以 2 为底的音量，0 为原始音量，-10 及以下为静音
	Volume   float64 `yaml:"volume" env:"GAME_TIMER_VOLUME"`
	AssetDir string  `yaml:"asset_dir" env:"GAME_TIMER_ASSET_DIR"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" env:"GAME_TIMER_HISTORY"`
	Path    string `yaml:"path" env:"GAME_TIMER_HISTORY_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"GAME_TIMER_LOG_LEVEL"`
}

// 默认配置
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:         "Game Timer",
			WindowWidth:  480,
			WindowHeight: 360,
		},
		Sound: SoundConfig{
			Enabled: true,
			Volume:  0,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "history.db",
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// Validate 检查配置是否合法
func (c *Config) Validate() error {
	if c.App.WindowWidth <= 0 || c.App.WindowHeight <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.App.WindowWidth, c.App.WindowHeight)
	}
	if c.Sound.Volume < -10 || c.Sound.Volume > 2 {
		return fmt.Errorf("sound volume %v out of range [-10, 2]", c.Sound.Volume)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("unknown log level %q, choices are [DEBUG, INFO, WARN, ERROR]", c.Log.Level)
	}
	return nil
}

// SlogLevel 返回日志级别，Validate 通过后不会出错
func (c *Config) SlogLevel() slog.Level {
	lvl := slog.LevelInfo
	_ = lvl.UnmarshalText([]byte(c.Log.Level))
	return lvl
}

type Manager struct {
	config     *Config
	configPath string
}

// NewManager 加载配置：默认值 < 配置文件 < 环境变量。
// configPath 为空时使用 ~/.game-timer/config.yaml；文件不存在时使用默认配置。
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		configDir, err := getConfigDir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(configDir, "config.yaml")
	}

	manager := &Manager{
		config:     DefaultConfig(),
		configPath: configPath,
	}

	if err := manager.loadConfig(); err != nil {
		return nil, err
	}
	if err := env.Parse(manager.config); err != nil {
		return nil, fmt.Errorf("reading configuration from environment: %w", err)
	}
	if err := manager.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", configPath, err)
	}

	// 相对路径以配置文件所在目录为基准
	if p := manager.config.History.Path; p != "" && !filepath.IsAbs(p) {
		manager.config.History.Path = filepath.Join(filepath.Dir(configPath), p)
	}

	return manager, nil
}

func (m *Manager) loadConfig() error {
	data, err := os.ReadFile(m.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, m.config); err != nil {
		return fmt.Errorf("parsing config file %s: %w", m.configPath, err)
	}
	return nil
}

func (m *Manager) GetConfig() *Config {
	return m.config
}

func (m *Manager) Path() string {
	return m.configPath
}

// 获取配置文件目录
func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".game-timer"), nil
}
