package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config 是唯一持久化的配置文件结构。
type Config struct {
	Engine   Engine   `toml:"engine"`
	UI       UI       `toml:"ui"`
	Log      Log      `toml:"log"`
	AdminLog AdminLog `toml:"adminlog"`
	Source   string   `toml:"-"`
}

// Engine 控制列表引擎的并发、缓存与分页行为。
type Engine struct {
	Workers            int    `toml:"workers"`
	InboxSize          int    `toml:"inbox_size"`
	CacheSize          int    `toml:"cache_size"`
	LookaheadThreshold int    `toml:"lookahead_threshold"`
	PaginationCooldown string `toml:"pagination_cooldown"`
	Debug              bool   `toml:"debug"`
}

type UI struct {
	Theme        string `toml:"theme"`
	Language     string `toml:"language"`
	ShowPreviews bool   `toml:"show_previews"`
}

type Log struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type AdminLog struct {
	DBPath   string `toml:"db_path"`
	PageSize int    `toml:"page_size"`
}

func Default() Config {
	return Config{
		Engine: Engine{
			Workers:            4,
			InboxSize:          16,
			CacheSize:          512,
			LookaheadThreshold: 5,
			PaginationCooldown: "0s",
		},
		UI: UI{
			Theme:        "dark",
			Language:     "en",
			ShowPreviews: true,
		},
		Log: Log{
			Path:  "logs/chatview.log",
			Level: "info",
		},
		AdminLog: AdminLog{
			DBPath:   "~/.chatview/adminlog.sqlite",
			PageSize: 50,
		},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chatview", "config.toml")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("CHATVIEW_LOG_LEVEL")); env != "" {
		cfg.Log.Level = env
	}
	if env := strings.TrimSpace(os.Getenv("CHATVIEW_DEBUG")); env != "" {
		if v, err := strconv.ParseBool(env); err == nil {
			cfg.Engine.Debug = v
		}
	}
}

// Cooldown 解析 pagination_cooldown，空值视为 0。
func (e Engine) Cooldown() (time.Duration, error) {
	raw := strings.TrimSpace(e.PaginationCooldown)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("engine.pagination_cooldown: %w", err)
	}
	return d, nil
}

// Validate 检查引擎参数是否可用。
func (e Engine) Validate() error {
	var errs []error
	if e.Workers < 1 {
		errs = append(errs, fmt.Errorf("engine.workers must be >= 1, got %d", e.Workers))
	}
	if e.InboxSize < 1 {
		errs = append(errs, fmt.Errorf("engine.inbox_size must be >= 1, got %d", e.InboxSize))
	}
	if e.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("engine.cache_size must be >= 0, got %d", e.CacheSize))
	}
	if e.LookaheadThreshold < 0 {
		errs = append(errs, fmt.Errorf("engine.lookahead_threshold must be >= 0, got %d", e.LookaheadThreshold))
	}
	if d, err := e.Cooldown(); err != nil {
		errs = append(errs, err)
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("engine.pagination_cooldown must not be negative"))
	}
	return errors.Join(errs...)
}

// ExpandHome 将路径开头的 ~ 展开为用户主目录。
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
