package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyKVOverrides 应用 -c key=value 形式的覆盖项，key 使用 section.field 形式。
// 未知 key 或无法解析的值会返回错误，已成功的覆盖仍然生效。
func ApplyKVOverrides(cfg Config, overrides []string) (Config, error) {
	if len(overrides) == 0 {
		return cfg, nil
	}
	var bad []string
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			bad = append(bad, raw)
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if err := applyKV(&cfg, key, val); err != nil {
			bad = append(bad, fmt.Sprintf("%s (%v)", raw, err))
		}
	}
	if len(bad) > 0 {
		return cfg, fmt.Errorf("invalid overrides: %s", strings.Join(bad, ", "))
	}
	return cfg, nil
}

func applyKV(cfg *Config, key, val string) error {
	switch key {
	case "engine.workers":
		return setInt(&cfg.Engine.Workers, val)
	case "engine.inbox_size":
		return setInt(&cfg.Engine.InboxSize, val)
	case "engine.cache_size":
		return setInt(&cfg.Engine.CacheSize, val)
	case "engine.lookahead_threshold":
		return setInt(&cfg.Engine.LookaheadThreshold, val)
	case "engine.pagination_cooldown":
		cfg.Engine.PaginationCooldown = val
	case "engine.debug":
		return setBool(&cfg.Engine.Debug, val)
	case "ui.theme":
		cfg.UI.Theme = val
	case "ui.language":
		cfg.UI.Language = val
	case "ui.show_previews":
		return setBool(&cfg.UI.ShowPreviews, val)
	case "log.path":
		cfg.Log.Path = val
	case "log.level":
		cfg.Log.Level = val
	case "adminlog.db_path":
		cfg.AdminLog.DBPath = val
	case "adminlog.page_size":
		return setInt(&cfg.AdminLog.PageSize, val)
	default:
		return fmt.Errorf("unknown key")
	}
	return nil
}

func setInt(dst *int, val string) error {
	n, err := strconv.Atoi(val)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, val string) error {
	b, err := strconv.ParseBool(val)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}
