// Package features 定义可通过 --enable/--disable 切换的功能开关，每个开关对应一个配置项。
package features

import "fmt"

// Stage 描述功能开关所处的生命周期阶段。
type Stage string

const (
	StageStable       Stage = "stable"
	StageBeta         Stage = "beta"
	StageExperimental Stage = "experimental"
)

// Spec 描述一个功能开关。
type Spec struct {
	Key            string
	Stage          Stage
	DefaultEnabled bool
	// ConfigKey 是开关映射到的 section.field 配置项。
	ConfigKey string
}

var Specs = []Spec{
	{Key: "previews", Stage: StageStable, DefaultEnabled: true, ConfigKey: "ui.show_previews"},
	{Key: "debug_checks", Stage: StageExperimental, DefaultEnabled: false, ConfigKey: "engine.debug"},
}

var known = func() map[string]Spec {
	m := make(map[string]Spec, len(Specs))
	for _, spec := range Specs {
		m[spec.Key] = spec
	}
	return m
}()

// IsKnown reports whether the feature key is recognized.
func IsKnown(key string) bool {
	_, ok := known[key]
	return ok
}

// StageFor returns the lifecycle stage for a feature, defaulting to experimental.
func StageFor(key string) Stage {
	if spec, ok := known[key]; ok {
		return spec.Stage
	}
	return StageExperimental
}

// DefaultEnabled reports the default value for the given feature key.
func DefaultEnabled(key string) bool {
	if spec, ok := known[key]; ok {
		return spec.DefaultEnabled
	}
	return false
}

// Overrides 把启用/禁用列表转换为 key=value 覆盖项，禁用在启用之后应用。
func Overrides(enable, disable []string) ([]string, error) {
	var out []string
	for _, group := range []struct {
		keys  []string
		value bool
	}{{enable, true}, {disable, false}} {
		for _, key := range group.keys {
			spec, ok := known[key]
			if !ok {
				return nil, fmt.Errorf("unknown feature flag: %s", key)
			}
			out = append(out, fmt.Sprintf("%s=%t", spec.ConfigKey, group.value))
		}
	}
	return out, nil
}
