package events

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"chatview/internal/logger"
)

// DefaultBusLogPath 默认的总线日志文件路径。
const DefaultBusLogPath = "logs/bus.log"

// log 复用全局 logger，标记事件组件。
var log = logger.Named("events")

// NewComponentLogger 为组件创建独立文件日志；path 为空或打开失败时退回全局 logger。
func NewComponentLogger(component, path string) (*logger.LogEntry, io.Closer) {
	if path == "" {
		return logger.Named(component), nil
	}
	entry, closer, _, err := logger.SetupComponentFile(component, path)
	if err != nil {
		log.Warnf("failed to set up %s log file (%s): %v", component, path, err)
		return logger.Named(component), nil
	}
	return entry, closer
}

// encodePayload 将载荷编码为便于阅读的日志字段：字符串原样输出（若为 JSON 则美化），其余编码为缩进 JSON。
func encodePayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return prettyJSONString(v)
	case fmt.Stringer:
		return v.String()
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", payload)
	}
	return string(data)
}

func prettyJSONString(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return s
	}
	candidate := trimmed
	if !json.Valid([]byte(candidate)) {
		candidate = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\"`, `"`).Replace(candidate)
		if !json.Valid([]byte(candidate)) {
			return s
		}
	}
	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return s
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s
	}
	return string(data)
}
