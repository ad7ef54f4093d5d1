// Package logger 封装 logrus：全局文件日志、按组件命名的入口和统一的纯文本格式。
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogEntry/Fields 暴露底层类型，调用方无需直接依赖 logrus。
type LogEntry = logrus.Entry
type Fields = logrus.Fields

// DefaultLogPath 默认日志文件路径。
const DefaultLogPath = "logs/chatview.log"

// prefixKeys 以方括号前缀输出，不再出现在尾部字段里。顺序即输出顺序。
var prefixKeys = []string{"component", "screen", "type", "seq"}

var std = logrus.StandardLogger()

// Configure 设置全局日志格式与 caller 输出。
func Configure() {
	std.SetReportCaller(true)
	std.SetFormatter(PlainFormatter{})
}

// Level 返回全局日志级别。
func Level() logrus.Level {
	return std.GetLevel()
}

// SetLevel 按名称设置全局日志级别（debug/info/warn/error）；空值忽略，无法识别时返回错误。
func SetLevel(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", name, err)
	}
	std.SetLevel(level)
	return nil
}

// SetupFile 把全局日志写到 logPath（空值用 DefaultLogPath），返回文件 closer 与实际路径。
func SetupFile(logPath string) (io.Closer, string, error) {
	f, resolved, err := openLogFile(logPath)
	if err != nil {
		return nil, "", err
	}
	std.SetOutput(f)
	return f, resolved, nil
}

// SetupComponentFile 为单个组件创建写入独立文件的入口，级别跟随全局设置。
func SetupComponentFile(component, logPath string) (*LogEntry, io.Closer, string, error) {
	f, resolved, err := openLogFile(logPath)
	if err != nil {
		return nil, nil, "", err
	}
	l := logrus.New()
	l.SetReportCaller(true)
	l.SetFormatter(PlainFormatter{})
	l.SetOutput(f)
	l.SetLevel(std.GetLevel())
	return withComponent(logrus.NewEntry(l), component), f, resolved, nil
}

// Named 返回带 component 字段的全局入口。
func Named(component string) *LogEntry {
	return withComponent(logrus.NewEntry(std), component)
}

// Discard 返回丢弃所有输出的入口，测试中用来静音组件。
func Discard() *LogEntry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Warnf 输出格式化 Warn 日志。
func Warnf(format string, args ...any) {
	std.Warnf(format, args...)
}

// Fatalf 输出格式化 Fatal 日志并退出。
func Fatalf(format string, args ...any) {
	std.Fatalf(format, args...)
}

func withComponent(entry *LogEntry, component string) *LogEntry {
	if component == "" {
		return entry
	}
	return entry.WithField("component", component)
}

// PlainFormatter 输出 `caller [time] [LEVEL] [component] [screen=..] [type=..] [seq=..] message k=v...`，
// 尾部字段按键排序。
type PlainFormatter struct{}

func (PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry == nil {
		return nil, nil
	}
	var b strings.Builder
	if caller := formatCaller(entry); caller != "" {
		b.WriteString(caller)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%s] [%s]", entry.Time.UTC().Format(time.RFC3339Nano), strings.ToUpper(entry.Level.String()))
	for _, key := range prefixKeys {
		val, ok := entry.Data[key]
		if !ok || fmt.Sprint(val) == "" {
			continue
		}
		if key == "component" {
			fmt.Fprintf(&b, " [%v]", val)
		} else {
			fmt.Fprintf(&b, " [%s=%v]", key, val)
		}
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	if rest := formatFields(entry.Data); rest != "" {
		b.WriteByte(' ')
		b.WriteString(rest)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func formatCaller(entry *logrus.Entry) string {
	if entry.HasCaller() && entry.Caller != nil {
		return fmt.Sprintf("%s:%d", shortenFilePath(entry.Caller.File), entry.Caller.Line)
	}
	if caller, ok := entry.Data["caller"].(string); ok {
		return caller
	}
	return ""
}

func formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "caller" || isPrefixKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(parts, " ")
}

func isPrefixKey(k string) bool {
	for _, p := range prefixKeys {
		if p == k {
			return true
		}
	}
	return false
}

// shortenFilePath 把绝对路径裁到模块内的相对路径。
func shortenFilePath(file string) string {
	file = filepath.ToSlash(file)
	for _, marker := range []string{"/internal/", "/cmd/"} {
		if idx := strings.LastIndex(file, marker); idx != -1 {
			return file[idx+1:]
		}
	}
	if idx := strings.LastIndex(file, "/chatview/"); idx != -1 {
		return file[idx+len("/chatview/"):]
	}
	return filepath.Base(file)
}

func openLogFile(logPath string) (*os.File, string, error) {
	if logPath == "" {
		logPath = DefaultLogPath
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", err
	}
	return f, logPath, nil
}
