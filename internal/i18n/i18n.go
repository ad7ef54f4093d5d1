package i18n

import "strings"

// Language 描述界面使用的语言。
// 使用简短的语言代码（如 zh、en），便于在配置中传递。
type Language string

const (
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"

	// DefaultLanguage 未配置时的默认语言。
	DefaultLanguage = LanguageEnglish
)

// Normalize 将用户输入的语言值转换为统一的语言代码。
// 空字符串回退到默认语言，未知值原样保留。
func Normalize(value string) Language {
	lang := strings.ToLower(strings.TrimSpace(value))
	switch lang {
	case "":
		return DefaultLanguage
	case "zh", "zh-cn", "zh_cn", "zh-hans", "cn", "chinese", "中文":
		return LanguageChinese
	case "en", "en-us", "en_us", "en-gb", "english":
		return LanguageEnglish
	default:
		return Language(lang)
	}
}

// Code 返回规范化后的语言代码，空值回退到默认语言。
func (l Language) Code() string {
	return string(Normalize(string(l)))
}

// DisplayName 返回适合展示的语言名称。
// 已知语言返回标准名称，未知语言则直接返回原始代码。
func (l Language) DisplayName() string {
	switch Normalize(string(l)) {
	case LanguageChinese:
		return "中文"
	case LanguageEnglish:
		return "English"
	default:
		return strings.TrimSpace(string(l))
	}
}

var catalog = map[Language]map[string]string{
	LanguageEnglish: {
		"chatlist.pinned":     "Pinned",
		"chatlist.no_results": "No results",
		"adminlog.start":      "beginning of log",
		"adminlog.loading":    "loading earlier entries…",
	},
	LanguageChinese: {
		"chatlist.pinned":     "置顶",
		"chatlist.no_results": "没有匹配的会话",
		"adminlog.start":      "已到日志开头",
		"adminlog.loading":    "正在加载更早的记录…",
	},
}

// Strings 返回该语言的界面字符串副本；未知语言返回 nil，由调用方使用内置回退文本。
func (l Language) Strings() map[string]string {
	src, ok := catalog[Normalize(string(l))]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Supported 报告该语言是否有内置字符串表。
func (l Language) Supported() bool {
	_, ok := catalog[Normalize(string(l))]
	return ok
}
