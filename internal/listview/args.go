package listview

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Theme 是构造可视项时使用的样式集合。Name 参与缓存键。
type Theme struct {
	Name      string
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Accent    lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Selected  lipgloss.Style
}

// DarkTheme 深色终端的默认主题。
func DarkTheme() Theme {
	return Theme{
		Name:      "dark",
		Primary:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("236")),
	}
}

// LightTheme 浅色终端主题。
func LightTheme() Theme {
	return Theme{
		Name:      "light",
		Primary:   lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Bold(true),
		Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("254")),
	}
}

// ThemeByName 按名称选择主题，未知名称回退到 dark。
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Interaction 描述与内容无关的交互开关。
type Interaction struct {
	ShowPreviews bool
	Selectable   bool
}

// Args 是构造可视项所需的展示参数，每个快照携带一份。
type Args struct {
	Width       int
	Theme       Theme
	Strings     map[string]string
	Interaction Interaction
}

// Key 返回展示参数的指纹；指纹变化意味着所有可视项需要重建。
func (a Args) Key() string {
	previews := "p0"
	if a.Interaction.ShowPreviews {
		previews = "p1"
	}
	return strconv.Itoa(a.Width) + "|" + a.Theme.Name + "|" + previews
}

// String 返回本地化字符串，缺失时使用 fallback。
func (a Args) String(key, fallback string) string {
	if v, ok := a.Strings[key]; ok && v != "" {
		return v
	}
	return fallback
}
