package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// RunOptions 控制 Bubble Tea 程序的运行方式。
type RunOptions struct {
	// Inline 为 true 时不使用备用屏幕，输出保留在终端中。
	Inline bool
}

// Run 运行列表宿主直到用户退出或 ctx 取消，返回前拆除屏幕。
func Run(ctx context.Context, m *ListModel, opts RunOptions) error {
	programOptions := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if !opts.Inline {
		programOptions = append(programOptions, tea.WithAltScreen())
	}
	program := tea.NewProgram(m, programOptions...)
	_, err := program.Run()
	m.Close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
