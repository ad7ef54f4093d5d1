package main

import (
	"context"

	"chatview/internal/config"
	"chatview/internal/events"
	"chatview/internal/i18n"
	"chatview/internal/listview"
	"chatview/internal/logger"
	"chatview/internal/tui"
)

// newEventBus 创建写入独立日志文件的事件总线，返回的 cleanup 关闭总线与日志文件。
func newEventBus() (*events.Bus, func()) {
	bus := events.NewBus(64)
	entry, closer := events.NewComponentLogger("events", events.DefaultBusLogPath)
	bus.SetLogger(entry)
	return bus, func() {
		bus.Close()
		if closer != nil {
			_ = closer.Close()
		}
	}
}

// attachEvents 让屏幕回调经由总线广播，并让宿主订阅提交摘要。
func attachEvents(ctx context.Context, opts *tui.ListOptions, bus *events.Bus, screen string) {
	opts.Observer = events.NewNotifier(ctx, bus, screen)
	opts.Events = bus.Subscribe()
}

// baseListOptions 汇总两个屏幕共用的宿主参数。
func baseListOptions(name, title string, cfg config.Config) (tui.ListOptions, error) {
	screenOpts, err := listview.OptionsFromConfig(name, cfg.Engine)
	if err != nil {
		return tui.ListOptions{}, err
	}
	screenOpts.Logger = logger.Named("listview")
	lang := i18n.Normalize(cfg.UI.Language)
	if !lang.Supported() {
		logger.Named("tui").Warnf("no strings for language %q, using built-in labels", lang.Code())
	}
	return tui.ListOptions{
		Title:        title,
		Theme:        listview.ThemeByName(cfg.UI.Theme),
		Strings:      lang.Strings(),
		ShowPreviews: cfg.UI.ShowPreviews,
		Screen:       screenOpts,
		Logger:       logger.Named("tui").WithField("screen", name),
	}, nil
}
