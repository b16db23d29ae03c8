package ui

import (
	"GameTimer/internal/config"

	"fyne.io/fyne/v2"
)

type MainWindow struct {
	window fyne.Window
	view   *GameTimerView
}

func NewMainWindow(app fyne.App, cfg *config.Config, timer Timer) *MainWindow {
	w := &MainWindow{
		window: app.NewWindow(cfg.App.Name),
		view:   NewGameTimerView(timer),
	}
	w.setup(cfg)
	return w
}

func (w *MainWindow) setup(cfg *config.Config) {
	w.window.SetContent(w.view.Container())
	w.window.Canvas().SetOnTypedKey(w.view.handleKey)
	w.window.Resize(fyne.NewSize(float32(cfg.App.WindowWidth), float32(cfg.App.WindowHeight)))
}

func (w *MainWindow) View() *GameTimerView {
	return w.view
}

// SetOnClosed 窗口关闭时回调，用于停止计时器
func (w *MainWindow) SetOnClosed(fn func()) {
	w.window.SetOnClosed(fn)
}

func (w *MainWindow) Show() {
	w.window.ShowAndRun()
}
