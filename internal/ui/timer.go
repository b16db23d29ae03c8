package ui

import (
	"GameTimer/internal/models"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Timer 界面可以触发的操作
type Timer interface {
	Start()
	TogglePause()
	Reset()
}

// 定义颜色常量
var (
	timeColor     = color.NRGBA{R: 25, G: 25, B: 25, A: 255}   // 时间文本
	pausedColor   = color.NRGBA{R: 128, G: 128, B: 128, A: 255} // 暂停时的时间文本
	finishedColor = color.NRGBA{R: 220, G: 40, B: 40, A: 255}   // 结束时的时间文本
	hiddenColor   = color.NRGBA{}                               // 闪烁隐藏，保持可点击
	textColor     = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
)

const timeTextSize = 120

// tappableText 可点击的时间显示
type tappableText struct {
	widget.BaseWidget
	text     *canvas.Text
	onTapped func()
}

func newTappableText(text string, onTapped func()) *tappableText {
	t := &tappableText{
		text:     canvas.NewText(text, timeColor),
		onTapped: onTapped,
	}
	t.text.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	t.text.TextSize = timeTextSize
	t.text.Alignment = fyne.TextAlignCenter
	t.ExtendBaseWidget(t)
	return t
}

func (t *tappableText) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.text)
}

func (t *tappableText) Tapped(*fyne.PointEvent) {
	if t.onTapped != nil {
		t.onTapped()
	}
}

// GameTimerView 游戏计时器界面，只根据快照渲染，不持有计时逻辑
type GameTimerView struct {
	timer Timer

	container   *fyne.Container
	timeText    *tappableText
	statusLabel *canvas.Text
	startButton *widget.Button
	resetButton *widget.Button

	mu    sync.Mutex
	state models.TimerState
}

func NewGameTimerView(timer Timer) *GameTimerView {
	v := &GameTimerView{timer: timer}

	v.timeText = newTappableText("10:00", v.onTimeTapped)

	v.statusLabel = canvas.NewText("", textColor)
	v.statusLabel.TextStyle = fyne.TextStyle{Bold: true}
	v.statusLabel.TextSize = 20
	v.statusLabel.Alignment = fyne.TextAlignCenter

	v.startButton = widget.NewButtonWithIcon("START", theme.MediaPlayIcon(), timer.Start)
	v.startButton.Importance = widget.HighImportance

	v.resetButton = widget.NewButtonWithIcon("RESET", theme.MediaReplayIcon(), timer.Reset)
	v.resetButton.Importance = widget.MediumImportance

	v.container = container.NewCenter(container.NewVBox(
		container.NewPadded(v.statusLabel),
		v.timeText,
		container.NewCenter(container.NewHBox(v.startButton, v.resetButton)),
	))

	v.Update(models.Snapshot{
		State:        models.StateReady,
		Remaining:    int(models.RoundDuration.Seconds()),
		TimeString:   "10:00",
		FlashVisible: true,
	})
	return v
}

func (v *GameTimerView) Container() *fyne.Container {
	return v.container
}

// Update 根据快照刷新界面，可注册为 Controller.OnChange 回调
func (v *GameTimerView) Update(s models.Snapshot) {
	v.mu.Lock()
	v.state = s.State
	v.mu.Unlock()

	v.timeText.text.Text = s.TimeString
	v.timeText.text.Color = timeColor
	v.startButton.Hide()
	v.resetButton.Hide()
	v.timeText.Show()

	switch s.State {
	case models.StateReady:
		v.statusLabel.Text = ""
		v.timeText.Hide()
		v.startButton.Show()
	case models.StateStarting:
		v.statusLabel.Text = "Get ready"
	case models.StateRunning:
		v.statusLabel.Text = "Tap the time to pause"
	case models.StatePaused:
		v.statusLabel.Text = "Paused"
		v.timeText.text.Color = pausedColor
		v.resetButton.Show()
	case models.StateFinished:
		v.statusLabel.Text = "Time's up! Tap to reset"
		v.timeText.text.Color = finishedColor
		if !s.FlashVisible {
			v.timeText.text.Color = hiddenColor
		}
	}

	v.statusLabel.Refresh()
	v.timeText.text.Refresh()
}

func (v *GameTimerView) currentState() models.TimerState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *GameTimerView) onTimeTapped() {
	switch v.currentState() {
	case models.StateRunning, models.StatePaused:
		v.timer.TogglePause()
	case models.StateFinished:
		v.timer.Reset()
	}
}

// 键盘快捷键：空格开始/暂停，R 重置
func (v *GameTimerView) handleKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeySpace:
		if v.currentState() == models.StateReady {
			v.timer.Start()
			return
		}
		v.timer.TogglePause()
	case fyne.KeyR:
		v.timer.Reset()
	}
}
