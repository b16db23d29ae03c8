package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"GameTimer/internal/models"
)

type recordingTimer struct {
	calls []string
}

func (r *recordingTimer) Start()       { r.calls = append(r.calls, "start") }
func (r *recordingTimer) TogglePause() { r.calls = append(r.calls, "toggle") }
func (r *recordingTimer) Reset()       { r.calls = append(r.calls, "reset") }

func newTestView(t *testing.T) (*GameTimerView, *recordingTimer) {
	t.Helper()
	test.NewApp()
	timer := &recordingTimer{}
	return NewGameTimerView(timer), timer
}

func TestReadyShowsStartButton(t *testing.T) {
	v, timer := newTestView(t)

	assert.True(t, v.startButton.Visible())
	assert.False(t, v.resetButton.Visible())
	assert.False(t, v.timeText.Visible())

	test.Tap(v.startButton)
	assert.Equal(t, []string{"start"}, timer.calls)
}

func TestTapTimeTogglesPause(t *testing.T) {
	v, timer := newTestView(t)

	v.Update(models.Snapshot{State: models.StateRunning, Remaining: 590, TimeString: "09:50", FlashVisible: true})
	assert.Equal(t, "09:50", v.timeText.text.Text)
	assert.True(t, v.timeText.Visible())
	assert.False(t, v.startButton.Visible())
	test.Tap(v.timeText)

	v.Update(models.Snapshot{State: models.StatePaused, Remaining: 590, TimeString: "09:50", FlashVisible: true})
	assert.True(t, v.resetButton.Visible())
	test.Tap(v.timeText)
	test.Tap(v.resetButton)

	assert.Equal(t, []string{"toggle", "toggle", "reset"}, timer.calls)
}

func TestFinishedFlashesAndResetsOnTap(t *testing.T) {
	v, timer := newTestView(t)

	v.Update(models.Snapshot{State: models.StateFinished, TimeString: "00:00", FlashVisible: true})
	assert.Equal(t, finishedColor, v.timeText.text.Color)

	v.Update(models.Snapshot{State: models.StateFinished, TimeString: "00:00", FlashVisible: false})
	assert.Equal(t, hiddenColor, v.timeText.text.Color)
	assert.True(t, v.timeText.Visible(), "hidden time must stay tappable")

	test.Tap(v.timeText)
	assert.Equal(t, []string{"reset"}, timer.calls)
}

func TestTapIgnoredWhileStarting(t *testing.T) {
	v, timer := newTestView(t)

	v.Update(models.Snapshot{State: models.StateStarting, Remaining: 600, TimeString: "10:00", FlashVisible: true})
	test.Tap(v.timeText)
	assert.Empty(t, timer.calls)
}

func TestKeyboardShortcuts(t *testing.T) {
	v, timer := newTestView(t)

	v.handleKey(&fyne.KeyEvent{Name: fyne.KeySpace})
	v.Update(models.Snapshot{State: models.StateRunning, Remaining: 600, TimeString: "10:00", FlashVisible: true})
	v.handleKey(&fyne.KeyEvent{Name: fyne.KeySpace})
	v.handleKey(&fyne.KeyEvent{Name: fyne.KeyR})
	v.handleKey(&fyne.KeyEvent{Name: fyne.KeyQ})

	assert.Equal(t, []string{"start", "toggle", "reset"}, timer.calls)
}
