// Package timer 实现游戏计时器的状态机：开始提示音、十分钟倒计时、暂停/继续、
// 结束提示音与闪烁显示。所有状态转换都在 Run 所在的 goroutine 中执行。
package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"GameTimer/internal/models"
)

const (
	CueStart = "start"
	CueEnd   = "end"
)

var (
	countdownSeconds = int(models.RoundDuration / time.Second)
	tickInterval     = time.Second
	flashInterval    = 500 * time.Millisecond
)

func log() *slog.Logger {
	return slog.With("component", "timer.Controller")
}

// SoundPlayer 播放提示音。Play 返回的通道在播放完成（或无法播放）时关闭，且只关闭一次。
type SoundPlayer interface {
	Play(cue string) <-chan struct{}
	Stop()
}

type intent int

const (
	intentStart intent = iota
	intentTogglePause
	intentReset
)

func (i intent) String() string {
	switch i {
	case intentStart:
		return "start"
	case intentTogglePause:
		return "toggle_pause"
	case intentReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Controller 拥有计时器状态、倒计时时钟、闪烁时钟和当前播放的提示音
type Controller struct {
	clock  Clock
	player SoundPlayer

	intents chan intent
	queries chan chan models.Snapshot
	done    chan struct{}

	mu        sync.Mutex
	listeners []func(models.Snapshot)
	last      models.Snapshot

	// 以下字段只在 Run 的 goroutine 中访问
	state     models.TimerState
	remaining int
	visible   bool
	countdown Ticker
	flash     Ticker
	cueDone   <-chan struct{}
}

// NewController 创建计时器控制器，需要调用 Run 之后才会处理事件
func NewController(clock Clock, player SoundPlayer) *Controller {
	c := &Controller{
		clock:     clock,
		player:    player,
		intents:   make(chan intent),
		queries:   make(chan chan models.Snapshot),
		done:      make(chan struct{}),
		state:     models.StateReady,
		remaining: countdownSeconds,
		visible:   true,
	}
	c.last = c.snapshot()
	return c
}

// OnChange 注册状态变化回调，回调在 Run 的 goroutine 中同步执行，不应阻塞
func (c *Controller) OnChange(fn func(models.Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Start 开始一局（仅在 Ready 状态有效）
func (c *Controller) Start() {
	c.send(intentStart)
}

// TogglePause 暂停或继续（仅在 Running/Paused 状态有效）
func (c *Controller) TogglePause() {
	c.send(intentTogglePause)
}

// Reset 重置计时器（仅在 Paused/Finished 状态有效）
func (c *Controller) Reset() {
	c.send(intentReset)
}

// Snapshot 返回当前显示状态。Run 启动前会阻塞，Run 退出后返回最后一次发布的状态。
func (c *Controller) Snapshot() models.Snapshot {
	reply := make(chan models.Snapshot, 1)
	select {
	case c.queries <- reply:
		return <-reply
	case <-c.done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.last
	}
}

func (c *Controller) send(in intent) {
	select {
	case c.intents <- in:
	case <-c.done:
		log().Debug("controller stopped, intent dropped", "intent", in)
	}
}

// Run 事件循环，ctx 取消时停止所有时钟与声音后返回
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.teardown()

	c.publish()
	for {
		select {
		case <-ctx.Done():
			return nil
		case in := <-c.intents:
			c.handleIntent(in)
		case reply := <-c.queries:
			reply <- c.snapshot()
		case <-tickC(c.countdown):
			c.onTick()
		case <-tickC(c.flash):
			c.onFlash()
		case <-c.cueDone:
			c.onCueDone()
		}
	}
}

func (c *Controller) handleIntent(in intent) {
	switch in {
	case intentStart:
		c.start()
	case intentTogglePause:
		c.togglePause()
	case intentReset:
		c.reset()
	}
}

func (c *Controller) start() {
	if c.state != models.StateReady {
		log().Debug("start ignored", "state", c.state)
		return
	}
	c.remaining = countdownSeconds
	c.setState(models.StateStarting)
	c.cueDone = c.player.Play(CueStart)
	c.publish()
}

func (c *Controller) onCueDone() {
	c.cueDone = nil
	if c.state != models.StateStarting {
		return
	}
	c.countdown = c.clock.NewTicker(tickInterval)
	c.setState(models.StateRunning)
	c.publish()
}

func (c *Controller) onTick() {
	if c.state != models.StateRunning {
		c.stopCountdown()
		return
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.finish()
	}
	c.publish()
}

// finish 倒计时归零：播放结束提示音，同时开始闪烁（提示音不阻塞闪烁）
func (c *Controller) finish() {
	c.stopCountdown()
	c.visible = true
	c.setState(models.StateFinished)
	c.cueDone = c.player.Play(CueEnd)
	c.flash = c.clock.NewTicker(flashInterval)
}

func (c *Controller) onFlash() {
	if c.state != models.StateFinished {
		c.stopFlash()
		return
	}
	c.visible = !c.visible
	c.publish()
}

func (c *Controller) togglePause() {
	switch c.state {
	case models.StateRunning:
		c.stopCountdown()
		c.setState(models.StatePaused)
	case models.StatePaused:
		c.countdown = c.clock.NewTicker(tickInterval)
		c.setState(models.StateRunning)
	default:
		log().Debug("toggle pause ignored", "state", c.state)
		return
	}
	c.publish()
}

func (c *Controller) reset() {
	if c.state != models.StatePaused && c.state != models.StateFinished {
		log().Debug("reset ignored", "state", c.state)
		return
	}
	c.stopCountdown()
	c.stopFlash()
	c.stopSound()
	c.remaining = countdownSeconds
	c.visible = true
	c.setState(models.StateReady)
	c.publish()
}

func (c *Controller) teardown() {
	c.stopCountdown()
	c.stopFlash()
	c.stopSound()
}

func (c *Controller) setState(s models.TimerState) {
	log().Debug("transition", "from", c.state, "to", s, "remaining", c.remaining)
	c.state = s
}

// 停止后立即丢弃 ticker，之后到达的 tick 不会再被处理
func (c *Controller) stopCountdown() {
	if c.countdown != nil {
		c.countdown.Stop()
		c.countdown = nil
	}
}

func (c *Controller) stopFlash() {
	if c.flash != nil {
		c.flash.Stop()
		c.flash = nil
	}
}

func (c *Controller) stopSound() {
	if c.cueDone != nil {
		c.player.Stop()
		c.cueDone = nil
	}
}

func (c *Controller) snapshot() models.Snapshot {
	return models.Snapshot{
		State:        c.state,
		Remaining:    c.remaining,
		TimeString:   FormatCountdown(c.remaining),
		FlashVisible: c.visible,
	}
}

func (c *Controller) publish() {
	snap := c.snapshot()
	c.mu.Lock()
	c.last = snap
	listeners := make([]func(models.Snapshot), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
