package timer

import (
	"context"
	"log/slog"
	"time"

	"GameTimer/internal/models"
)

func recorderLog() *slog.Logger {
	return slog.With("component", "timer.Recorder")
}

// RoundStore 保存对局记录
type RoundStore interface {
	SaveRound(ctx context.Context, round *models.Round) error
}

// Recorder 观察控制器的状态变化，在一局结束或被重置时写入对局记录
type Recorder struct {
	store   RoundStore
	now     func() time.Time
	updates chan models.Snapshot

	// 以下字段只在 Run 的 goroutine 中访问
	active        bool
	startTime     time.Time
	lastRemaining int
}

func NewRecorder(store RoundStore) *Recorder {
	return &Recorder{
		store:   store,
		now:     func() time.Time { return time.Now().UTC() },
		updates: make(chan models.Snapshot, 64),
	}
}

// Observe 可直接注册为 Controller.OnChange 回调，不会阻塞控制器
func (r *Recorder) Observe(s models.Snapshot) {
	select {
	case r.updates <- s:
	default:
		recorderLog().Warn("recorder queue full, snapshot dropped", "state", s.State)
	}
}

func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-r.updates:
			r.handle(ctx, s)
		}
	}
}

func (r *Recorder) handle(ctx context.Context, s models.Snapshot) {
	switch s.State {
	case models.StateRunning:
		if !r.active {
			r.active = true
			r.startTime = r.now()
		}
	case models.StateFinished:
		if r.active {
			r.save(ctx, models.OutcomeFinished, 0)
		}
	case models.StateReady:
		if r.active {
			r.save(ctx, models.OutcomeReset, r.lastRemaining)
		}
	}
	r.lastRemaining = s.Remaining
}

func (r *Recorder) save(ctx context.Context, outcome models.RoundOutcome, remaining int) {
	r.active = false
	round := &models.Round{
		StartTime: r.startTime,
		EndTime:   r.now(),
		Elapsed:   int64(countdownSeconds - remaining),
		Outcome:   outcome,
	}
	if err := r.store.SaveRound(ctx, round); err != nil {
		recorderLog().Error("saving round", "outcome", outcome, "error", err)
		return
	}
	recorderLog().Info("round recorded", "outcome", outcome, "elapsed", round.Elapsed)
}
