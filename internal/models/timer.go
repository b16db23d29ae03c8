package models

import (
	"time"
)

// TimerState 计时器所处的状态
type TimerState int

const (
	StateReady    TimerState = iota // 空闲，倒计时已重置
	StateStarting                   // 正在播放开始提示音
	StateRunning                    // 每秒递减
	StatePaused                     // 倒计时冻结
	StateFinished                   // 倒计时归零，闪烁显示
)

func (s TimerState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// RoundDuration 一局游戏的固定时长
const RoundDuration = 10 * time.Minute

// Snapshot 计时器当前的显示状态
type Snapshot struct {
	State        TimerState
	Remaining    int    // 剩余秒数
	TimeString   string // MM:SS
	FlashVisible bool
}
