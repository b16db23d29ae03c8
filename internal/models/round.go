package models

import "time"

type RoundOutcome string

const (
	OutcomeFinished RoundOutcome = "finished"
	OutcomeReset    RoundOutcome = "reset"
)

// Round 一局游戏的记录
type Round struct {
	ID        int64
	StartTime time.Time
	EndTime   time.Time
	Elapsed   int64 // 以秒为单位
	Outcome   RoundOutcome
}

type RoundStats struct {
	TotalRounds    int
	FinishedRounds int
	TotalElapsed   int64 // 以秒为单位
}
