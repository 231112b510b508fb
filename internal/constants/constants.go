package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	SaveDelay       = 2 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// Queue pops fire after a simulated 5-15 second wait.
	QueueWaitMin = 5 * time.Second
	QueueWaitMax = 15 * time.Second
	// AllJoinedDelay is the pause between a queue pop and the countdown.
	AllJoinedDelay = 2 * time.Second
)

const (
	MatchHistoryLimit = 25
)
