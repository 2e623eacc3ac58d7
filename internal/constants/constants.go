package constants

import "time"

const (
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	SharedStoreTimeout = 10 * time.Second
)

const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	PlayerSearchLimit = 10
)
