package constants

import "time"

const (
	RequestTimeout  = 10 * time.Second
	DatabaseTimeout = 5 * time.Second
	WebhookTimeout  = 5 * time.Second
	RedisTimeout    = 3 * time.Second
)

const (
	DBMaxOpenConns = 1
	DBMaxIdleConns = 1
)

// MaxRequestBytes caps a decoded rpc request body.
const MaxRequestBytes = 1 << 20

const (
	DefaultMatchListLimit = 20
	MaxMatchListLimit     = 200
)

const (
	ShutdownTimeout = 5 * time.Second
)
