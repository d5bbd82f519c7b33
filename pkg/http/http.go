package http

import "time"

// Http holds the HTTP server configuration.
type Http struct {
	Host            string
	Port            int
	ContextPath     string
	PProf           bool
	ExposeMetrics   bool
	AccessLog       bool
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	Auth            Auth
}

// Auth holds the token signing configuration.
type Auth struct {
	SecretKey      string
	AccessExpire   time.Duration // minutes
	RefreshExpire  time.Duration // minutes
	RedisKeyPrefix string
}
