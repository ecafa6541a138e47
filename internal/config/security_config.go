package config

import "time"

type SecurityConfig interface {
	GetSessionSecret() string
	GetSessionTTL() time.Duration
	GetSessionCookieName() string
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "")
}

// GetSessionTTL is fixed from session creation; there is no sliding renewal.
func (Security) GetSessionTTL() time.Duration {
	return 24 * time.Hour
}

func (Security) GetSessionCookieName() string {
	return GetEnv("SESSION_COOKIE_NAME", "exobot.sid")
}
