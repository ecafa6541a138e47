package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar         = "PORT"
	appNameVar         = "APP_NAME"
	sessionStoreEnvVar = "SESSION_STORE"
	redisAddrEnvVar    = "REDIS_ADDR"
	redisPassEnvVar    = "REDIS_PASSWORD"
)

// Session store backends selectable via SESSION_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "3001")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "ExoBot Backend")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetSessionStore selects the backing store for sessions and guild settings.
func (EnvVars) GetSessionStore() string {
	return GetEnv(sessionStoreEnvVar, StoreMemory)
}

func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrEnvVar, "localhost:6379")
}

func (EnvVars) GetRedisPassword() string {
	return GetEnv(redisPassEnvVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
