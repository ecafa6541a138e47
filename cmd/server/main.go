package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/exositeweb/exobot-backend/auth"
	"github.com/exositeweb/exobot-backend/auth/flowstate"
	"github.com/exositeweb/exobot-backend/auth/sessions"
	"github.com/exositeweb/exobot-backend/discord"
	"github.com/exositeweb/exobot-backend/internal/config"
	"github.com/exositeweb/exobot-backend/server"
	"github.com/exositeweb/exobot-backend/settings"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c := config.New()
	configureLogging(c)
	displayAppname(c.GetAppName())

	sessionRepo, settingsRepo, err := newStores(c)
	if err != nil {
		return fmt.Errorf("creating stores: %w", err)
	}

	discordClient := discord.New(c)
	authService, err := auth.NewAuthorizationService(
		auth.Repos{Sessions: sessionRepo, FlowState: flowstate.NewInMemoryRepo()},
		discordClient,
		c,
	)
	if err != nil {
		return fmt.Errorf("creating auth service: %w", err)
	}

	gateway, err := server.New(c, authService, sessionRepo, settingsRepo)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: gateway}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// newStores selects the session and settings backends. Sessions and settings
// share the backend choice: both in memory by default, both in Redis when
// SESSION_STORE=redis.
func newStores(c config.Config) (sessions.Repo, settings.Repo, error) {
	if c.GetSessionStore() != config.StoreRedis {
		return sessions.NewInMemoryRepo(c.GetSessionTTL()), settings.NewInMemoryRepo(), nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.GetRedisAddr(),
		Password: c.GetRedisPassword(),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	sessionRepo, err := sessions.NewRedis(&sessions.Config{
		RedisClient: redisClient,
		TTL:         c.GetSessionTTL(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session repository: %w", err)
	}

	settingsRepo, err := settings.NewRedis(&settings.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create settings repository: %w", err)
	}

	return sessionRepo, settingsRepo, nil
}

func configureLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
