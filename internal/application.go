package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/advisor"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/config"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/repository"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/repository/storage"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/usecase"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/transport/rest"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	scoreRepo := repository.NewScoreRepository(redisStorage)

	remoteAdvisor := advisor.NewRemoteClient(
		conf.Advisor.Endpoint,
		conf.Advisor.APIKey,
		conf.Advisor.Model,
		conf.Advisor.GetTimeout(),
	)
	moveAdvisor := advisor.New(logger, remoteAdvisor, advisor.NewHeuristic(nil))

	gameManager := usecase.NewGameManager(logger, scoreRepo, moveAdvisor)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, scoreRepo)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
