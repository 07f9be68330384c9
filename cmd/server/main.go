// cmd/server/main.go
package main

import (
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/wizard-cards/wizard-service/internal/auth"
	"github.com/wizard-cards/wizard-service/internal/cache"
	"github.com/wizard-cards/wizard-service/internal/database"
	"github.com/wizard-cards/wizard-service/internal/handlers"
	"github.com/wizard-cards/wizard-service/internal/middleware"
)

func main() {
	logger := logrus.New()
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := auth.Init(); err != nil {
		logger.Fatalf("init auth: %v", err)
	}

	// Postgres and Redis are optional collaborators: without them the
	// service still runs games, it just skips accounts, results and the
	// action history.
	if os.Getenv("PG_HOST") != "" {
		if err := database.ConnectDB(); err != nil {
			logger.Fatalf("connect database: %v", err)
		}
		logger.Info("database connected")
	} else {
		logger.Warn("PG_HOST not set, running without persistence")
	}
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, action history disabled: %v", err)
		cache.Rdb = nil
	}

	srv := handlers.NewGameServer(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.PingHandler)
	mux.HandleFunc("/deck", handlers.DeckHandler)

	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)

	mux.Handle("/game/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("wizard service listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
