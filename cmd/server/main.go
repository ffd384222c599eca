// cmd/server/main.go
package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/duelyard/duelyard/internal/auth"
	"github.com/duelyard/duelyard/internal/cache"
	"github.com/duelyard/duelyard/internal/config"
	"github.com/duelyard/duelyard/internal/database"
	"github.com/duelyard/duelyard/internal/game"
	"github.com/duelyard/duelyard/internal/handlers"
	"github.com/duelyard/duelyard/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	if err := auth.Init(cfg.JWTSecret); err != nil {
		log.Fatalf("auth init error: %v", err)
	}
	database.ConnectDB(cfg.DatabaseURL)

	feed, err := cache.NewFeed(cfg.RedisAddr, logger)
	if err != nil {
		logger.Warnf("match-event feed disabled: %v", err)
	}

	store := handlers.NewSessionStore(logger)
	loader := game.NewDeckLoader(game.DeckSourceFunc(database.GetDeckWithCards))
	hub := game.NewHub(loader, store, feed, logger)

	logged := middleware.LogMiddleware(logger)

	mux := http.NewServeMux()

	// user endpoints
	mux.Handle("POST /user/create", logged(http.HandlerFunc(handlers.CreateUserHandler)))
	mux.Handle("POST /user/login", logged(http.HandlerFunc(handlers.LoginHandler)))

	// card catalog
	mux.Handle("GET /cards", logged(http.HandlerFunc(handlers.ListCardsHandler)))

	// deck endpoints
	mux.Handle("POST /decks", logged(middleware.RequireAuth(http.HandlerFunc(handlers.CreateDeckHandler))))
	mux.Handle("GET /decks", logged(middleware.RequireAuth(http.HandlerFunc(handlers.ListDecksHandler))))
	mux.Handle("GET /decks/{id}", logged(middleware.RequireAuth(http.HandlerFunc(handlers.GetDeckHandler))))
	mux.Handle("DELETE /decks/{id}", logged(middleware.RequireAuth(http.HandlerFunc(handlers.DeleteDeckHandler))))

	// duel websocket
	mux.Handle("/duel/ws", handlers.DuelWSHandler(logger, hub, store))

	if cfg.IsTest() {
		logger.Info("test mode, network listener suppressed")
		return
	}

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	}

	l, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	logger.Infof("listening on %s", l.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}

	database.DB.Close()
	if err := feed.Close(); err != nil {
		logger.Warnf("error closing feed: %v", err)
	}
}
