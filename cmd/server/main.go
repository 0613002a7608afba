package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/minaorangina/davinci/config"
	"github.com/minaorangina/davinci/server"
	"github.com/minaorangina/davinci/store"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		logrus.Fatal(err)
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "TCP port for players")
	flag.IntVar(&cfg.Players, "players", cfg.Players, "players per table")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "address for the websocket and /games endpoints, empty to disable")
	flag.StringVar(&cfg.Codec, "codec", cfg.Codec, "wire format for TCP players: text or json")
	flag.Parse()

	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		logrus.Fatal(err)
	}

	s, err := server.NewServer(cfg, store.NewInMemoryGameStore(), log)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.ListenAndServe(ctx); err != nil {
		log.Fatal(err)
	}
	log.Info("server stopped")
}
