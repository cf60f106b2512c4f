// Package main plays one Swoq game against a game server.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	botcmd "github.com/louisbranch/swoq.bot/internal/cmd/bot"
	entrypoint "github.com/louisbranch/swoq.bot/internal/platform/cmd"
	"github.com/louisbranch/swoq.bot/internal/platform/config"
)

func main() {
	cfg, err := botcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceBot))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := botcmd.Run(ctx, cfg); err != nil {
		if errors.Is(err, botcmd.ErrGameLost) {
			stop()
			config.ExitCodef(config.ExitGameLost, "%v", err)
		}
		log.Fatalf("play: %v", err)
	}
}
