package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/minaorangina/davinci/client"
	"github.com/minaorangina/davinci/config"
	"github.com/minaorangina/davinci/protocol"
	"github.com/pterm/pterm"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		pterm.Fatal.Println(err)
	}

	flag.StringVar(&cfg.Name, "name", cfg.Name, "your name at the table")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "server address")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.StringVar(&cfg.Codec, "codec", cfg.Codec, "wire format: text or json")
	flag.Parse()

	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your name").Show()
		pterm.Println()
	}
	if err := cfg.Validate(); err != nil {
		pterm.Fatal.Println(err)
	}

	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		pterm.Fatal.Println(err)
	}
	codec, err := protocol.NewCodec(cfg.Codec)
	if err != nil {
		pterm.Fatal.Println(err)
	}

	c := client.New(client.Opts{
		Name:    cfg.Name,
		Codec:   codec,
		Display: &display{name: strings.TrimSpace(cfg.Name)},
		Input:   os.Stdin,
		Logger:  log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	addr := net.JoinHostPort(cfg.Addr, strconv.Itoa(cfg.Port))
	pterm.Info.Printfln("Connecting to %s as %s", addr, pterm.LightCyan(cfg.Name))

	outcome, err := c.Dial(ctx, addr)
	switch {
	case errors.Is(err, context.Canceled):
		pterm.Info.Println("Left the game.")
	case err != nil:
		pterm.Error.Println(err)
		os.Exit(1)
	case outcome.Won:
		pterm.Success.Println("You won!")
	default:
		pterm.Info.Println("Better luck next time.")
	}
}
