package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/whensmy/whensmy/pkg/api"
	"github.com/whensmy/whensmy/pkg/bot"
	"github.com/whensmy/whensmy/pkg/dataimporter"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("WHENSMY_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("WHENSMY_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "whensmy",
		Description: "Single binary of truth for When's My Transport - runs all the services",

		Commands: []*cli.Command{
			bot.RegisterCLI(),
			api.RegisterCLI(),
			dataimporter.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
