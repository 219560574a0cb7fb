package dataimporter

import (
	"github.com/urfave/cli/v2"
	"github.com/whensmy/whensmy/pkg/database"
)

func RegisterCLI() *cli.Command {
	fileFlag := &cli.StringFlag{
		Name:     "file",
		Usage:    "path of the file to import",
		Required: true,
	}

	return &cli.Command{
		Name:  "data-importer",
		Usage: "Load stop, station and route datasets into the gazetteer",
		Subcommands: []*cli.Command{
			{
				Name:  "bus-stops",
				Usage: "Import a CSV of bus stops keyed by route, run and sequence",
				Flags: []cli.Flag{fileFlag},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					return ImportBusStops(c.String("file"))
				},
			},
			{
				Name:  "stations",
				Usage: "Import a CSV of rail and DLR stations",
				Flags: []cli.Flag{fileFlag},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					return ImportStations(c.String("file"))
				},
			},
			{
				Name:  "line-routes",
				Usage: "Import a YAML file of line branches as ordered station sequences",
				Flags: []cli.Flag{fileFlag},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					return ImportLineRoutes(c.String("file"))
				},
			},
		},
	}
}
