package main

import (
	"log"
	"os"

	"github.com/bitmark-inc/logger"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/ownpicture/marketplace/config"
)

var (
	configFile string
)

func main() {
	app := cli.NewApp()
	app.Name = "marketplace"
	app.Usage = "to simulate the marketplace flow against the ledger"
	app.Action = func(c *cli.Context) error {
		conf, err := config.Load(configFile)
		if err != nil {
			return err
		}

		if err := logger.Initialise(logger.Configuration{
			Directory: conf.Logger.Directory,
			File:      conf.Logger.File,
			Size:      conf.Logger.Size,
			Count:     conf.Logger.Count,
			Console:   conf.Logger.Console,
			Levels:    conf.Logger.Levels,
		}); err != nil {
			return err
		}
		defer logger.Finalise()

		s, err := newSimulator(conf)
		if err != nil {
			return err
		}
		defer s.Close()
		return s.Simulate()
	}

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config, c",
			Value:       "",
			Usage:       "configuration file",
			Destination: &configFile,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
