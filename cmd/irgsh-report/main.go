package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	app     *cli.App
	logger  = zap.NewNop()
	version string
	flavor  = "dev"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	app = cli.NewApp()
	app.Name = "irgsh-report"
	app.Usage = "Send bug reports to the irgsh report endpoint"
	app.Author = "BlankOn Developer"
	app.Email = "blankon-dev@googlegroups.com"
	app.Version = version

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Before = func(c *cli.Context) (err error) {
		logger, err = newLogger(c.Bool("verbose"))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	}
	app.After = func(c *cli.Context) error {
		logger.Sync()
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:  "submit",
			Usage: "Submit a bug report",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "title",
					Usage: "Report title (prompted when empty)",
				},
				cli.StringFlag{
					Name:  "description",
					Usage: "Report description (prompted when empty)",
				},
				cli.StringFlag{
					Name:  "logs-file",
					Usage: "Attach the tail of this log file",
				},
				cli.IntFlag{
					Name:  "log-lines",
					Usage: "Number of log lines to attach",
				},
				cli.StringFlag{
					Name:  "endpoint",
					Usage: "Report endpoint, overrides the configuration",
				},
				cli.BoolFlag{
					Name:  "no-input",
					Usage: "Never prompt, fail when title or description is missing",
				},
			},
			Action: func(c *cli.Context) error {
				cfg, err := loadClientConfig(c.String("endpoint"))
				if err != nil {
					return err
				}

				opts := submitOptions{
					Title:       c.String("title"),
					Description: c.String("description"),
					LogsFile:    c.String("logs-file"),
					LogLines:    c.Int("log-lines"),
					Interactive: !c.Bool("no-input"),
				}
				return runSubmit(context.Background(), cfg, opts, os.Stdout)
			},
		},
		{
			Name:  "history",
			Usage: "Show recently submitted reports",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "limit",
					Value: 10,
					Usage: "Number of submissions to show",
				},
			},
			Action: func(c *cli.Context) error {
				cfg, err := loadClientConfig("")
				if err != nil {
					return err
				}
				return runHistory(cfg, c.Int("limit"), os.Stdout)
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
