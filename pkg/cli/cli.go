// Package cli provides the command-line interface for wdclient.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/devicelab-dev/wdclient/pkg/config"
	"github.com/devicelab-dev/wdclient/pkg/logger"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Config file (default: wdclient.yaml in the working directory)",
	},
	&cli.StringFlag{
		Name:  "log",
		Usage: "Write the client log to this file",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log to stderr",
	},
}

// Execute runs the CLI.
func Execute() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "wdclient",
		Usage:   "WebDriver wire protocol client",
		Version: Version,
		Description: `wdclient talks to WebDriver remote ends (chromedriver, geckodriver,
safaridriver, Selenium Grid) over the W3C or legacy JSON wire protocol.

Examples:
  wdclient status http://localhost:4444 http://localhost:9515
  wdclient commands --browser firefox
  wdclient run https://example.com --screenshot page.png`,
		Flags:  GlobalFlags,
		Writer: out,
		Commands: []*cli.Command{
			statusCommand,
			commandsCommand,
			runCommand,
		},
		After: func(*cli.Context) error {
			logger.Close()
			return nil
		},
	}
}

// loadConfig reads the config file, the .env overlay and WDCLIENT_* overrides,
// then sets up logging.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if err := config.LoadEnvFile("."); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()
	if path := c.String("log"); path != "" {
		cfg.LogPath = path
	}

	switch {
	case cfg.LogPath != "":
		if err := logger.Init(cfg.LogPath); err != nil {
			return nil, err
		}
	case c.Bool("verbose"):
		logger.InitWriter(os.Stderr)
	}
	return cfg, nil
}
