package cli

import (
	"fmt"

	"github.com/devicelab-dev/wdclient/pkg/config"
	"github.com/devicelab-dev/wdclient/pkg/logger"
	"github.com/devicelab-dev/wdclient/pkg/service"
	"github.com/devicelab-dev/wdclient/pkg/webdriver"
	"github.com/urfave/cli/v2"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Open a page in a new session and print its title",
	ArgsUsage: "<url>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "browser",
			Aliases: []string{"b"},
			Usage:   "Browser name; overrides the configured browser",
		},
		&cli.StringFlag{
			Name:  "server-url",
			Usage: "Remote end URL; overrides the configured serverUrl",
		},
		&cli.StringFlag{
			Name:  "screenshot",
			Usage: "Save a PNG screenshot of the page to this file",
		},
	},
	Action: runRun,
}

func runRun(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("run takes exactly one URL")
	}
	target := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if b := c.String("browser"); b != "" {
		cfg.Browser = b
	}
	if u := c.String("server-url"); u != "" {
		cfg.ServerURL = u
	}

	opts, err := sessionOptions(cfg)
	if err != nil {
		return err
	}

	ctx := c.Context
	s, err := webdriver.Start(ctx, opts)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer func() {
		if err := s.Quit(ctx); err != nil {
			logger.Warn("quit session %s: %v", s.ID(), err)
		}
	}()

	out := c.App.Writer
	dialect := "legacy"
	if s.W3C() {
		dialect = "w3c"
	}
	fmt.Fprintf(out, "session: %s (%s)\n", s.ID(), dialect)

	if err := s.Get(ctx, target); err != nil {
		return err
	}
	title, err := s.Title(ctx)
	if err != nil {
		return err
	}
	current, err := s.CurrentURL(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "title: %s\nurl: %s\n", title, current)

	if path := c.String("screenshot"); path != "" {
		if err := s.SaveScreenshot(ctx, path); err != nil {
			return fmt.Errorf("screenshot: %w", err)
		}
		fmt.Fprintf(out, "screenshot: %s\n", path)
	}
	return nil
}

// sessionOptions translates the config into session options. A configured
// driver path wins over serverUrl.
func sessionOptions(cfg *config.Config) (webdriver.Options, error) {
	caps := make(map[string]interface{}, len(cfg.Capabilities)+1)
	for k, v := range cfg.Capabilities {
		caps[k] = v
	}
	if _, ok := caps["browserName"]; !ok && cfg.Browser != "" {
		caps["browserName"] = cfg.Browser
	}

	browser := cfg.Browser
	if name, ok := caps["browserName"].(string); ok && browser == "" {
		browser = name
	}

	opts := webdriver.Options{
		ServerURL:      cfg.ServerURL,
		Browser:        browser,
		Registry:       registryFor(browser, cfg.VendorPrefix),
		Capabilities:   caps,
		KeepAlive:      cfg.KeepAlive,
		Timeout:        cfg.Timeouts.Command,
		ConnectTimeout: cfg.Timeouts.Connect,
	}

	if cfg.Driver.Path != "" {
		opts.Service = service.New(service.Options{
			Path:    cfg.Driver.DriverPath(),
			Port:    cfg.Driver.Port,
			Args:    cfg.Driver.Args,
			Env:     cfg.Driver.DriverEnv(),
			LogPath: cfg.Driver.LogPath,
		})
		return opts, nil
	}
	if opts.ServerURL == "" {
		return opts, fmt.Errorf("set serverUrl or driver.path")
	}
	return opts, nil
}
