package cli

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/wdclient/pkg/command"
	"github.com/urfave/cli/v2"
)

var commandsCommand = &cli.Command{
	Name:  "commands",
	Usage: "List the endpoint table for a browser family",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "browser",
			Aliases: []string{"b"},
			Usage:   "Browser name (chrome, msedge, firefox, safari); defaults to the configured browser",
		},
		&cli.StringFlag{
			Name:  "vendor-prefix",
			Usage: "Chromium vendor prefix (goog, ms)",
		},
	},
	Action: runCommands,
}

func runCommands(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	browser := cfg.Browser
	if b := c.String("browser"); b != "" {
		browser = b
	}
	prefix := cfg.VendorPrefix
	if p := c.String("vendor-prefix"); p != "" {
		prefix = p
	}

	registry := registryFor(browser, prefix)
	cmds := registry.Commands()
	fmt.Fprintf(c.App.Writer, "family: %s (%d commands)\n", registry.Family(), len(cmds))
	for _, cmd := range cmds {
		spec, err := registry.Resolve(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%-44s %-6s %s\n", cmd, spec.Method, spec.Path)
	}
	return nil
}

// registryFor picks the family registry for a browser name. An explicit
// vendor prefix only applies to Chromium browsers.
func registryFor(browser, vendorPrefix string) *command.Registry {
	registry := command.ForBrowser(browser)
	if vendorPrefix != "" && registry.Family() == command.FamilyChromium {
		return command.NewChromiumRegistry(strings.ToLower(vendorPrefix))
	}
	return registry
}
