package cli

import (
	"fmt"

	"github.com/devicelab-dev/wdclient/pkg/config"
	"github.com/devicelab-dev/wdclient/pkg/transport"
	"github.com/devicelab-dev/wdclient/pkg/webdriver"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var statusCommand = &cli.Command{
	Name:      "status",
	Usage:     "Check whether remote ends are ready for new sessions",
	ArgsUsage: "[url...]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "Maximum concurrent status requests",
			Value: 4,
		},
	},
	Action: runStatus,
}

type serverStatus struct {
	url     string
	ready   bool
	message string
	err     error
}

func (s serverStatus) String() string {
	switch {
	case s.err != nil:
		return fmt.Sprintf("%s: error: %v", s.url, s.err)
	case !s.ready:
		return fmt.Sprintf("%s: not ready (%s)", s.url, s.message)
	case s.message != "":
		return fmt.Sprintf("%s: ready (%s)", s.url, s.message)
	default:
		return fmt.Sprintf("%s: ready", s.url)
	}
}

func runStatus(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	urls := c.Args().Slice()
	if len(urls) == 0 && cfg.ServerURL != "" {
		urls = []string{cfg.ServerURL}
	}
	if len(urls) == 0 {
		return fmt.Errorf("no server URL given and serverUrl not configured")
	}

	results := checkStatus(c, cfg, urls)

	failed := 0
	for _, r := range results {
		fmt.Fprintln(c.App.Writer, r)
		if r.err != nil || !r.ready {
			failed++
		}
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d servers not ready", failed, len(results)), 1)
	}
	return nil
}

// checkStatus queries every URL over one shared pool. Failures are recorded
// per server and never cancel the others.
func checkStatus(c *cli.Context, cfg *config.Config, urls []string) []serverStatus {
	client := transport.New(transport.Options{
		KeepAlive:      cfg.KeepAlive,
		Timeout:        cfg.Timeouts.Command,
		ConnectTimeout: cfg.Timeouts.Connect,
	})
	defer client.Close()

	results := make([]serverStatus, len(urls))
	g, ctx := errgroup.WithContext(c.Context)
	if n := c.Int("parallel"); n > 0 {
		g.SetLimit(n)
	}
	for i, url := range urls {
		g.Go(func() error {
			s := webdriver.New(webdriver.Options{ServerURL: url, Client: client})
			defer s.Quit(ctx)

			results[i] = serverStatus{url: url}
			value, err := s.Status(ctx)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].ready = true
			if ready, ok := value["ready"].(bool); ok {
				results[i].ready = ready
			}
			results[i].message, _ = value["message"].(string)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
