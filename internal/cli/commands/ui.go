package commands

import (
	"net"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dashkit/internal/ui"
	"github.com/leapstack-labs/dashkit/internal/ui/features/common"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Serve the dashboards in the browser",
		Long: `Start a local web server with the health and sales dashboards.

The UI provides:
- Health dashboard with search and an age range filter
- Sales dashboard with region, product, units and search filters
- Revenue by date line chart
- Live reload when a data file changes

Selections are remembered in a signed cookie. Set DASHKIT_SESSION_SECRET to
keep them valid across restarts.`,
		Example: `  # Start UI on default port
  dashkit ui

  # Start on custom port
  dashkit ui --port 3000

  # Start without auto-opening browser
  dashkit ui --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8501)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload dashboards when data files change")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cc.Cfg

	// CLI flags override config file
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := cfg.UI.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := cfg.UI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	server := ui.NewServer(ui.Config{
		Cache: cc.NewCache(),
		Paths: common.Paths{
			Health: cfg.Data.Processed,
			Sales:  cfg.Data.Sales,
		},
		HealthOptions: cfg.HealthOptions(),
		SalesOptions:  cfg.SalesOptions(),
		Host:          cfg.UI.Host,
		Port:          port,
		Watch:         watch,
		SessionSecret: cfg.UI.SessionSecret,
		Logger:        cc.Logger,
	})

	url := "http://" + net.JoinHostPort(cfg.UI.Host, strconv.Itoa(port))
	if autoOpen {
		go openBrowser(url)
	}

	r := cc.Renderer
	r.Printf("Starting UI server on %s\n", url)
	r.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
