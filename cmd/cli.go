package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/quokkaq/quokkaq/internal/config"
	"github.com/quokkaq/quokkaq/internal/logging"
	"github.com/quokkaq/quokkaq/internal/popover"
	"github.com/quokkaq/quokkaq/internal/term"
	"github.com/quokkaq/quokkaq/internal/ui"
	"github.com/quokkaq/quokkaq/internal/ui/accessibility"
	"github.com/quokkaq/quokkaq/internal/ui/model"
)

const appName = "quokkaq"

// Version is set at build time.
var Version = "dev"

// Execute runs the command line with os.Args.
func Execute() error {
	return NewApp(os.Stdout).Run(os.Args)
}

// NewApp builds the command line. Output that is not the TUI goes to out.
func NewApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      appName,
		Version:   Version,
		Usage:     "QuokkaQ course Q&A with a keyboard-accessible account menu",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to quokkaq.yaml (default: search configs/, ~/.quokkaq, /etc/quokkaq)",
				EnvVars: []string{"QUOKKAQ_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Log at debug level to " + logging.DebugFile + " unless log.file is set",
			},
			&cli.BoolFlag{
				Name:  "reset-tab",
				Usage: "Always open the account menu on its first tab",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Panic on tab invariant violations instead of clamping",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print a static summary instead of starting the TUI",
			},
		},
		Action: runApp,
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Print the effective configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "accessibility",
						Usage: "Also print detected accessibility settings",
					},
				},
				Action: runConfig,
			},
		},
	}
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.Bool("reset-tab") {
		cfg.Popover.Reopen = popover.ReopenResetFirst.String()
	}
	if c.Bool("strict") {
		cfg.Popover.Strict = true
	}
	return cfg, nil
}

func newAccessibility(cfg *config.Config, info term.Info) *accessibility.Manager {
	return accessibility.NewManager(accessibility.Options{
		ScreenReader:  cfg.Accessibility.ScreenReader,
		HighContrast:  cfg.Theme.HighContrast,
		NoColor:       cfg.Accessibility.NoColor,
		Announcements: cfg.Accessibility.Announcements,
	}, info, os.Getenv)
}

func runApp(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Setup(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		Debug: c.Bool("debug"),
	})
	if err != nil {
		return err
	}
	defer closer.Close()
	if src := cfg.Source(); src != "" {
		logger.Debug("configuration loaded", "file", src)
	}

	info := term.Detect(os.Stdout, os.Getenv)
	m, err := model.NewAppModel(cfg, newAccessibility(cfg, info), logger)
	if err != nil {
		return err
	}
	defer m.Close()
	runner := ui.NewRunner(m, logging.Component(logger, "runner"))

	if c.Bool("plain") || !term.ShouldUseTUI(info, os.Getenv) {
		return runner.RunPlain(c.App.Writer)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runner.Run(ctx)
}

func runConfig(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	w := c.App.Writer
	if src := cfg.Source(); src != "" {
		fmt.Fprintf(w, "# loaded from %s\n", src)
	} else {
		fmt.Fprintln(w, "# defaults (no quokkaq.yaml found)")
	}
	if err := cfg.Dump(w); err != nil {
		return err
	}
	if c.Bool("accessibility") {
		am := newAccessibility(cfg, term.Detect(os.Stdout, os.Getenv))
		fmt.Fprint(w, "\n"+am.Report())
	}
	return nil
}

// run is used by tests to execute with a cancellable context.
func run(ctx context.Context, app *cli.App, args ...string) error {
	return app.RunContext(ctx, append([]string{appName}, args...))
}
