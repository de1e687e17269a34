package main

import (
	"fmt"
	"io"
	"strings"

	apperrors "campo-listings/internal/errors"
	"campo-listings/pkg/config"
	"campo-listings/pkg/logger"

	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

const appKey = "app"

// exitError carries the process exit code for main.
type exitError struct {
	msg  string
	code int
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func newCLI(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "campo",
		Usage:     "Manage rural property listings from the command line",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Writer:    out,
		ErrWriter: errOut,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			propertiesCommand(),
			contactCommand(),
			listingCommand(),
			dashboardCommand(),
			importCommand(),
		},
		Before: func(c *cli.Context) error {
			return setup(c, out, errOut)
		},
		After: func(c *cli.Context) error {
			if app, ok := c.App.Metadata[appKey].(*App); ok {
				app.cleanup()
			}
			return nil
		},
		// main reports errors; urfave must not exit the process itself
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML config file",
			EnvVars: []string{"CAMPO_CONFIG"},
			Value:   "configs/config.yaml",
		},
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "Listings API base URL (overrides CAMPO_API_URL)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: json, yaml",
			Value:   FormatJSON,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "Keep a separate session per profile, e.g. staging",
			EnvVars: []string{"CAMPO_PROFILE"},
		},
	}
}

func setup(c *cli.Context, out, errOut io.Writer) error {
	cfg, err := config.LoadConfig(c.String("config"), func(cfg *config.Config) {
		if v := c.String("api-url"); v != "" {
			cfg.API.BaseURL = v
		}
		if v := c.String("log-level"); v != "" {
			cfg.Log.Level = v
		}
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitLogger(errOut, cfg.Log.Level)
	logger.GlobalLogger.SetLevel(cfg.Log.Level)

	app, err := NewApp(cfg, c.String("profile"), out, errOut, c.String("output"))
	if err != nil {
		return err
	}
	c.App.Metadata[appKey] = app
	return nil
}

func getApp(c *cli.Context) *App {
	return c.App.Metadata[appKey].(*App)
}

// fail turns err into the message shown to the user. Cancelled commands
// exit quietly with 130.
func fail(err error) error {
	appErr := apperrors.MapError(err)
	if appErr == nil {
		return &exitError{msg: "canceled", code: 130}
	}
	logger.GlobalLogger.Debugf("Command failed: code=%s, error=%s", appErr.Code, appErr.TechnicalMessage)

	var b strings.Builder
	b.WriteString(appErr.UserMessage)
	for _, f := range appErr.Fields {
		b.WriteString("\n  - ")
		b.WriteString(f.Message)
	}
	code := 1
	if appErr.Code == apperrors.ErrCodeSessionExpired {
		code = 3
	}
	return &exitError{msg: b.String(), code: code}
}

func usageError(format string, args ...any) error {
	return &exitError{msg: fmt.Sprintf(format, args...), code: 2}
}
