package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"campo-listings/pkg/apiclient"

	"github.com/urfave/cli/v2"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in to the admin area and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Admin email",
				EnvVars:  []string{"CAMPO_EMAIL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "Admin password (read from stdin when omitted)",
				EnvVars: []string{"CAMPO_PASSWORD"},
			},
		},
		Action: login,
	}
}

func login(c *cli.Context) error {
	app := getApp(c)
	app.Navigator.Visit(app.Config.Session.LoginPath)

	password := c.String("password")
	if password == "" {
		line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
		if err != nil && line == "" {
			return usageError("password is required")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	resp, err := app.Auth.Login(c.Context, c.String("email"), password)
	if apiclient.IsUnauthorized(err) {
		return &exitError{msg: "Invalid email or password.", code: 1}
	}
	if err != nil {
		return fail(err)
	}
	app.Navigator.Visit("/admin")
	fmt.Fprintf(app.out, "Logged in as %s\n", resp.User.Email)
	return nil
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored session token",
		Action: func(c *cli.Context) error {
			app := getApp(c)
			app.Auth.Logout(c.Context)
			fmt.Fprintln(app.out, "Logged out")
			return nil
		},
	}
}

type whoami struct {
	UserID    string    `json:"user_id" yaml:"user_id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Role      string    `json:"role,omitempty" yaml:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool      `json:"expired" yaml:"expired"`
	Verified  bool      `json:"verified" yaml:"verified"`
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed-in admin",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Ask the server instead of only decoding the stored token",
			},
		},
		Action: whoamiAction,
	}
}

func whoamiAction(c *cli.Context) error {
	app := getApp(c)
	claims, err := app.Auth.Session(c.Context)
	if err != nil {
		return fail(err)
	}

	info := whoami{
		UserID:  claims.UserID,
		Name:    claims.Name,
		Email:   claims.Email,
		Role:    claims.Role,
		Expired: claims.Expired(time.Now()),
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}

	if c.Bool("verify") {
		user, err := app.Auth.Me(c.Context)
		if err != nil {
			return fail(err)
		}
		info.UserID, info.Name, info.Email, info.Role = user.ID, user.Name, user.Email, user.Role
		info.Verified = true
	}
	return app.printer.Print(info)
}

func dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show the admin dashboard counters",
		Action: func(c *cli.Context) error {
			app := getApp(c)
			app.Navigator.Visit("/admin")
			stats, err := app.Dashboard.Stats(c.Context)
			if err != nil {
				return fail(err)
			}
			return app.printer.Print(stats)
		},
	}
}
