package cli

import (
	"encoding/base64"
	"fmt"

	ucli "github.com/urfave/cli/v2"

	"github.com/dmitrijs2005/histkeeper/internal/common"
)

func (a *App) registerCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "register",
		Usage:     "create an account on the relay server",
		ArgsUsage: "<username>",
		Action: func(c *ucli.Context) error {
			username := c.Args().First()
			if username == "" {
				return fmt.Errorf("username is required")
			}

			password, err := GetPassword(c.App.Writer)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			if err := a.auth.Register(c.Context, username, password); err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, "Registered. Key file written to", a.config.KeyPath)
			return nil
		},
	}
}

func (a *App) loginCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "login",
		Usage:     "log in to the relay server (re-derives the encryption key)",
		ArgsUsage: "<username>",
		Action: func(c *ucli.Context) error {
			username := c.Args().First()
			if username == "" {
				return fmt.Errorf("username is required")
			}

			password, err := GetPassword(c.App.Writer)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			if err := a.auth.Login(c.Context, username, password); err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, "Logged in. Run 'histkeeper sync --force' to fetch history.")
			return nil
		},
	}
}

func (a *App) logoutCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "logout",
		Usage: "drop the local session token",
		Action: func(c *ucli.Context) error {
			return a.auth.Logout(c.Context)
		},
	}
}

func (a *App) keyCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "key",
		Usage: "print the base64 encryption key (for backup)",
		Action: func(c *ucli.Context) error {
			key, err := a.auth.Key()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}
}
