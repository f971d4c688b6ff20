package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	ucli "github.com/urfave/cli/v2"

	"github.com/dmitrijs2005/histkeeper/internal/client/models"
)

func (a *App) historyCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "history",
		Usage: "record and inspect local shell history",
		Subcommands: []*ucli.Command{
			a.historyAddCommand(),
			a.historyListCommand(),
		},
	}
}

// historyAddCommand is the capture entry point shell hooks call on every
// executed command.
func (a *App) historyAddCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "add",
		Usage:     "record an executed command",
		ArgsUsage: "<command...>",
		Flags: []ucli.Flag{
			&ucli.Int64Flag{Name: "exit", Aliases: []string{"e"}, Usage: "exit code of the command"},
			&ucli.DurationFlag{Name: "duration", Aliases: []string{"d"}, Usage: "how long the command ran"},
			&ucli.StringFlag{Name: "cwd", Usage: "working directory (default: current)"},
			&ucli.StringFlag{Name: "session", Usage: "shell session id", EnvVars: []string{"HISTKEEPER_SESSION"}},
		},
		Action: func(c *ucli.Context) error {
			command := strings.Join(c.Args().Slice(), " ")
			if command == "" {
				return fmt.Errorf("command is required")
			}

			cwd := c.String("cwd")
			if cwd == "" {
				cwd, _ = os.Getwd()
			}

			rec := models.NewHistoryRecord(
				a.config.Hostname, command, cwd,
				c.Int64("exit"), c.Duration("duration"), c.String("session"),
			)

			if _, err := a.repos.History.InsertIfAbsent(c.Context, rec); err != nil {
				return err
			}
			return nil
		},
	}
}

func (a *App) historyListCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "list",
		Usage: "show recent history, newest first",
		Flags: []ucli.Flag{
			&ucli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "maximum records to show"},
		},
		Action: func(c *ucli.Context) error {
			records, err := a.repos.History.List(c.Context, c.Int("limit"))
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n",
					r.Timestamp.Local().Format(time.DateTime), r.Hostname, r.Command)
			}
			return nil
		},
	}
}
