package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	ucli "github.com/urfave/cli/v2"

	"github.com/dmitrijs2005/histkeeper/internal/client/lockfile"
	"github.com/dmitrijs2005/histkeeper/internal/client/remote"
)

func (a *App) syncCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "sync",
		Usage: "synchronize local history with the relay server",
		Flags: []ucli.Flag{
			&ucli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "reset the checkpoint and re-sync everything"},
		},
		Action: func(c *ucli.Context) error {
			return a.runSync(c.Context, c.Bool("force"))
		},
	}
}

// newSyncBackoff is a test seam so retry tests do not sleep for real.
var newSyncBackoff = func() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewExponential(time.Second))
}

// retrySync reruns the whole sync run on transient transport failures only.
// Crypto, protocol and store errors abort immediately: retrying cannot fix a
// wrong key or a disagreeing server.
func retrySync(ctx context.Context, run func(context.Context) error) error {
	return retry.Do(ctx, newSyncBackoff(), func(ctx context.Context) error {
		err := run(ctx)
		if errors.Is(err, remote.ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// runSync holds the lock for the whole run and retries transient transport
// failures. The engine itself is one-shot: retry/backoff lives here, at the
// calling layer, so its failure semantics stay composable.
func (a *App) runSync(ctx context.Context, force bool) error {
	release, err := lockfile.Acquire(a.config.LockPath)
	if err != nil {
		return err
	}
	defer release()

	svc, err := a.syncService(ctx)
	if err != nil {
		return err
	}

	return retrySync(ctx, func(ctx context.Context) error {
		return svc.Sync(ctx, force)
	})
}

func (a *App) statusCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "status",
		Usage: "show local and remote history counts",
		Action: func(c *ucli.Context) error {
			ctx := c.Context
			w := c.App.Writer

			count, err := a.repos.History.Count(ctx)
			if err != nil {
				return err
			}
			synced, err := a.repos.History.CountSynced(ctx)
			if err != nil {
				return err
			}
			checkpoint, err := a.repos.Metadata.GetCheckpoint(ctx)
			if err != nil {
				return err
			}
			newest, err := a.repos.History.MaxTimestamp(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "host:        %s\n", a.config.Hostname)
			fmt.Fprintf(w, "local:       %d records (%d synced)\n", count, synced)
			if !newest.IsZero() {
				fmt.Fprintf(w, "newest:      %s\n", newest.Format(time.RFC3339))
			}
			fmt.Fprintf(w, "checkpoint:  %s\n", checkpoint.Format(time.RFC3339))

			if err := a.authedSession(ctx); err == nil {
				remoteCount, err := a.remote.Count(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "remote:      %d records\n", remoteCount)
			} else {
				fmt.Fprintln(w, "remote:      not logged in")
			}

			return nil
		},
	}
}
