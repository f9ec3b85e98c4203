// Command blogctl manages blog data out of band: groups, users and demo content.
//
//	blogctl group create --title T [--slug S] [--description D]
//	blogctl group delete --slug S
//	blogctl user create --username U --password P [--first-name F] [--last-name L]
//	blogctl seed --posts N --author U
//
// The store is selected with the same DB_DRIVER, DB_PATH and DATABASE_URL
// variables the server reads.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/caarlos0/env/v11"

	"github.com/mmynk/inkwell/internal/storage/backend"
	"github.com/mmynk/inkwell/pkg/logging"
)

var errUsage = errors.New("usage: blogctl <group create|group delete|user create|seed> [flags]")

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	var opts backend.Options
	if err := env.Parse(&opts); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("Command failed", "error", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, opts backend.Options, args []string, out io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}

	var cmd func(context.Context, *cli, []string) error
	switch {
	case args[0] == "seed":
		cmd, args = seed, args[1:]
	case len(args) >= 2 && args[0] == "group" && args[1] == "create":
		cmd, args = createGroup, args[2:]
	case len(args) >= 2 && args[0] == "group" && args[1] == "delete":
		cmd, args = deleteGroup, args[2:]
	case len(args) >= 2 && args[0] == "user" && args[1] == "create":
		cmd, args = createUser, args[2:]
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	store, err := backend.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Debug("Storage opened", "driver", opts.Driver, "database", backend.Describe(opts))

	return cmd(ctx, &cli{store: store, out: out, logger: logger}, args)
}
