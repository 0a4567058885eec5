// Package servecmder provides the serve command for running the session
// memory service.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reveriegames/reverie/pkg/config"
	"github.com/reveriegames/reverie/pkg/dotdir"
	"github.com/reveriegames/reverie/pkg/logger"
	"github.com/reveriegames/reverie/pkg/memory/store"
	"github.com/reveriegames/reverie/pkg/memory/store/inmemory"
	"github.com/reveriegames/reverie/pkg/memory/store/postgres"
	"github.com/reveriegames/reverie/pkg/memory/store/sqlite"
	"github.com/reveriegames/reverie/service"
)

type ServeCommander struct {
	listen      string
	backend     string
	sqlitePath  string
	postgresDSN string
	debug       bool
}

// serveFlags is the flag registry for the serve command.
var serveFlags = config.FlagSet{
	config.FlagServiceListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "service.listen",
		Description: "Address for the memory service to listen on",
	},
	config.FlagStorageBackend: {
		Name:        "backend",
		ViperKey:    "storage.backend",
		Description: "Storage backend (sqlite, postgres, memory)",
	},
	config.FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to SQLite database (default: memory.sqlite in the .reverie/ directory)",
	},
	config.FlagPostgresDSN: {
		Name:        "postgres-dsn",
		ViperKey:    "storage.postgres_dsn",
		Description: "Postgres connection string (required for the postgres backend)",
	},
}

const serveLongDesc string = `Run the reverie session memory service.

The memory service stores one durable record per session and serves it
back to clients on resume. Clients save after every committed turn; the
service upserts, so repeated saves of the same session are safe.

Storage backends:
  sqlite     Single-file database in the .reverie/ directory (default)
  postgres   Shared database for multi-instance deployments
  memory     Ephemeral in-process store for local experiments

Examples:
  reverie serve
  reverie serve --listen :9090 --backend sqlite --sqlite /var/lib/reverie/memory.sqlite
  reverie serve --backend postgres --postgres-dsn postgres://reverie@localhost:5432/reverie`

const serveShortDesc string = "Run the session memory service"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, serveFlags, []string{
				config.FlagServiceListen,
				config.FlagStorageBackend,
				config.FlagSQLite,
				config.FlagPostgresDSN,
			})

			cmder.listen = v.GetString("service.listen")
			cmder.backend = v.GetString("storage.backend")
			cmder.sqlitePath = v.GetString("storage.sqlite_path")
			cmder.postgresDSN = v.GetString("storage.postgres_dsn")

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagServiceListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagStorageBackend, &cmder.backend)
	config.AddStringFlag(cmd, serveFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, serveFlags, config.FlagPostgresDSN, &cmder.postgresDSN)

	return cmd
}

func (c *ServeCommander) run() error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithJSON(true))

	storer, closer, err := c.createStorer(log)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	server := service.NewServer(service.Config{ListenAddr: c.listen}, storer, log)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("memory service error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

func (c *ServeCommander) createStorer(log *slog.Logger) (store.Remote, func(), error) {
	switch c.backend {
	case "sqlite":
		path := c.sqlitePath
		if path == "" {
			ddm := dotdir.NewManager()
			dir, err := ddm.Ensure("")
			if err != nil {
				return nil, nil, fmt.Errorf("resolving sqlite path: %w", err)
			}
			path = filepath.Join(dir, "memory.sqlite")
		}

		storer, err := sqlite.NewDriver(path)
		if err != nil {
			return nil, nil, fmt.Errorf("creating sqlite store: %w", err)
		}
		log.Info("using sqlite storage", "path", path)
		return storer, func() { _ = storer.Close() }, nil

	case "postgres":
		if c.postgresDSN == "" {
			return nil, nil, fmt.Errorf("postgres backend requires --postgres-dsn or storage.postgres_dsn")
		}

		storer, err := postgres.NewDriver(context.Background(), c.postgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("creating postgres store: %w", err)
		}
		log.Info("using postgres storage")
		return storer, func() { _ = storer.Close() }, nil

	case "memory":
		log.Info("using in-memory storage")
		return inmemory.NewRemote(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q (available: sqlite, postgres, memory)", c.backend)
	}
}
