// Command migrate manages the postgres schema of the membership backend.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/mediaassoc/backend/internal/infrastructure/logger"
	"github.com/mediaassoc/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const usage = `Usage: migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version | status      Show the applied version
  force <version>       Record a version without running it (clears a dirty schema)
  drop                  Drop all tables (requires -confirm)
  create <name> [desc]  Create the next numbered migration pair
  list                  List available migrations

Database settings come from MA_DATABASE_* variables or config.yaml.

Flags:
`

var errUsage = errors.New("invalid arguments")

// command runs with the positional arguments after its name. Commands with
// needsDB set get a Migrator; the others only touch the migrations directory.
type command struct {
	needsDB bool
	run     func(env *cmdEnv, args []string) error
}

type cmdEnv struct {
	dir      string
	confirm  bool
	log      *zap.Logger
	migrator *migration.Migrator
}

var commands = map[string]command{
	"up":      {true, func(e *cmdEnv, _ []string) error { return e.migrator.Up() }},
	"down":    {true, func(e *cmdEnv, _ []string) error { return e.migrator.Down() }},
	"step":    {true, stepCmd},
	"goto":    {true, gotoCmd},
	"version": {true, statusCmd},
	"status":  {true, statusCmd},
	"force":   {true, forceCmd},
	"drop":    {true, dropCmd},
	"create":  {false, createCmd},
	"list":    {false, listCmd},
}

func main() {
	dir := flag.String("path", "", "migrations directory (default: app.migrations_dir)")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	confirm := flag.Bool("confirm", false, "allow destructive commands (drop)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", TimeFormat: "2006-01-02 15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	if err := execute(cmd, flag.Args(), *dir, *confirm, log); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
		}
		log.Fatal("Migration command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
	}
}

func execute(cmd command, args []string, dir string, confirm bool, log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if dir == "" {
		dir = cfg.App.MigrationsDir
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return fmt.Errorf("resolve migrations path: %w", err)
	}

	env := &cmdEnv{dir: dir, confirm: confirm, log: log}
	if cmd.needsDB {
		db, err := openDB(cfg.Database.DSN())
		if err != nil {
			return err
		}
		if env.migrator, err = migration.New(db, dir, log); err != nil {
			_ = db.Close()
			return err
		}
		defer env.migrator.Close()
	}
	return cmd.run(env, args[1:])
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// intArg parses the single required numeric argument of a command
func intArg(args []string, name string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s required", errUsage, name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", errUsage, name, args[0])
	}
	return n, nil
}

func stepCmd(e *cmdEnv, args []string) error {
	n, err := intArg(args, "step count")
	if err != nil {
		return err
	}
	return e.migrator.Steps(n)
}

func gotoCmd(e *cmdEnv, args []string) error {
	v, err := intArg(args, "version")
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%w: version cannot be negative", errUsage)
	}
	return e.migrator.GoTo(uint(v))
}

func forceCmd(e *cmdEnv, args []string) error {
	v, err := intArg(args, "version")
	if err != nil {
		return err
	}
	return e.migrator.Force(v)
}

func statusCmd(e *cmdEnv, _ []string) error {
	status, err := e.migrator.Status()
	if err != nil {
		return err
	}
	e.log.Info("Schema version", zap.Uint("version", status.Version), zap.Bool("dirty", status.Dirty))
	return nil
}

func dropCmd(e *cmdEnv, _ []string) error {
	if !e.confirm {
		return fmt.Errorf("%w: drop removes every table; rerun with -confirm", errUsage)
	}
	return e.migrator.Drop()
}

func createCmd(e *cmdEnv, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: migration name required", errUsage)
	}
	var description string
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(e.dir, args[0], description)
	if err != nil {
		return err
	}
	e.log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func listCmd(e *cmdEnv, _ []string) error {
	names, err := migration.ListMigrations(e.dir)
	if err != nil {
		return err
	}
	e.log.Info("Available migrations", zap.Int("count", len(names)))
	for _, n := range names {
		fmt.Println("  -", n)
	}
	return nil
}
