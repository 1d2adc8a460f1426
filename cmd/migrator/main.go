package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

const (
	dsnFlag        = "dsn"
	migrationsFlag = "migrations-path"
)

func main() {
	dsn, migrationsPath := parseFlags()
	applyMigrations(dsn, migrationsPath)
}

func parseFlags() (dsn, migrations string) {
	dsnArg := pflag.StringP(dsnFlag, "d", "", "postgres connection string")
	migrationsArg := pflag.StringP(
		migrationsFlag, "m", "migrations", "path to migration files",
	)
	pflag.Parse()

	var errs []error
	if *dsnArg == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", dsnFlag))
	}
	if *migrationsArg == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationsFlag))
	}
	if len(errs) != 0 {
		slog.Error("too few args", "err", errors.Join(errs...))
		fallDown()
	}

	return *dsnArg, *migrationsArg
}

type migrateLogger struct {
	logger *slog.Logger
}

func (ml migrateLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml migrateLogger) Verbose() bool { return true }

func applyMigrations(dsn, migrationsPath string) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		fmt.Sprintf("pgx5://%s", dsn),
	)
	if err != nil {
		slog.Error("failed to init migrations", "err", err)
		fallDown()
	}

	m.Log = migrateLogger{slog.Default()}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to apply migrations", "err", err)
		fallDown()
	}
	m.Log.Printf("migrations applied")
}

func fallDown() {
	os.Exit(2)
}
