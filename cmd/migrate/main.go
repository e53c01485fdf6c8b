package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/dossier/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "DOSSIER_DB_DSN"

func main() {
	var (
		dsn     = flag.String("dsn", "", "postgres:// URL; defaults to $DOSSIER_DB_DSN, then the [database] config")
		up      = flag.Bool("up", false, "apply all pending migrations")
		down    = flag.Bool("down", false, "revert all migrations")
		steps   = flag.Int("steps", 0, "apply N migrations (negative reverts)")
		version = flag.Bool("version", false, "print the current schema version")
		force   = flag.Int("force", -1, "mark version N as clean without running it")
	)
	flag.Parse()

	url, err := resolveDSN(*dsn)
	if err != nil {
		log.Fatalf("resolve dsn: %v", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		log.Fatalf("open embedded migrations: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		log.Fatalf("connect migrator: %v", err)
	}
	defer m.Close()

	if err := run(m, *up, *down, *steps, *version, *force); err != nil {
		log.Fatal(err)
	}
}

func resolveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}
	db, err := config.LoadDatabase()
	if err != nil {
		return "", err
	}
	return db.URL(), nil
}

func run(m *migrate.Migrate, up, down bool, steps int, version bool, force int) error {
	ignoreNoChange := func(err error) error {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return err
	}

	switch {
	case version:
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
	case force >= 0:
		if err := m.Force(force); err != nil {
			return fmt.Errorf("force version %d: %w", force, err)
		}
		fmt.Printf("forced to version %d\n", force)
	case up:
		if err := ignoreNoChange(m.Up()); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		fmt.Println("schema up to date")
	case down:
		if err := ignoreNoChange(m.Down()); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		fmt.Println("schema reverted")
	case steps != 0:
		if err := ignoreNoChange(m.Steps(steps)); err != nil {
			return fmt.Errorf("migrate %d steps: %w", steps, err)
		}
		fmt.Printf("applied %d steps\n", steps)
	default:
		fmt.Fprintln(os.Stderr, "usage: migrate [-dsn url] -up | -down | -steps N | -version | -force N")
		flag.PrintDefaults()
	}
	return nil
}
