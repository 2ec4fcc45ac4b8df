package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/maheshrc27/bizhub-api/migrations"
)

// Options is the root command. The database URI defaults to POSTGRES_URI.
type Options struct {
	DatabaseURI string     `short:"d" long:"database" env:"POSTGRES_URI" description:"postgres connection URI"`
	Up          UpCmd      `command:"up" description:"Apply pending migrations"`
	Down        DownCmd    `command:"down" description:"Roll back migrations"`
	Version     VersionCmd `command:"version" description:"Print the current schema version"`
}

var opts Options

type UpCmd struct {
	Steps int `short:"n" long:"steps" description:"apply at most n migrations (0 applies all)"`
}

func (c *UpCmd) Execute(args []string) error {
	return withMigrator(func(m *migrate.Migrate) error {
		if c.Steps > 0 {
			return m.Steps(c.Steps)
		}
		return m.Up()
	})
}

type DownCmd struct {
	Steps int  `short:"n" long:"steps" default:"1" description:"roll back n migrations"`
	All   bool `long:"all" description:"roll back every migration"`
}

func (c *DownCmd) Execute(args []string) error {
	return withMigrator(func(m *migrate.Migrate) error {
		if c.All {
			return m.Down()
		}
		return m.Steps(-c.Steps)
	})
}

type VersionCmd struct{}

func (c *VersionCmd) Execute(args []string) error {
	return withMigrator(func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	})
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	uri := opts.DatabaseURI
	if uri == "" {
		return errors.New("no database URI: set POSTGRES_URI or pass --database")
	}

	db, err := sql.Open("postgres", uri)
	if err != nil {
		return err
	}

	m, err := migrations.New(db)
	if err != nil {
		db.Close()
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
