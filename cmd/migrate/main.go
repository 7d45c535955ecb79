// Command migrate manages the clinic's Postgres schema from the embedded
// migration files.
//
// Usage:
//
//	migrate             apply all pending migrations (same as "up")
//	migrate up          apply all pending migrations
//	migrate down [n]    roll back n migrations (default 1)
//	migrate version     print the current schema version
//	migrate force <v>   mark version v without running migrations
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/brightsmile/clinic-assistant/migrations"
)

func main() {
	m, db := newMigrator()
	defer func() { _ = db.Close() }()
	defer func() { _, _ = m.Close() }()

	args := os.Args[1:]
	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migrate up: %v", err)
		}
		reportVersion(m)
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				log.Fatalf("down: step count must be a positive integer, got %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migrate down %d: %v", steps, err)
		}
		reportVersion(m)
	case "version":
		reportVersion(m)
	case "force":
		if len(args) < 2 {
			log.Fatal("force: version argument required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("force: invalid version %q", args[1])
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("force version %d: %v", v, err)
		}
		reportVersion(m)
	default:
		log.Fatalf("unknown command %q (want up, down, version or force)", cmd)
	}
}

func newMigrator() (*migrate.Migrate, *sql.DB) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "clinic_schema_migrations",
	})
	if err != nil {
		log.Fatalf("db driver: %v", err)
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatalf("source driver: %v", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", dbDriver)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	return m, db
}

func reportVersion(m *migrate.Migrate) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("schema version: none")
		return
	}
	if err != nil {
		log.Fatalf("read version: %v", err)
	}
	if dirty {
		fmt.Printf("schema version: %d (dirty, run force to repair)\n", v)
		return
	}
	fmt.Printf("schema version: %d\n", v)
}
