package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/pageza/mealprepai/backend/config"
)

const ledgerSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func main() {
	rollback := flag.Bool("rollback", false, "roll back the most recent migration")
	dir := flag.String("dir", "migrations", "directory containing migration files")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.DBHost == "" {
		log.Fatal("DB_HOST is required to run migrations")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(ledgerSQL); err != nil {
		log.Fatalf("failed to ensure schema_migrations table: %v", err)
	}

	if *rollback {
		rollbackLast(db, *dir)
		return
	}
	applyAll(db, *dir)
}

// applyAll runs every pending migration in filename order, one transaction
// per file. Rollback files live alongside the forward ones and are skipped.
func applyAll(db *sql.DB, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("failed to read migrations directory: %v", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) != ".sql" || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	for _, file := range files {
		version := strings.SplitN(file, "_", 2)[0]

		var applied bool
		if err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&applied); err != nil {
			log.Fatalf("failed to check migration status: %v", err)
		}
		if applied {
			fmt.Printf("migration already applied: %s\n", file)
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			log.Fatalf("failed to read migration %s: %v", file, err)
		}

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("failed to start transaction: %v", err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			log.Fatalf("failed to apply migration %s: %v", file, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version, file); err != nil {
			_ = tx.Rollback()
			log.Fatalf("failed to record migration %s: %v", file, err)
		}
		if err := tx.Commit(); err != nil {
			log.Fatalf("failed to commit migration %s: %v", file, err)
		}

		fmt.Printf("applied migration: %s\n", file)
	}

	fmt.Println("all migrations applied")
}

// rollbackLast reverts the most recently applied migration using its
// <name>_rollback.sql counterpart.
func rollbackLast(db *sql.DB, dir string) {
	var version, name string
	err := db.QueryRow(`
		SELECT version, name
		FROM schema_migrations
		ORDER BY applied_at DESC, version DESC
		LIMIT 1
	`).Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		log.Fatal("no migrations to roll back")
	}
	if err != nil {
		log.Fatalf("failed to find last migration: %v", err)
	}

	rollbackFile := strings.TrimSuffix(name, ".sql") + "_rollback.sql"
	content, err := os.ReadFile(filepath.Join(dir, rollbackFile))
	if err != nil {
		log.Fatalf("failed to read rollback file %s: %v", rollbackFile, err)
	}

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("failed to start transaction: %v", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		log.Fatalf("failed to execute rollback %s: %v", rollbackFile, err)
	}
	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
		_ = tx.Rollback()
		log.Fatalf("failed to remove migration record: %v", err)
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("failed to commit rollback: %v", err)
	}

	fmt.Printf("rolled back migration: %s\n", name)
}
