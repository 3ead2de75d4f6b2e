package dbmigrate

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/suvamneog/foodanalyserr/migrations"
)

// Run executes a goose command. When migrationsDir exists on disk it is used
// as is, otherwise the SQL files embedded into the binary are applied.
func Run(command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsDir
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	dir := configureSource(migrationsDir)
	goose.SetLogger(log.StandardLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Run(command, db, dir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}

// configureSource points goose either at the disk directory or at the
// embedded FS and returns the directory to pass to goose.
func configureSource(migrationsDir string) string {
	if info, err := os.Stat(migrationsDir); err == nil && info.IsDir() {
		goose.SetBaseFS(nil)
		return migrationsDir
	}

	goose.SetBaseFS(migrations.FS)
	return "."
}

// EmbeddedMigrations lists the SQL files carried by the binary.
func EmbeddedMigrations() ([]string, error) {
	return fs.Glob(migrations.FS, "*.sql")
}
