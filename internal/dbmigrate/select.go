package dbmigrate

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/suvamneog/foodanalyserr/internal/config"
)

const DefaultMigrationsDir = "migrations"

const pooledWarning = "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT"

var ErrNoDatabaseURL = errors.New("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")

// Target is the database a migration command runs against.
type Target struct {
	URL     string
	Source  string
	Warning string
}

// Redacted hides the password so the target can be logged.
func (t Target) Redacted() string {
	u, err := url.Parse(t.URL)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}

// SelectTarget picks the migration database: DIRECT > DATABASE_URL > POOLED (with warning).
// With requireDirect only DATABASE_URL_DIRECT is accepted, startup migrations use that.
func SelectTarget(cfg *config.Config, requireDirect bool) (Target, error) {
	var target Target
	switch {
	case requireDirect && cfg.DatabaseURLDirect == "":
		return Target{}, fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
	case cfg.DatabaseURLDirect != "":
		target = Target{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}
	case cfg.DatabaseURLRaw != "":
		target = Target{URL: cfg.DatabaseURLRaw, Source: "DATABASE_URL"}
	case cfg.DatabaseURLPooled != "":
		target = Target{URL: cfg.DatabaseURLPooled, Source: "DATABASE_URL_POOLED", Warning: pooledWarning}
	default:
		return Target{}, ErrNoDatabaseURL
	}

	u, err := url.Parse(target.URL)
	if err != nil {
		return Target{}, fmt.Errorf("%s is not a valid URL: %w", target.Source, err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Target{}, fmt.Errorf("%s must be a postgres:// URL, got scheme %q", target.Source, u.Scheme)
	}

	return target, nil
}
