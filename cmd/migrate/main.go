package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"

	"github.com/suvamneog/foodanalyserr/internal/config"
	"github.com/suvamneog/foodanalyserr/internal/dbmigrate"
)

const usage = "usage: migrate [-dir path] [-require-direct] up|status|down|list"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

type options struct {
	command       string
	dir           string
	requireDirect bool
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.dir, "dir", dbmigrate.DefaultMigrationsDir, "migrations directory; embedded SQL is used when it does not exist")
	fs.BoolVar(&opts.requireDirect, "require-direct", false, "refuse to run unless DATABASE_URL_DIRECT is set")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		return options{}, errors.New(usage)
	}

	opts.command = fs.Arg(0)
	switch opts.command {
	case "up", "status", "down", "list":
	default:
		return options{}, fmt.Errorf("unsupported command %q (allowed: up, status, down, list)", opts.command)
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) int {
	opts, err := parseArgs(args, os.Stderr)
	if err != nil {
		log.Error(err)
		return 2
	}

	// list не требует базы
	if opts.command == "list" {
		files, err := dbmigrate.EmbeddedMigrations()
		if err != nil {
			log.Error(err)
			return 1
		}
		for _, f := range files {
			fmt.Fprintln(stdout, f)
		}
		return 0
	}

	cfg := config.Load()
	cfg.ApplyLogLevel()

	target, err := dbmigrate.SelectTarget(cfg, opts.requireDirect)
	if err != nil {
		log.Error(err)
		return 1
	}
	if target.Warning != "" {
		log.Warnf("migrate: %s", target.Warning)
	}
	log.WithFields(log.Fields{
		"command": opts.command,
		"source":  target.Source,
		"target":  target.Redacted(),
		"dir":     opts.dir,
	}).Info("migrate: starting")

	if err := dbmigrate.Run(opts.command, target.URL, opts.dir); err != nil {
		log.Error(err)
		return 1
	}

	log.Infof("migrate: %s completed successfully", opts.command)
	return 0
}
