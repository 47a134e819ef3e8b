package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ideflorbio/extrativista-sheets/log"
	"github.com/ideflorbio/extrativista-sheets/store"
)

const APP = "extrativista-sheets"

const SHEETS = "https://www.googleapis.com/auth/spreadsheets"

type Options struct {
	Debug bool
}

// command holds the options common to every command that talks to the
// spreadsheet.
type command struct {
	workdir     string
	credentials string
	tokens      string
	url         string
	area        string
	backend     string
	db          string
	debug       bool
}

func defaults() command {
	return command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		url:         "",
		area:        store.DefaultRange,
		backend:     "google",
		db:          "",
		debug:       false,
	}
}

func (cmd *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files (tokens, local database, etc)")
	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the 'credentials.json' file")
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Directory for the authorisation tokens. Defaults to <workdir>/.google")
	flagset.StringVar(&cmd.url, "url", cmd.url, "Spreadsheet URL")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Worksheet range e.g. 'Página1!A1:V'")

	return flagset
}

func (cmd *command) storeFlags(flagset *flag.FlagSet) {
	flagset.StringVar(&cmd.backend, "store", cmd.backend, "Record store ('google' or 'sqlite')")
	flagset.StringVar(&cmd.db, "db", cmd.db, "SQLite database file for --store sqlite. Defaults to <workdir>/extrativista.db")
}

func (cmd *command) options(options *Options) {
	cmd.debug = options.Debug

	if cmd.debug {
		log.SetLevel(log.DebugLevel)
	}
}

func (cmd *command) tokensDir() string {
	if cmd.tokens != "" {
		return cmd.tokens
	}

	return filepath.Join(cmd.workdir, ".google")
}

// sheet validates the spreadsheet options and opens the worksheet they
// identify.
func (cmd *command) sheet(ctx context.Context) (*store.GoogleSheet, error) {
	if strings.TrimSpace(cmd.credentials) == "" {
		return nil, fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(cmd.url) == "" {
		return nil, fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(cmd.area) == "" {
		return nil, fmt.Errorf("--range is a required option")
	}

	spreadsheet, err := store.SpreadsheetID(cmd.url)
	if err != nil {
		return nil, err
	}

	debugf("Spreadsheet - ID:%s  range:%s", spreadsheet, cmd.area)

	client, err := authorize(ctx, cmd.credentials, SHEETS, cmd.tokensDir())
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return store.NewGoogleSheet(google, spreadsheet, cmd.area)
}

// worksheet opens the record store backend selected with --store. The returned
// function releases the backend.
func (cmd *command) worksheet(ctx context.Context) (store.Worksheet, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cmd.backend)) {
	case "", "google":
		sheet, err := cmd.sheet(ctx)
		if err != nil {
			return nil, nil, err
		}

		return sheet, func() {}, nil

	case "sqlite":
		db := cmd.db
		if db == "" {
			db = filepath.Join(cmd.workdir, "extrativista.db")
		}

		if err := os.MkdirAll(filepath.Dir(db), 0770); err != nil {
			return nil, nil, err
		}

		sheet, err := store.OpenSQLiteSheet(ctx, db)
		if err != nil {
			return nil, nil, err
		}

		debugf("SQLite store %v", db)

		return sheet, func() {
			if err := sheet.Close(); err != nil {
				warnf("%v", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("invalid --store '%s' - expected 'google' or 'sqlite'", cmd.backend)
	}
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		fmt.Println("  Options:")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
}

func debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

func infof(format string, args ...any) {
	log.Infof(format, args...)
}

func warnf(format string, args ...any) {
	log.Warnf(format, args...)
}
