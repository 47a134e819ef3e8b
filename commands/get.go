package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ideflorbio/extrativista-sheets/records"
	"github.com/ideflorbio/extrativista-sheets/store"
)

var GetCmd = Get{
	command: defaults(),
	file:    "dados_flota.csv",
}

type Get struct {
	command
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves the registration records from the worksheet and stores them to a local CSV or TSV file"
}

func (cmd *Get) Usage() string {
	return "--credentials <file> --url <url> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads the registration records to a CSV file (or TSV if the file name ends in .tsv)")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    extrativista-sheets --debug get --credentials "credentials.json" \`)
	fmt.Println(`                                    --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                    --range "Página1!A1:V" \`)
	fmt.Println(`                                    --file "dados_flota.csv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	cmd.storeFlags(flagset)
	flagset.StringVar(&cmd.file, "file", cmd.file, "CSV or TSV file name. Defaults to 'dados_flota.csv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.options(options)

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	ctx := context.Background()
	sheet, closer, err := cmd.worksheet(ctx)
	if err != nil {
		return err
	}
	defer closer()

	result := store.New(sheet, store.Rewrite).Fetch(ctx)
	if result.Status == store.ReadFailed {
		return result.Err
	}

	if result.Status == store.Empty {
		warnf("no records in worksheet")
	}

	if err := export(cmd.file, result.Records); err != nil {
		return fmt.Errorf("error creating %v (%w)", cmd.file, err)
	}

	infof("Retrieved %v records to file %s", result.Len(), cmd.file)

	return nil
}

// export writes the records to a temporary file which is then renamed, so
// that an existing file is never left half written.
func export(file string, collection records.Collection) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".extrativista-*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := records.WriteCSV(tmp, collection, delimiter(file)); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), file)
}

func delimiter(file string) rune {
	if strings.EqualFold(filepath.Ext(file), ".tsv") {
		return records.TSV
	}

	return records.CSV
}
