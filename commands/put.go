package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ideflorbio/extrativista-sheets/records"
	"github.com/ideflorbio/extrativista-sheets/store"
)

var PutCmd = Put{
	command: defaults(),
	file:    "",
}

type Put struct {
	command
	file string
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	cmd.storeFlags(flagset)
	flagset.StringVar(&cmd.file, "file", cmd.file, "CSV or TSV file")

	return flagset
}

// Execute replaces the contents of the worksheet with the records in the file.
func (cmd *Put) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.options(options)

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	f, err := os.Open(cmd.file)
	if err != nil {
		return err
	}
	defer f.Close()

	collection, err := records.ReadCSV(f, delimiter(cmd.file))
	if err != nil {
		return fmt.Errorf("invalid file %v (%w)", cmd.file, err)
	}

	ctx := context.Background()
	sheet, closer, err := cmd.worksheet(ctx)
	if err != nil {
		return err
	}
	defer closer()

	if err := store.New(sheet, store.Rewrite).Replace(ctx, collection); err != nil {
		return err
	}

	infof("Uploaded %v records from %v to %v", len(collection), cmd.file, sheet)

	return nil
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Uploads a CSV or TSV file of registration records to the worksheet, replacing its contents"
}

func (cmd *Put) Usage() string {
	return "--credentials <file> --url <url> --file <file>"
}

func (cmd *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] put [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Uploads a CSV file (or TSV if the file name ends in .tsv) to the worksheet. The existing")
	fmt.Println("  records are replaced.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println()
	fmt.Println(`    extrativista-sheets --debug put --credentials "credentials.json" \`)
	fmt.Println(`                                    --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                    --range "Página1!A1:V" \`)
	fmt.Println(`                                    --file "dados_flota.csv"`)
	fmt.Println()
}
