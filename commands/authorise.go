package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ideflorbio/extrativista-sheets/store"
)

var AuthoriseCmd = Authorise{
	command: defaults(),
	bind:    "127.0.0.1:8085",
}

type Authorise struct {
	command
	bind string
}

var authPage = template.Must(template.New("auth").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
  <head><meta charset="utf-8"><title>{{.App}}</title></head>
  <body>
    {{if .Done}}
    <p>Autorização concluída. Pode fechar esta janela.</p>
    {{else}}
    <p><a href="{{.URL}}">Autorizar acesso do {{.App}} à planilha</a></p>
    {{end}}
  </body>
</html>
`))

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises extrativista-sheets to access a Google Sheets worksheet"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file> --url <url>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options] --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Runs the OAuth2 authorisation flow for the spreadsheet and saves the tokens to the")
	fmt.Println("  tokens directory. Not required when the credentials are for a service account.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    extrativista-sheets authorise --credentials "credentials.json" --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("authorise")

	flagset.StringVar(&cmd.bind, "bind", cmd.bind, "Local address for the OAuth2 redirect")

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.options(options)

	// ... check parameters
	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if _, err := store.SpreadsheetID(cmd.url); err != nil {
		return err
	}

	b, err := os.ReadFile(cmd.credentials)
	if err != nil {
		return err
	}

	config, err := google.ConfigFromJSON(b, SHEETS)
	if err != nil {
		return fmt.Errorf("invalid OAuth2 client credentials (%w)", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	token, err := cmd.authenticate(ctx, config)
	if err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	tokens := tokensFile(cmd.credentials, SHEETS, cmd.tokensDir())
	if err := saveToken(tokens, token); err != nil {
		return err
	}

	infof("Saved OAuth2 tokens to %v", tokens)

	return nil
}

// authenticate serves a local page linking to the Google consent screen and
// waits for the redirect carrying the authorisation code.
func (cmd *Authorise) authenticate(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", cmd.bind)
	if err != nil {
		return nil, err
	}

	state := uuid.New().String()
	local := fmt.Sprintf("http://%v", listener.Addr())
	config.RedirectURL = local + "/callback"
	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	codes := make(chan string, 1)
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, rq *http.Request) {
		authPage.Execute(w, map[string]any{"App": APP, "URL": authURL})
	})

	mux.HandleFunc("/callback", func(w http.ResponseWriter, rq *http.Request) {
		if rq.FormValue("state") != state || rq.FormValue("code") == "" {
			http.Error(w, "invalid authorisation response", http.StatusBadRequest)
			return
		}

		select {
		case codes <- rq.FormValue("code"):
		default:
		}

		authPage.Execute(w, map[string]any{"App": APP, "Done": true})
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			warnf("%v", err)
		}
	}()

	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			warnf("%v", err)
		}
	}()

	fmt.Println()
	fmt.Printf("  Open %v in your browser to authorise access to the spreadsheet\n", local)
	fmt.Println()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("cancelled")

	case code := <-codes:
		return config.Exchange(ctx, code)
	}
}
