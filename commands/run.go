package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	"github.com/ideflorbio/extrativista-sheets/admin"
	"github.com/ideflorbio/extrativista-sheets/config"
	"github.com/ideflorbio/extrativista-sheets/form"
	"github.com/ideflorbio/extrativista-sheets/httpd"
	"github.com/ideflorbio/extrativista-sheets/store"
)

var RunCmd = Run{
	command:     defaults(),
	bind:        ":8080",
	mode:        store.Rewrite.String(),
	ttl:         admin.DefaultTTL,
	env:         "",
	connections: 64,
	secure:      false,
	proxy:       false,
}

type Run struct {
	command
	bind        string
	mode        string
	ttl         time.Duration
	env         string
	connections int
	secure      bool
	proxy       bool
}

func (cmd *Run) Name() string {
	return "run"
}

func (cmd *Run) Description() string {
	return "Runs the registration form server"
}

func (cmd *Run) Usage() string {
	return "--credentials <file> --url <url> [--bind <address>] [--mode rewrite|atomic]"
}

func (cmd *Run) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] run [options] --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Serves the registration form and the admin area. Each submission is appended to the")
	fmt.Println("  worksheet. The admin password is read from SENHA_ADMIN, either from the environment")
	fmt.Println("  or from the --env file.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    extrativista-sheets run --credentials "credentials.json" \`)
	fmt.Println(`                            --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                            --bind "0.0.0.0:8080" --mode atomic`)
	fmt.Println()
	fmt.Println(`    extrativista-sheets run --store sqlite --db "campo.db"`)
	fmt.Println()
}

func (cmd *Run) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("run")

	cmd.storeFlags(flagset)
	flagset.StringVar(&cmd.bind, "bind", cmd.bind, "HTTP server address")
	flagset.StringVar(&cmd.mode, "mode", cmd.mode, "Append mode ('rewrite' or 'atomic')")
	flagset.DurationVar(&cmd.ttl, "admin-ttl", cmd.ttl, "Admin session lifetime")
	flagset.StringVar(&cmd.env, "env", cmd.env, "File with the SENHA_ADMIN and ADMIN_TOKEN_KEY secrets. Defaults to .env")
	flagset.IntVar(&cmd.connections, "max-connections", cmd.connections, "Maximum number of concurrent HTTP connections")
	flagset.BoolVar(&cmd.secure, "secure", cmd.secure, "Marks the cookies as Secure (for use behind a TLS proxy)")
	flagset.BoolVar(&cmd.proxy, "trusted-proxy", cmd.proxy, "Takes the client address from the X-Real-IP/X-Forwarded-For headers set by a reverse proxy")

	return flagset
}

func (cmd *Run) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.options(options)

	mode, err := store.ParseMode(cmd.mode)
	if err != nil {
		return err
	}

	if cmd.connections < 1 {
		return fmt.Errorf("invalid --max-connections (%v)", cmd.connections)
	}

	secrets, err := config.Load(cmd.env)
	if err != nil {
		return err
	}

	gate, err := admin.NewGate(secrets.AdminPassword, secrets.AdminTokenKey, cmd.ttl)
	if err != nil {
		return err
	}

	catalogue, err := form.LoadCatalogue()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sheet, closer, err := cmd.worksheet(ctx)
	if err != nil {
		return err
	}
	defer closer()

	s := store.New(sheet, mode)

	switch result := s.Fetch(ctx); result.Status {
	case store.ReadFailed:
		warnf("%v", result.Err)
	default:
		infof("%v: %v records (%v)", sheet, result.Len(), mode)
	}

	server, err := httpd.NewServer(catalogue, s, gate, httpd.Options{Secure: cmd.secure, TrustProxy: cmd.proxy})
	if err != nil {
		return err
	}

	return cmd.serve(ctx, server.Handler())
}

func (cmd *Run) serve(ctx context.Context, handler http.Handler) error {
	listener, err := net.Listen("tcp", cmd.bind)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(netutil.LimitListener(listener, cmd.connections))
	}()

	infof("Listening on %v", listener.Addr())

	select {
	case err := <-errs:
		return err

	case <-ctx.Done():
		infof("shutting down")

		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}

		if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}
