package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// authorize returns an HTTP client for the scope. Service account
// credentials are used directly, OAuth client credentials need the tokens
// saved by the 'authorise' command.
func authorize(ctx context.Context, credentials, scope, dir string) (*http.Client, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	kind := struct {
		Type string `json:"type"`
	}{}

	if err := json.Unmarshal(b, &kind); err != nil {
		return nil, fmt.Errorf("invalid credentials file %v (%w)", credentials, err)
	}

	if kind.Type == "service_account" {
		creds, err := google.CredentialsFromJSON(ctx, b, scope)
		if err != nil {
			return nil, err
		}

		debugf("using service account credentials %v", credentials)

		return oauth2.NewClient(ctx, creds.TokenSource), nil
	}

	config, err := google.ConfigFromJSON(b, scope)
	if err != nil {
		return nil, err
	}

	tokens := tokensFile(credentials, scope, dir)
	token, err := tokenFromFile(tokens)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no authorisation tokens in %v - run '%s authorise' first", tokens, APP)
	} else if err != nil {
		return nil, err
	}

	debugf("using OAuth2 tokens %v", tokens)

	return config.Client(ctx, token), nil
}

func tokensFile(credentials, scope, dir string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	switch {
	case strings.HasPrefix(scope, SHEETS):
		return filepath.Join(dir, fmt.Sprintf("%s.sheets", name))

	default:
		return filepath.Join(dir, fmt.Sprintf("%s.tokens", name))
	}
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("invalid tokens file %v (%w)", file, err)
	}

	return &token, nil
}

// Saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save OAuth2 tokens (%w)", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
