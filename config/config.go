// Package config loads the secrets shared by the commands: the admin password
// and the key used to sign admin sessions.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/ideflorbio/extrativista-sheets/log"
)

const (
	DefaultEnvFile = ".env"

	AdminPassword = "SENHA_ADMIN"
	AdminTokenKey = "ADMIN_TOKEN_KEY"
)

type Secrets struct {
	AdminPassword string
	AdminTokenKey []byte
}

// Load reads the secrets from the environment, after first loading the env
// file. Variables already set in the environment take precedence over the
// file. A missing default env file is not an error, a missing explicitly
// named one is.
func Load(file string) (Secrets, error) {
	if file == "" {
		file = DefaultEnvFile
	}

	if err := godotenv.Load(file); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || file != DefaultEnvFile {
			return Secrets{}, fmt.Errorf("unable to load env file %v (%w)", file, err)
		}

		log.Debugf("config: no %v file", file)
	}

	secrets := Secrets{
		AdminPassword: os.Getenv(AdminPassword),
		AdminTokenKey: []byte(os.Getenv(AdminTokenKey)),
	}

	if secrets.AdminPassword == "" {
		log.Warnf("config: %v not set - admin area disabled", AdminPassword)
	}

	if len(secrets.AdminTokenKey) == 0 {
		log.Debugf("config: %v not set - admin sessions will not survive a restart", AdminTokenKey)
	}

	return secrets, nil
}
