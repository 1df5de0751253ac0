package env

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// Prefix marks the system variables crudspec reads
const Prefix = "CRUDSPEC_"

// DotEnvFiles are read from the working directory, earlier files first
var DotEnvFiles = []string{".env.local", ".env"}

// DotEnvKeys name the base URL inside .env files, in order of preference
var DotEnvKeys = []string{"API_URL", "VITE_API_URL"}

// Source tells where a resolved base URL came from
type Source string

const (
	SourceNone   Source = ""
	SourceFlag   Source = "flag"
	SourceEnv    Source = "environment"
	SourceDotEnv Source = "dotenv"
	SourceConfig Source = "config"
)

// ResolveBaseURL picks the base URL of the API under test. The flag wins,
// then CRUDSPEC_API_URL, then API_URL or VITE_API_URL from a .env file in
// dir, then the config file value. An empty result is not an error.
func ResolveBaseURL(flag, dir, configValue string) (string, Source, error) {
	if v := strings.TrimSpace(flag); v != "" {
		return v, SourceFlag, nil
	}

	if v := strings.TrimSpace(LoadSystemEnv(Prefix)["API_URL"]); v != "" {
		return v, SourceEnv, nil
	}

	v, err := lookupDotEnv(dir)
	if err != nil {
		return "", SourceNone, err
	}
	if v != "" {
		return v, SourceDotEnv, nil
	}

	if v := strings.TrimSpace(configValue); v != "" {
		return v, SourceConfig, nil
	}

	return "", SourceNone, nil
}

func lookupDotEnv(dir string) (string, error) {
	for _, name := range DotEnvFiles {
		vars, err := LoadDotEnv(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		for _, key := range DotEnvKeys {
			if v := strings.TrimSpace(vars[key]); v != "" {
				return v, nil
			}
		}
	}
	return "", nil
}
