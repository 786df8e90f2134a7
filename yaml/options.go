// Package yaml loads plugin options from YAML files.
package yaml

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fwojciec/sitefinity"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFiles are loaded by LoadEnv when no paths are given.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnv loads environment variables from the first env file that exists.
// Variables already set in the process environment are not overwritten.
// It returns the loaded path, or "" when no file exists.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvFiles
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

// Load reads plugin options from a YAML file. ${VAR} references are
// expanded from the environment before parsing, so secrets such as the
// auth password can stay out of the file.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, sitefinity.Errorf(sitefinity.EINVALID, "configuration file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes plugin options from YAML content after expanding
// environment variables.
func Parse(data []byte) (map[string]any, error) {
	expanded := os.ExpandEnv(string(data))

	var options map[string]any
	if err := yaml.Unmarshal([]byte(expanded), &options); err != nil {
		return nil, sitefinity.Errorf(sitefinity.EINVALID, "invalid configuration file: %v", err)
	}
	if options == nil {
		options = map[string]any{}
	}
	return options, nil
}
