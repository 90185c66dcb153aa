package config

import (
	"os"
	"path/filepath"
)

const defaultEnvFile = ".env"

// FindEnvFile walks from the working directory up to the filesystem root and
// returns the first path where name exists. An empty name means ".env".
// It returns os.ErrNotExist when no directory holds the file.
func FindEnvFile(name string) (string, error) {
	if name == "" {
		name = defaultEnvFile
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(dir, name)
		if _, statErr := os.Stat(path); statErr == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
