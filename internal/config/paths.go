// Package config manages uiforge configuration and filesystem paths.
//
// The default root is ~/.uiforge/, holding the version history and an
// optional config.yaml. Settings can be overridden with UIFORGE_ environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by uiforge.
type Paths struct {
	// Root is the base directory for all uiforge data (default: ~/.uiforge)
	Root string

	// Data is the directory holding version history files
	Data string

	// Config is the path to the config file
	Config string
}

// DefaultPaths returns the default paths for uiforge.
// Paths can be overridden with environment variables:
// - UIFORGE_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("UIFORGE_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".uiforge")
	}
	return PathsAt(root), nil
}

// PathsAt returns the paths rooted at root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:   root,
		Data:   filepath.Join(root, "data"),
		Config: filepath.Join(root, "config.yaml"),
	}
}

// HistoryFile is the default path of the JSON version history.
func (p *Paths) HistoryFile() string {
	return filepath.Join(p.Data, "versions.json")
}

// Database is the default path of the SQLite version history.
func (p *Paths) Database() string {
	return filepath.Join(p.Data, "versions.db")
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Data,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
