// Package dotdir manages the .reverie/ and ~/.reverie directories.
//
// The dot directory holds the persistent pieces of a play session: the
// config.toml file and the local memory cache slot (memory.json, managed
// by pkg/memory/store/cachefile).
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirName is the name of the reverie directory.
const dirName = ".reverie"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path to an existing .reverie/ directory.
// Order of precedence:
//  1. Provided override (created if missing)
//  2. Local ./.reverie/ dir
//  3. Home ~/.reverie/ dir
//
// Returns an empty string when no override is given and neither directory
// exists. Callers that only read config treat that as "use defaults".
func (m *Manager) Target(overrideDir string) (string, error) {
	if overrideDir != "" {
		if err := os.MkdirAll(overrideDir, 0o755); err != nil {
			return "", fmt.Errorf("creating reverie directory %s: %w", overrideDir, err)
		}
		return filepath.Abs(overrideDir)
	}

	if dir, ok := m.localDir(); ok {
		return filepath.Abs(dir)
	}

	if dir, ok := m.homeDir(); ok {
		return filepath.Abs(dir)
	}

	return "", nil
}

// Ensure resolves like Target but guarantees a directory exists, creating
// ~/.reverie/ when nothing else is found. Used by writers (the cache slot)
// that need a home for their files on first run.
func (m *Manager) Ensure(overrideDir string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil || dir != "" {
		return dir, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	dir = filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reverie directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// localDir checks for a .reverie/ directory in the current working directory.
func (m *Manager) localDir() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}

	dir := filepath.Join(cwd, dirName)
	info, err := os.Stat(dir)
	return dir, err == nil && info.IsDir()
}

// homeDir checks for a .reverie/ directory in the user's home directory.
func (m *Manager) homeDir() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	dir := filepath.Join(home, dirName)
	info, err := os.Stat(dir)
	return dir, err == nil && info.IsDir()
}
