package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// MarkerFile keeps web servers colocated with the cache from serving it.
const MarkerFile = ".htaccess"

const markerContent = "Deny from all\n"

// housekeeping files never touched by Sweep
var reservedNames = map[string]bool{
	".gitkeep":   true,
	".gitignore": true,
	MarkerFile:   true,
}

// DiskCache implements Cache interface for disk-based caching
type DiskCache struct {
	cacheDir string
	now      func() time.Time
}

// Option customizes a DiskCache
type Option func(*DiskCache)

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(d *DiskCache) {
		d.now = now
	}
}

// NewDisk creates a new disk cache rooted at cacheDir
func NewDisk(cacheDir string, opts ...Option) *DiskCache {
	d := &DiskCache{
		cacheDir: cacheDir,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dir returns the cache root
func (d *DiskCache) Dir() string {
	return d.cacheDir
}

func (d *DiskCache) groupDir(group string) (string, error) {
	if group == "" {
		return d.cacheDir, nil
	}
	clean := filepath.Clean(group)
	if filepath.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid cache group %q", group)
	}
	return filepath.Join(d.cacheDir, clean), nil
}

func (d *DiskCache) path(group, key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	dir, err := d.groupDir(group)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, key), nil
}

// Get retrieves cached data if it exists and is not expired.
// Stale files are left in place: the next Set overwrites them, or Sweep removes them.
func (d *DiskCache) Get(group, key string, ttl time.Duration) ([]byte, error) {
	cachePath, err := d.path(group, key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(cachePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat cache file: %w", err)
	}

	if d.now().Sub(info.ModTime()) > ttl {
		logrus.Debugf("Cache entry %s is stale", cachePath)
		return nil, nil
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	return data, nil
}

// Set stores data in the cache
func (d *DiskCache) Set(group, key string, value []byte) error {
	cachePath, err := d.path(group, key)
	if err != nil {
		return err
	}

	if err := d.Init(); err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(cachePath, value, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	logrus.Debugf("Cached response: %s", cachePath)
	return nil
}

// ClearGroup removes a group directory and everything below it
func (d *DiskCache) ClearGroup(group string) error {
	if group == "" {
		return fmt.Errorf("cache group is required")
	}
	dir, err := d.groupDir(group)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear cache group %q: %w", group, err)
	}
	logrus.Debugf("Cleared cache group %s", dir)
	return nil
}

// Sweep deletes files directly under the cache root whose modification time is older than maxAge.
// Group directories are not descended into.
func (d *DiskCache) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(d.cacheDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	cutoff := d.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || reservedNames[name] || strings.HasPrefix(name, ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // removed concurrently
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(d.cacheDir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logrus.Errorf("Failed to remove stale cache file %s: %v", name, err)
			continue
		}
		removed++
	}

	return removed, nil
}

// Init ensures the cache directory and its marker file exist
func (d *DiskCache) Init() error {
	if err := os.MkdirAll(d.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	marker := filepath.Join(d.cacheDir, MarkerFile)
	if _, err := os.Stat(marker); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat marker file: %w", err)
	}

	if err := os.WriteFile(marker, []byte(markerContent), 0644); err != nil {
		return fmt.Errorf("failed to write marker file: %w", err)
	}
	logrus.Debugf("Wrote cache marker %s", marker)
	return nil
}
