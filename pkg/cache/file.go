package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache keeps one JSON file per entry under dir, sharded into
// subdirectories by the first two hex digits of the key hash:
//
//	<dir>/3f/a9c0…e1.json
//
// Writes go through a temporary file and a rename, so concurrent CLI runs
// never observe a partial entry.
type FileCache struct {
	dir string
	now func() time.Time
}

// fileEntry is the on-disk form of one cached artifact.
type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// DefaultDir returns the per-user cache directory for archgraph.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache dir: %w", err)
	}
	return filepath.Join(base, "archgraph"), nil
}

// NewFileCache opens (and creates if needed) a file cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the directory holding the cache entries.
func (c *FileCache) Dir() string { return c.dir }

// Get reads an entry. Corrupt and expired entries are deleted and reported
// as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	e, err := readFileEntry(path)
	switch {
	case os.IsNotExist(err):
		return nil, false, nil
	case err != nil:
		_ = os.Remove(path)
		return nil, false, nil
	case e.expired(c.now()):
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set writes an entry. A non-positive ttl never expires.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Data: data}
	if ttl > 0 {
		e.ExpiresAt = c.now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(shard, ".entry-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(raw)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmp.Name())
		if werr != nil {
			return werr
		}
		return cerr
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes an entry; deleting a missing key is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Stats counts the entry files and their size on disk, expired ones
// included.
func (c *FileCache) Stats(context.Context) (Stats, error) {
	var s Stats
	err := c.walk(func(path string, info fs.FileInfo) error {
		s.Entries++
		s.Bytes += info.Size()
		return nil
	})
	return s, err
}

// Prune deletes expired and unreadable entries and returns how many it
// removed.
func (c *FileCache) Prune() (int, error) {
	now := c.now()
	removed := 0
	err := c.walk(func(path string, _ fs.FileInfo) error {
		if e, err := readFileEntry(path); err == nil && !e.expired(now) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// Clear deletes every entry and returns how many there were. The cache
// directory itself and files outside the shard directories are kept.
func (c *FileCache) Clear() (int, error) {
	removed := 0
	shards := map[string]bool{}
	err := c.walk(func(path string, _ fs.FileInfo) error {
		removed++
		shards[filepath.Dir(path)] = true
		return nil
	})
	if err != nil {
		return 0, err
	}
	for shard := range shards {
		if err := os.RemoveAll(shard); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

// walk calls fn for every entry file in a two-character shard directory.
func (c *FileCache) walk(fn func(path string, info fs.FileInfo) error) error {
	shards, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, shard := range shards {
		if !shard.IsDir() || len(shard.Name()) != 2 {
			continue
		}
		dir := filepath.Join(c.dir, shard.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
				continue
			}
			info, err := f.Info()
			if err != nil {
				return err
			}
			if err := fn(filepath.Join(dir, f.Name()), info); err != nil {
				return err
			}
		}
	}
	return nil
}

func readFileEntry(path string) (fileEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileEntry{}, err
	}
	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return fileEntry{}, err
	}
	return e, nil
}

var (
	_ Cache     = (*FileCache)(nil)
	_ Inspector = (*FileCache)(nil)
)
