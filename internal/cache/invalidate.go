package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ClearDir removes the directory and all contents. It recreates the directory
// afterwards to leave a valid empty cache location.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// PurgeByAge removes entries saved more than maxAge ago. It reads SavedAt
// from <key>.meta.json and deletes both meta and the matching <key>.body.
// A non-positive maxAge disables purging.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".meta.json") {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable
		}
		var e Entry
		if err := json.Unmarshal(b, &e); err != nil {
			return nil // skip malformed
		}
		if now.Sub(e.SavedAt) <= maxAge {
			return nil
		}
		removed++
		removeEntry(strings.TrimSuffix(path, ".meta.json"))
		return nil
	})
	return removed, err
}

type entryInfo struct {
	base string
	size int64
	used time.Time
}

// EnforceLimits evicts least recently used entries until the total body size
// is at most maxBytes and the entry count at most maxEntries. Recency is the
// body's modification time, which LoadBody refreshes. A zero limit is not
// enforced.
func EnforceLimits(dir string, maxBytes int64, maxEntries int) (int, error) {
	if maxBytes <= 0 && maxEntries <= 0 {
		return 0, nil
	}
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	var entries []entryInfo
	var total int64
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".body") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		entries = append(entries, entryInfo{
			base: filepath.Join(dir, strings.TrimSuffix(d.Name(), ".body")),
			size: info.Size(),
			used: info.ModTime(),
		})
		total += info.Size()
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].used.Before(entries[j].used) })

	removed := 0
	for _, e := range entries {
		overBytes := maxBytes > 0 && total > maxBytes
		overCount := maxEntries > 0 && len(entries)-removed > maxEntries
		if !overBytes && !overCount {
			break
		}
		removeEntry(e.base)
		total -= e.size
		removed++
	}
	return removed, nil
}

func removeEntry(base string) {
	_ = os.Remove(base + ".meta.json")
	_ = os.Remove(base + ".body")
}
