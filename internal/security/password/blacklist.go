package password

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Blacklist is a set of forbidden passwords loaded from a file, one entry
// per line, lines starting with # ignored. Matching is case-insensitive.
type Blacklist struct {
	mu   sync.RWMutex
	data map[string]struct{}
}

// LoadBlacklist reads the file at path. An empty path yields an empty
// (allow-everything) blacklist.
func LoadBlacklist(path string) (*Blacklist, error) {
	bl := &Blacklist{data: map[string]struct{}{}}
	if strings.TrimSpace(path) == "" {
		return bl, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(strings.ToLower(sc.Text()))
		if s != "" && !strings.HasPrefix(s, "#") {
			bl.data[s] = struct{}{}
		}
	}
	return bl, sc.Err()
}

// Contains reports whether pwd is blacklisted. Nil-safe.
func (b *Blacklist) Contains(pwd string) bool {
	if b == nil {
		return false
	}
	p := strings.ToLower(strings.TrimSpace(pwd))
	b.mu.RLock()
	_, ok := b.data[p]
	b.mu.RUnlock()
	return ok
}

var (
	blCache = gocache.New(5*time.Minute, 10*time.Minute)
	blGroup singleflight.Group
)

// GetCachedBlacklist returns the blacklist for path, reloading it at most
// every few minutes. Concurrent first loads of the same path are
// deduplicated.
func GetCachedBlacklist(path string) (*Blacklist, error) {
	if v, ok := blCache.Get(path); ok {
		return v.(*Blacklist), nil
	}
	v, err, _ := blGroup.Do(path, func() (any, error) {
		if v, ok := blCache.Get(path); ok {
			return v, nil
		}
		bl, err := LoadBlacklist(path)
		if err != nil {
			return nil, err
		}
		blCache.SetDefault(path, bl)
		return bl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Blacklist), nil
}
