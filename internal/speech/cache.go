package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/bigbite/internal/logger"
)

// AudioCache keeps synthesized audio in memory and, optionally, on disk.
// Keys are sha256(voice + ":" + text), so changing voice misses the cache.
//
// The disk directory is always read when set; it is only written when
// persist is true. Safe for concurrent use.
type AudioCache struct {
	voice   string
	dir     string
	persist bool
	log     *logger.Logger

	mu     sync.RWMutex
	mem    map[string][]byte
	hits   int64
	misses int64
}

// NewAudioCache creates a cache for the given voice. An empty dir disables
// the disk tier.
func NewAudioCache(voice, dir string, persist bool, log *logger.Logger) *AudioCache {
	if dir != "" && persist {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("cache: create dir %s: %v", dir, err)
		}
	}
	return &AudioCache{
		voice:   voice,
		dir:     dir,
		persist: persist,
		log:     log,
		mem:     make(map[string][]byte),
	}
}

// Get returns cached audio for text, checking memory then disk. Disk hits
// are promoted to memory.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	key := c.key(text)

	c.mu.RLock()
	audio, ok := c.mem[key]
	c.mu.RUnlock()

	if !ok && c.dir != "" {
		if data, err := os.ReadFile(c.path(key)); err == nil {
			audio, ok = data, true
			c.mu.Lock()
			c.mem[key] = data
			c.mu.Unlock()
			c.log.Debug("cache hit (disk): %s", truncate(text, 40))
		}
	}

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
	return audio, ok
}

// Put stores audio for text in memory, and on disk when persisting.
func (c *AudioCache) Put(text string, audio []byte) {
	key := c.key(text)

	c.mu.Lock()
	c.mem[key] = audio
	c.mu.Unlock()

	if c.dir == "" || !c.persist {
		return
	}
	if err := os.WriteFile(c.path(key), audio, 0o644); err != nil {
		c.log.Error("cache: write %s: %v", key[:12], err)
	}
}

// Len returns the number of in-memory entries.
func (c *AudioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mem)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *AudioCache) key(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func (c *AudioCache) path(key string) string {
	return filepath.Join(c.dir, key+".wav")
}

// truncate shortens a string for logging.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
