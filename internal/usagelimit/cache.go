package usagelimit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	cacheTTL        = 60 * time.Second
	cacheFailureTTL = 15 * time.Second
)

// Cache stores the last usage result on disk. It is shared by every render
// without locking; the last writer wins.
type Cache struct {
	Path string
	Log  *zap.Logger
}

type cacheRecord struct {
	Data      Data  `json:"data"`
	Timestamp int64 `json:"timestamp"` // unix ms
}

// CachePath returns the usage cache location under home.
func CachePath(home string) string {
	return filepath.Join(home, ".claude", "plugins", "claude-powerline", ".usage-cache.json")
}

func NewCache(home string, log *zap.Logger) *Cache {
	return &Cache{Path: CachePath(home), Log: log}
}

// Read returns the cached data if it is still fresh at now, nil otherwise.
// Results with APIUnavailable set expire after 15s, others after 60s.
func (c *Cache) Read(now time.Time) *Data {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger().Debug("reading usage cache", zap.Error(err))
		}
		return nil
	}

	var rec cacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		c.logger().Debug("parsing usage cache", zap.String("path", c.Path), zap.Error(err))
		return nil
	}

	ttl := cacheTTL
	if rec.Data.APIUnavailable {
		ttl = cacheFailureTTL
	}
	if now.UnixMilli()-rec.Timestamp >= ttl.Milliseconds() {
		return nil
	}
	return &rec.Data
}

// Write replaces the cache file with data stamped at now. Failures are logged
// and otherwise ignored.
func (c *Cache) Write(data Data, now time.Time) {
	if err := c.write(data, now); err != nil {
		c.logger().Debug("writing usage cache", zap.Error(err))
	}
}

func (c *Cache) write(data Data, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	out, err := json.Marshal(cacheRecord{Data: data, Timestamp: now.UnixMilli()})
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}
	if err := os.WriteFile(c.Path, out, 0o644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

func (c *Cache) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
