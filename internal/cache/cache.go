// Package cache is the local durable key-value cache. Reads never fail: a
// miss, a storage error or undecodable data all yield the caller's fallback.
// Writes never fail either; errors are logged and the caller keeps its
// in-memory state.
package cache

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	applog "gymsite/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMiss is returned by a Backend when the key is absent.
var ErrMiss = errors.New("cache: miss")

type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	Delete(key string) error
}

type Cache struct {
	b Backend
}

func New(b Backend) *Cache { return &Cache{b: b} }

// Get decodes the value under key, or returns fallback.
func Get[T any](c *Cache, key string, fallback T) T {
	if c == nil || c.b == nil {
		return fallback
	}
	raw, err := c.b.Read(key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			applog.Warn(nil, "cache.read.fail", err, map[string]any{"key": key})
		}
		return fallback
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		applog.Warn(nil, "cache.decode.fail", err, map[string]any{"key": key})
		return fallback
	}
	return v
}

// Has reports whether key holds a value, without decoding it.
func (c *Cache) Has(key string) bool {
	if c == nil || c.b == nil {
		return false
	}
	_, err := c.b.Read(key)
	return err == nil
}

// Set stores v under key. It reports whether the write reached storage.
func (c *Cache) Set(key string, v any) bool {
	if c == nil || c.b == nil {
		return false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		applog.Error(nil, "cache.encode.fail", err, map[string]any{"key": key})
		return false
	}
	if err := c.b.Write(key, raw); err != nil {
		applog.Error(nil, "cache.write.fail", err, map[string]any{"key": key})
		return false
	}
	return true
}

func (c *Cache) Del(key string) {
	if c == nil || c.b == nil {
		return
	}
	if err := c.b.Delete(key); err != nil {
		applog.Error(nil, "cache.delete.fail", err, map[string]any{"key": key})
	}
}
