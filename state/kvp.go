package state

import "strings"

// KVP - A single Key=Value pair extracted from a log line
//
// The parser represents log level tokens as pseudo-KVPs as well, so that the
// prologue scan can treat everything it meets uniformly.
type KVP struct {
	Key        string
	Value      string
	IsLogLevel bool
}

// KVPCollection preserves insertion order, and the first insertion for a key
// wins: later insertions of a case-insensitively equal key are dropped. The
// parser inserts prologue KVPs before trailing ones, so prologue values take
// priority when the same key appears in both places.
type KVPCollection []KVP

// Insert adds the KVP unless its key is already present. Reports whether the
// KVP was added.
func (c *KVPCollection) Insert(kvp KVP) bool {
	for _, existing := range *c {
		if strings.EqualFold(existing.Key, kvp.Key) {
			return false
		}
	}
	*c = append(*c, kvp)
	return true
}

// Get does a case-insensitive lookup in insertion order.
func (c KVPCollection) Get(key string) (string, bool) {
	for _, kvp := range c {
		if strings.EqualFold(kvp.Key, key) {
			return kvp.Value, true
		}
	}
	return "", false
}

// GetWithAlternates tries key first, then each alternate name in order.
func (c KVPCollection) GetWithAlternates(key string, alternates []string) (string, bool) {
	if value, ok := c.Get(key); ok {
		return value, true
	}
	for _, alt := range alternates {
		if value, ok := c.Get(alt); ok {
			return value, true
		}
	}
	return "", false
}

func (c KVPCollection) Len() int {
	return len(c)
}

func (c KVPCollection) Keys() []string {
	keys := make([]string, len(c))
	for i, kvp := range c {
		keys[i] = kvp.Key
	}
	return keys
}
