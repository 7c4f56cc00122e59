package keys

import (
	"strings"
)

const (
	// PfxSession is used for prefixing marketplace session snapshots
	PfxSession = "marketSession"
	// PfxMetadata is used for prefixing resolved asset metadata
	PfxMetadata = "assetMetadata"
)

// RedisKey is used to join the redis key by components
func RedisKey(components ...string) string {
	return strings.Join(components, ":")
}

// GetPrefix extracts the prefix of a key, at most two components deep.
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	if len(s) > 2 {
		return strings.Join(s[:2], ":")
	} else if len(s) > 1 {
		return s[0]
	}
	return ""
}
