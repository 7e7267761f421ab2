package document

import (
	"strconv"
	"sync/atomic"
)

// Key identifies a token, row, or document revision. Keys are unique within
// the process and only meaningful for change detection.
type Key uint64

//nolint:gochecknoglobals // Process-wide key counter.
var lastKey atomic.Uint64

// NextKey returns a fresh process-unique key.
func NextKey() Key {
	return Key(lastKey.Add(1))
}

func (k Key) String() string {
	return strconv.FormatUint(uint64(k), 10)
}
