package orchestrator

import (
	"bytes"

	"github.com/natefinch/atomic"
)

// writeAtomic writes through a temp file and rename so a failed run never
// leaves a truncated document behind.
func writeAtomic(path string, data []byte) error {
	return atomic.WriteFile(path, bytes.NewReader(data))
}
