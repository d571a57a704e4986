package schedule

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"
)

// ComputeFingerprint hashes the fully normalized content of a class map in a
// stable, order-sensitive way. Two snapshots with equal fingerprints carry
// the same schedule; Parse stamps this onto every snapshot it builds.
func ComputeFingerprint(classes map[string]ClassWeek) string {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		io.WriteString(h, name)
		week := classes[name]
		for d := range week {
			io.WriteString(h, "\n")
			io.WriteString(h, week[d].Key())
		}
		io.WriteString(h, "\x00")
	}
	return hex.EncodeToString(h.Sum(nil))
}
