package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/aoiro-dev/aoiro/internal/model"
)

// ContentHash fingerprints an entry by date and its set of postings.
// Lines are sorted so order never affects the hash; the description is
// deliberately excluded so a reworded copy of the same transaction still
// collides with the original.
func ContentHash(e model.JournalEntry) string {
	parts := make([]string, 0, len(e.Lines))
	for _, ln := range e.Lines {
		parts = append(parts, string(ln.Side)+":"+ln.AccountCode+":"+strconv.FormatInt(ln.Amount, 10))
	}
	sort.Strings(parts)

	sum := sha256.Sum256([]byte(e.Date + "|" + strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
