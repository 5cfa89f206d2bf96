package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aoiro-dev/aoiro/internal/model"
)

// Duplicate scoring. An exact content match is certain; same date, amount
// and account set is near-certain; same date and amount alone is worth
// flagging but common enough for recurring payments that it only warns.
const (
	scoreExact       = 100
	scoreSameAccount = 90
	scoreSameAmount  = 70

	// DefaultDuplicateThreshold is the minimum score ScanDuplicates reports.
	DefaultDuplicateThreshold = 70
)

// checkDuplicates enforces the insert-time duplicate policy. excludeID is
// the entry's own id on update, 0 on insert. An exact content-hash match is
// always rejected. A similar entry (same date, same debit total) is rejected
// unless force is set, in which case the returned warning describes the
// match so callers can surface it.
func (s *Service) checkDuplicates(e model.JournalEntry, hash string, excludeID int64, force bool) (string, error) {
	var exactID int64
	err := s.db.Conn().QueryRow(
		"SELECT id FROM journals WHERE fiscal_year = ? AND content_hash = ? AND id != ? LIMIT 1",
		e.FiscalYear, hash, excludeID,
	).Scan(&exactID)
	if err == nil {
		return "", newValidationError(KindDuplicateEntry,
			"identical entry already exists as entry %d (same date, accounts and amounts)", exactID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking exact duplicates: %w", err)
	}

	var similarID int64
	err = s.db.Conn().QueryRow(
		`SELECT j.id FROM journals j
		 JOIN journal_lines l ON l.journal_id = j.id AND l.side = 'debit'
		 WHERE j.fiscal_year = ? AND j.date = ? AND j.id != ?
		 GROUP BY j.id HAVING SUM(l.amount) = ?
		 LIMIT 1`,
		e.FiscalYear, e.Date, excludeID, e.DebitTotal(),
	).Scan(&similarID)
	if err == nil {
		if !force {
			return "", newValidationError(KindDuplicateEntry,
				"entry %d on %s has the same total amount; pass force to add anyway", similarID, e.Date)
		}
		s.log.Warn().Int64("similar_to", similarID).Str("date", e.Date).
			Msg("adding entry despite similar existing entry")
		return fmt.Sprintf("added despite entry %d on %s with the same total amount", similarID, e.Date), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking similar duplicates: %w", err)
	}
	return "", nil
}

// DuplicatePair is one suspected duplicate reported by ScanDuplicates.
type DuplicatePair struct {
	EntryID   int64  `json:"entry_id"`
	OtherID   int64  `json:"other_id"`
	Date      string `json:"date"`
	Amount    int64  `json:"amount"`
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
}

type dupCandidate struct {
	id       int64
	date     string
	hash     string
	amount   int64
	accounts string
}

// ScanDuplicates compares every pair of entries in a year and reports the
// pairs scoring at or above threshold. It never modifies anything.
func (s *Service) ScanDuplicates(year int, threshold int) ([]DuplicatePair, error) {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}

	entries, err := s.Search(SearchFilter{FiscalYear: year})
	if err != nil {
		return nil, err
	}

	cands := make([]dupCandidate, 0, len(entries))
	for _, e := range entries {
		codes := make([]string, 0, len(e.Lines))
		for _, ln := range e.Lines {
			codes = append(codes, ln.AccountCode)
		}
		sort.Strings(codes)
		cands = append(cands, dupCandidate{
			id:       e.ID,
			date:     e.Date,
			hash:     ContentHash(e),
			amount:   e.DebitTotal(),
			accounts: strings.Join(codes, ","),
		})
	}

	var pairs []DuplicatePair
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			a, b := cands[i], cands[j]
			if a.date != b.date || a.amount != b.amount {
				continue
			}
			score, reason := scoreSameAmount, "same date and amount"
			switch {
			case a.hash == b.hash:
				score, reason = scoreExact, "identical date, accounts and amounts"
			case a.accounts == b.accounts:
				score, reason = scoreSameAccount, "same date, amount and accounts"
			}
			if score < threshold {
				continue
			}
			pairs = append(pairs, DuplicatePair{
				EntryID: a.id, OtherID: b.id,
				Date: a.date, Amount: a.amount,
				Score: score, Reason: reason,
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		return pairs[i].EntryID < pairs[j].EntryID
	})
	return pairs, nil
}
