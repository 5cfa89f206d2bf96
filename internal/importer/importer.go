// Package importer turns bank CSV exports into candidate journal rows.
// Parsed rows are suggestions for journal entries, nothing is posted here.
package importer

import (
	"io"
	"strings"
)

// CandidateRow is one parsed bank statement line. Amount is signed integer
// yen, deposits positive.
type CandidateRow struct {
	Line        int    `json:"line"`
	Date        string `json:"date"` // YYYY-MM-DD
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// RowError reports one rejected statement line. Parsing continues past it.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Parser converts one bank's CSV layout into candidate rows. Malformed
// rows come back as RowErrors; the error return is for file-level failures.
type Parser interface {
	Parse(r io.Reader) ([]CandidateRow, []RowError, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&BankParser{})
	return r
}
