package importer

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aoiro-dev/aoiro/internal/database"
	"github.com/aoiro-dev/aoiro/internal/journal"
)

// Service parses statement files and tracks what has been imported.
type Service struct {
	db       *database.DB
	registry *Registry
	log      zerolog.Logger
}

// NewService returns an import service using the given parser registry.
func NewService(db *database.DB, registry *Registry, logger zerolog.Logger) *Service {
	return &Service{
		db:       db,
		registry: registry,
		log:      logger.With().Str("component", "importer").Logger(),
	}
}

// Result is the outcome of one file import.
type Result struct {
	FileName  string         `json:"file_name"`
	FileHash  string         `json:"file_hash"`
	Rows      []CandidateRow `json:"rows"`
	RowErrors []RowError     `json:"row_errors,omitempty"`
}

// ImportFile parses the file with the named format parser and records it
// in import_sources. Re-importing a file already recorded for the year is
// rejected so the same statement cannot be double-entered.
func (s *Service) ImportFile(year int, path, format string) (Result, error) {
	parser := s.registry.Get(format)
	if parser == nil {
		return Result{}, &journal.ValidationError{
			Kind:    journal.KindInvalidEntry,
			Message: fmt.Sprintf("unknown import format %q", format),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	name := filepath.Base(path)

	var existing string
	err = s.db.Conn().QueryRow(
		"SELECT file_name FROM import_sources WHERE fiscal_year = ? AND file_hash = ?",
		year, hash).Scan(&existing)
	if err == nil {
		return Result{}, &journal.ValidationError{
			Kind:    journal.KindDuplicateEntry,
			Message: fmt.Sprintf("file already imported in %d as %q", year, existing),
		}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Result{}, fmt.Errorf("checking import sources: %w", err)
	}

	rows, rowErrs, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return Result{}, err
	}

	if _, err := s.db.Conn().Exec(`
		INSERT INTO import_sources (fiscal_year, file_hash, file_name, file_path, row_count)
		VALUES (?, ?, ?, ?, ?)`,
		year, hash, name, path, len(rows)); err != nil {
		return Result{}, fmt.Errorf("recording import source: %w", err)
	}

	s.log.Info().Str("file", name).Int("rows", len(rows)).
		Int("rejected", len(rowErrs)).Msg("statement imported")

	return Result{FileName: name, FileHash: hash, Rows: rows, RowErrors: rowErrs}, nil
}

// ListSources returns the files recorded for a year.
func (s *Service) ListSources(year int) ([]SourceInfo, error) {
	rows, err := s.db.Conn().Query(`
		SELECT id, file_name, file_hash, row_count, imported_at
		FROM import_sources WHERE fiscal_year = ? ORDER BY id`, year)
	if err != nil {
		return nil, fmt.Errorf("list import sources: %w", err)
	}
	defer rows.Close()

	var sources []SourceInfo
	for rows.Next() {
		var info SourceInfo
		if err := rows.Scan(&info.ID, &info.FileName, &info.FileHash,
			&info.RowCount, &info.ImportedAt); err != nil {
			return nil, fmt.Errorf("list import sources: %w", err)
		}
		sources = append(sources, info)
	}
	return sources, rows.Err()
}

// SourceInfo describes one recorded import.
type SourceInfo struct {
	ID         int64  `json:"id"`
	FileName   string `json:"file_name"`
	FileHash   string `json:"file_hash"`
	RowCount   int    `json:"row_count"`
	ImportedAt string `json:"imported_at"`
}
