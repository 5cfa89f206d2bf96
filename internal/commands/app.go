package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aoiro-dev/aoiro/internal/accounts"
	"github.com/aoiro-dev/aoiro/internal/config"
	"github.com/aoiro-dev/aoiro/internal/database"
	"github.com/aoiro-dev/aoiro/internal/depreciation"
	"github.com/aoiro-dev/aoiro/internal/facts"
	"github.com/aoiro-dev/aoiro/internal/importer"
	"github.com/aoiro-dev/aoiro/internal/journal"
	"github.com/aoiro-dev/aoiro/internal/model"
	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

// app carries the shared CLI state: flags, configuration and lazily
// opened services. Commands call setup() in their RunE before using it.
type app struct {
	configPath string
	dbPath     string
	year       int
	verbose    bool

	cfg     *config.Config
	db      *database.DB
	log     zerolog.Logger
	catalog *accounts.Service
	ledger  *journal.Service

	consts  *taxconst.Constants
	factSvc *facts.Service
	assets  *depreciation.Service
	imports *importer.Service
}

// setup resolves configuration, opens the database and builds the core
// services. Idempotent.
func (a *app) setup() error {
	if a.db != nil {
		return nil
	}

	level := zerolog.WarnLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	path := a.dbPath
	if path == "" {
		path = cfg.Database.Path
	}
	db, err := database.Init(path)
	if err != nil {
		return err
	}
	a.db = db

	a.catalog = accounts.NewMasterService()
	if err := a.catalog.Seed(db.Conn()); err != nil {
		db.Close()
		a.db = nil
		return err
	}
	a.ledger = journal.NewService(db, a.catalog, a.log)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

// fiscalYear resolves the effective year: --year flag, then config, then
// the calendar year.
func (a *app) fiscalYear() int {
	if a.year != 0 {
		return a.year
	}
	if a.cfg != nil && a.cfg.Filing.FiscalYear != 0 {
		return a.cfg.Filing.FiscalYear
	}
	return time.Now().Year()
}

func (a *app) constants() (*taxconst.Constants, error) {
	if a.consts == nil {
		c, err := taxconst.Load(a.fiscalYear())
		if err != nil {
			return nil, err
		}
		a.consts = c
	}
	return a.consts, nil
}

func (a *app) factsService() (*facts.Service, error) {
	if a.factSvc == nil {
		c, err := a.constants()
		if err != nil {
			return nil, err
		}
		a.factSvc = facts.NewService(a.db, a.ledger, c, a.log)
	}
	return a.factSvc, nil
}

func (a *app) assetService() (*depreciation.Service, error) {
	if a.assets == nil {
		c, err := a.constants()
		if err != nil {
			return nil, err
		}
		a.assets = depreciation.NewService(a.db, a.ledger, c, a.log)
	}
	return a.assets, nil
}

func (a *app) importService() *importer.Service {
	if a.imports == nil {
		a.imports = importer.NewService(a.db, importer.DefaultRegistry(), a.log)
	}
	return a.imports
}

// profile maps the configuration onto the fact aggregator's taxpayer
// profile.
func (a *app) profile() facts.Profile {
	return facts.Profile{
		BlueReturnDeduction:    a.cfg.Filing.BlueReturnDeduction,
		WidowStatus:            a.cfg.Taxpayer.WidowStatus,
		Disability:             disabilityFromConfig(a.cfg.Taxpayer.Disability),
		WorkingStudent:         a.cfg.Taxpayer.WorkingStudent,
		SelfMedicationEligible: a.cfg.Filing.SelfMedicationEligible,
		EstimatedTaxPaid:       a.cfg.Filing.EstimatedTaxPaid,
	}
}

func disabilityFromConfig(s string) model.DisabilityStatus {
	switch s {
	case "general", "special", "special_cohabiting":
		return model.DisabilityStatus(s)
	}
	return model.DisabilityNone
}

// emitOK writes the success envelope to stdout: the payload's fields with
// status: ok spliced in. Non-object payloads go under "result".
func emitOK(cmd *cobra.Command, payload any) error {
	m := map[string]any{}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		if err := json.Unmarshal(b, &m); err != nil {
			m = map[string]any{"result": json.RawMessage(b)}
		}
	}
	m["status"] = "ok"
	return writeJSON(cmd.OutOrStdout(), m)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Exit codes per the error taxonomy: validation and configuration
// problems are the caller's fault, everything else is a system failure.
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitSystem     = 2
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ve *journal.ValidationError
	var nf *journal.NotFoundError
	var cnf *taxconst.ConstantsNotFoundError
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &cnf) {
		return ExitValidation
	}
	return ExitSystem
}

// WriteError writes the error envelope to w.
func WriteError(w io.Writer, err error) {
	kind := "system"
	var ve *journal.ValidationError
	var nf *journal.NotFoundError
	var cnf *taxconst.ConstantsNotFoundError
	switch {
	case errors.As(err, &ve):
		kind = string(ve.Kind)
	case errors.As(err, &nf):
		kind = "not_found"
	case errors.As(err, &cnf):
		kind = "constants_not_found"
	}
	_ = writeJSON(w, map[string]any{
		"status":  "error",
		"kind":    kind,
		"message": err.Error(),
	})
}
