package depreciation

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aoiro-dev/aoiro/internal/database"
	"github.com/aoiro-dev/aoiro/internal/journal"
	"github.com/aoiro-dev/aoiro/internal/model"
	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

const (
	expenseAccountCode     = "5110" // 減価償却費
	accumulatedAccountCode = "1190" // 減価償却累計額
)

// Service maintains the fixed asset register.
type Service struct {
	db      *database.DB
	journal *journal.Service
	c       *taxconst.Constants
	log     zerolog.Logger
}

// NewService returns a register backed by the given database, posting its
// yearly adjustment entries through the journal service.
func NewService(db *database.DB, js *journal.Service, c *taxconst.Constants, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		journal: js,
		c:       c,
		log:     logger.With().Str("component", "depreciation").Logger(),
	}
}

func validateAsset(a model.FixedAsset) error {
	if a.Name == "" {
		return errors.New("asset name is required")
	}
	if a.AcquisitionCost <= 0 {
		return fmt.Errorf("acquisition cost must be positive, got %d", a.AcquisitionCost)
	}
	if a.UsefulLife <= 0 {
		return fmt.Errorf("useful life must be positive, got %d", a.UsefulLife)
	}
	if a.BusinessUseRatio < 1 || a.BusinessUseRatio > 100 {
		return fmt.Errorf("business use ratio must be 1..100, got %d", a.BusinessUseRatio)
	}
	if a.Method != model.MethodStraightLine && a.Method != model.MethodDecliningBalance {
		return fmt.Errorf("unknown depreciation method %q", a.Method)
	}
	if _, _, err := acquisitionYearMonth(a.AcquisitionDate); err != nil {
		return err
	}
	return nil
}

// AddAsset registers a depreciable asset and returns its id.
func (s *Service) AddAsset(a model.FixedAsset) (int64, error) {
	if err := validateAsset(a); err != nil {
		return 0, err
	}
	res, err := s.db.Conn().Exec(`
		INSERT INTO fixed_assets
			(fiscal_year, name, acquisition_date, acquisition_cost, method,
			 useful_life, business_use_ratio, accumulated_depreciation, disposed)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0)`,
		a.FiscalYear, a.Name, a.AcquisitionDate, a.AcquisitionCost,
		string(a.Method), a.UsefulLife, a.BusinessUseRatio)
	if err != nil {
		return 0, fmt.Errorf("insert fixed asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert fixed asset: %w", err)
	}
	s.log.Info().Int64("asset_id", id).Str("name", a.Name).
		Int64("cost", a.AcquisitionCost).Msg("asset registered")
	return id, nil
}

// GetAsset loads one asset by id.
func (s *Service) GetAsset(id int64) (model.FixedAsset, error) {
	row := s.db.Conn().QueryRow(`
		SELECT id, fiscal_year, name, acquisition_date, acquisition_cost,
		       method, useful_life, business_use_ratio,
		       accumulated_depreciation, disposed
		FROM fixed_assets WHERE id = ?`, id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FixedAsset{}, &journal.NotFoundError{What: "fixed asset", ID: id}
	}
	return a, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (model.FixedAsset, error) {
	var a model.FixedAsset
	var method string
	var disposed int
	err := row.Scan(&a.ID, &a.FiscalYear, &a.Name, &a.AcquisitionDate,
		&a.AcquisitionCost, &method, &a.UsefulLife, &a.BusinessUseRatio,
		&a.AccumulatedDepreciation, &disposed)
	if err != nil {
		return model.FixedAsset{}, err
	}
	a.Method = model.DepreciationMethod(method)
	a.Disposed = disposed != 0
	return a, nil
}

// ListAssets returns the assets acquired in or before the fiscal year,
// disposed ones excluded.
func (s *Service) ListAssets(year int) ([]model.FixedAsset, error) {
	rows, err := s.db.Conn().Query(`
		SELECT id, fiscal_year, name, acquisition_date, acquisition_cost,
		       method, useful_life, business_use_ratio,
		       accumulated_depreciation, disposed
		FROM fixed_assets
		WHERE fiscal_year <= ? AND disposed = 0
		ORDER BY id`, year)
	if err != nil {
		return nil, fmt.Errorf("list fixed assets: %w", err)
	}
	defer rows.Close()

	var assets []model.FixedAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("list fixed assets: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// DeleteAsset removes an asset from the register.
func (s *Service) DeleteAsset(id int64) error {
	res, err := s.db.Conn().Exec("DELETE FROM fixed_assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete fixed asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &journal.NotFoundError{What: "fixed asset", ID: id}
	}
	return nil
}

// DisposeAsset marks an asset disposed so later runs skip it.
func (s *Service) DisposeAsset(id int64) error {
	res, err := s.db.Conn().Exec("UPDATE fixed_assets SET disposed = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("dispose fixed asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &journal.NotFoundError{What: "fixed asset", ID: id}
	}
	return nil
}

// AssetSchedule returns the simulated depreciation schedule of one asset
// through the given fiscal year.
func (s *Service) AssetSchedule(id int64, throughYear int) ([]YearAmount, error) {
	a, err := s.GetAsset(id)
	if err != nil {
		return nil, err
	}
	return Schedule(s.c, a, throughYear)
}

// AssetLine is one asset's contribution to a yearly depreciation run.
type AssetLine struct {
	AssetID int64  `json:"asset_id"`
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
}

// RunResult is the outcome of a yearly depreciation run.
type RunResult struct {
	FiscalYear int         `json:"fiscal_year"`
	Total      int64       `json:"total"`
	JournalID  int64       `json:"journal_id,omitempty"`
	Assets     []AssetLine `json:"assets"`
}

func (s *Service) computeYear(year int) (RunResult, map[int64]int64, error) {
	assets, err := s.ListAssets(year)
	if err != nil {
		return RunResult{}, nil, err
	}

	result := RunResult{FiscalYear: year}
	newAccumulated := make(map[int64]int64)

	for _, a := range assets {
		schedule, err := Schedule(s.c, a, year)
		if err != nil {
			return RunResult{}, nil, fmt.Errorf("asset %d (%s): %w", a.ID, a.Name, err)
		}
		if len(schedule) == 0 {
			continue
		}
		var accumulated int64
		for _, y := range schedule {
			accumulated += y.Amount
		}
		amount := schedule[len(schedule)-1].Amount
		if amount <= 0 {
			continue
		}
		result.Total += amount
		result.Assets = append(result.Assets, AssetLine{AssetID: a.ID, Name: a.Name, Amount: amount})
		newAccumulated[a.ID] = accumulated
	}
	return result, newAccumulated, nil
}

// PreviewYear computes the year's depreciation without posting anything.
func (s *Service) PreviewYear(year int) (RunResult, error) {
	result, _, err := s.computeYear(year)
	return result, err
}

// RunYear computes every asset's depreciation for the fiscal year, posts
// one aggregate adjustment entry (減価償却費 / 減価償却累計額) and brings the
// register's accumulated amounts up to date. Posting goes through the
// regular journal validation, so a second run for the same year is
// rejected as an exact duplicate.
func (s *Service) RunYear(year int) (RunResult, error) {
	result, newAccumulated, err := s.computeYear(year)
	if err != nil {
		return RunResult{}, err
	}

	if result.Total == 0 {
		s.log.Info().Int("fiscal_year", year).Msg("no depreciation to post")
		return result, nil
	}

	journalID, _, err := s.journal.AddEntry(model.JournalEntry{
		FiscalYear:   year,
		Date:         fmt.Sprintf("%d-12-31", year),
		Description:  fmt.Sprintf("減価償却費（%d年分）", year),
		Source:       "depreciation",
		IsAdjustment: true,
		Lines: []model.JournalLine{
			{Side: model.SideDebit, AccountCode: expenseAccountCode, Amount: result.Total},
			{Side: model.SideCredit, AccountCode: accumulatedAccountCode, Amount: result.Total},
		},
	}, false)
	if err != nil {
		return RunResult{}, fmt.Errorf("post depreciation entry: %w", err)
	}
	result.JournalID = journalID

	for id, accumulated := range newAccumulated {
		if _, err := s.db.Conn().Exec(
			"UPDATE fixed_assets SET accumulated_depreciation = ? WHERE id = ?",
			accumulated, id); err != nil {
			return RunResult{}, fmt.Errorf("update accumulated depreciation: %w", err)
		}
	}

	s.log.Info().Int("fiscal_year", year).Int64("total", result.Total).
		Int64("journal_id", journalID).Int("assets", len(result.Assets)).
		Msg("depreciation posted")
	return result, nil
}
