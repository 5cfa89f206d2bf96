package model

// DepreciationMethod selects how a fixed asset is written off.
type DepreciationMethod string

const (
	MethodStraightLine     DepreciationMethod = "straight_line"
	MethodDecliningBalance DepreciationMethod = "declining_balance"
)

// FixedAsset is a depreciable asset on the register.
// AccumulatedDepreciation never exceeds AcquisitionCost; declining-balance
// assets retain a 1 yen memo value until disposal.
type FixedAsset struct {
	ID                      int64              `json:"id"`
	FiscalYear              int                `json:"fiscal_year"` // year of acquisition
	Name                    string             `json:"name"`
	AcquisitionDate         string             `json:"acquisition_date"` // YYYY-MM-DD
	AcquisitionCost         int64              `json:"acquisition_cost"`
	Method                  DepreciationMethod `json:"method"`
	UsefulLife              int                `json:"useful_life"`
	BusinessUseRatio        int                `json:"business_use_ratio"` // percent, 1..100
	AccumulatedDepreciation int64              `json:"accumulated_depreciation"`
	Disposed                bool               `json:"disposed,omitempty"`
}

// BookValue is the undepreciated remainder of the acquisition cost.
func (a FixedAsset) BookValue() int64 {
	return a.AcquisitionCost - a.AccumulatedDepreciation
}
