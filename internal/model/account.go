package model

// AccountCategory classifies accounts in the chart of accounts.
type AccountCategory string

const (
	CategoryAsset     AccountCategory = "asset"
	CategoryLiability AccountCategory = "liability"
	CategoryEquity    AccountCategory = "equity"
	CategoryRevenue   AccountCategory = "revenue"
	CategoryExpense   AccountCategory = "expense"
)

// Side is the posting side of a journal line.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// NormalSide returns the side on which an account category carries its
// normal balance. Assets and expenses grow on the debit side; liabilities,
// equity and revenue grow on the credit side.
func NormalSide(c AccountCategory) Side {
	switch c {
	case CategoryAsset, CategoryExpense:
		return SideDebit
	case CategoryLiability, CategoryEquity, CategoryRevenue:
		return SideCredit
	default:
		// Unknown categories never enter the catalog; treat as debit-normal
		// so a corrupt row surfaces as a trial-balance diagnostic.
		return SideDebit
	}
}

// Account represents one row of the static chart of accounts.
type Account struct {
	Code        string
	Name        string
	Category    AccountCategory
	SubCategory string
	TaxCategory string // consumption-tax classification, empty if untagged
}
