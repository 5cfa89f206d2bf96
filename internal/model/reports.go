package model

// TrialBalanceAccount is one row of the trial balance.
type TrialBalanceAccount struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	Category    string `json:"category"`
	DebitTotal  int64  `json:"debit_total"`
	CreditTotal int64  `json:"credit_total"`
	Balance     int64  `json:"balance"`
}

// TrialBalance aggregates all postings in a fiscal year per account.
// A Diagnostic is present when the grand totals disagree, which can only
// happen through storage corruption; it is reported, never reconciled.
type TrialBalance struct {
	FiscalYear  int                   `json:"fiscal_year"`
	Accounts    []TrialBalanceAccount `json:"accounts"`
	TotalDebit  int64                 `json:"total_debit"`
	TotalCredit int64                 `json:"total_credit"`
	Diagnostic  string                `json:"diagnostic,omitempty"`
}

// ReportItem is one account line of a P&L or balance sheet.
type ReportItem struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	Amount      int64  `json:"amount"`
}

// ProfitAndLoss is the income statement for a fiscal year.
type ProfitAndLoss struct {
	FiscalYear   int          `json:"fiscal_year"`
	Revenues     []ReportItem `json:"revenues"`
	Expenses     []ReportItem `json:"expenses"`
	TotalRevenue int64        `json:"total_revenue"`
	TotalExpense int64        `json:"total_expense"`
	NetIncome    int64        `json:"net_income"`
}

// BalanceSheet is the statement of financial position. Net income of the
// unclosed year is folded into equity. When assets != liabilities + equity
// the gap is surfaced in Diagnostic (typically missing opening balances).
type BalanceSheet struct {
	FiscalYear       int          `json:"fiscal_year"`
	Assets           []ReportItem `json:"assets"`
	Liabilities      []ReportItem `json:"liabilities"`
	Equity           []ReportItem `json:"equity"`
	TotalAssets      int64        `json:"total_assets"`
	TotalLiabilities int64        `json:"total_liabilities"`
	TotalEquity      int64        `json:"total_equity"`
	NetIncome        int64        `json:"net_income"`
	Diagnostic       string       `json:"diagnostic,omitempty"`
}
