package accounts

import "github.com/aoiro-dev/aoiro/internal/model"

// MasterChart returns the static chart of accounts for a sole proprietor
// filing a blue return.
//
// Code scheme:
//
//	1xxx asset, 2xxx liability, 3xxx equity, 4xxx revenue, 5xxx expense
func MasterChart() []model.Account {
	return []model.Account{
		// 1xxx: assets
		{Code: "1001", Name: "現金", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1002", Name: "普通預金", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1003", Name: "当座預金", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1004", Name: "定期預金", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1010", Name: "売掛金", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1020", Name: "受取手形", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1030", Name: "棚卸資産", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1040", Name: "前払金", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1041", Name: "前払費用", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1050", Name: "立替金", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1060", Name: "仮払金", Category: model.CategoryAsset, SubCategory: "current_asset"},
		{Code: "1100", Name: "建物", Category: model.CategoryAsset, SubCategory: "fixed_asset"},
		{Code: "1110", Name: "建物附属設備", Category: model.CategoryAsset, SubCategory: "fixed_asset"},
		{Code: "1120", Name: "機械装置", Category: model.CategoryAsset, SubCategory: "fixed_asset"},
		{Code: "1130", Name: "車両運搬具", Category: model.CategoryAsset, SubCategory: "fixed_asset"},
		{Code: "1140", Name: "工具器具備品", Category: model.CategoryAsset, SubCategory: "fixed_asset"},
		{Code: "1150", Name: "一括償却資産", Category: model.CategoryAsset, SubCategory: "fixed_asset"},
		{Code: "1190", Name: "減価償却累計額", Category: model.CategoryAsset, SubCategory: "fixed_asset"},
		{Code: "1200", Name: "敷金・保証金", Category: model.CategoryAsset, SubCategory: "other_asset"},

		// 2xxx: liabilities
		{Code: "2001", Name: "買掛金", Category: model.CategoryLiability, SubCategory: "current_liability"},
		{Code: "2010", Name: "未払金", Category: model.CategoryLiability, SubCategory: "current_liability"},
		{Code: "2011", Name: "未払費用", Category: model.CategoryLiability, SubCategory: "current_liability"},
		{Code: "2020", Name: "預り金", Category: model.CategoryLiability, SubCategory: "current_liability"},
		{Code: "2030", Name: "前受金", Category: model.CategoryLiability, SubCategory: "current_liability"},
		{Code: "2040", Name: "短期借入金", Category: model.CategoryLiability, SubCategory: "current_liability"},
		{Code: "2100", Name: "長期借入金", Category: model.CategoryLiability, SubCategory: "long_term_liability"},

		// 3xxx: equity
		{Code: "3001", Name: "元入金", Category: model.CategoryEquity, SubCategory: "equity"},
		{Code: "3010", Name: "事業主貸", Category: model.CategoryEquity, SubCategory: "equity"},
		{Code: "3020", Name: "事業主借", Category: model.CategoryEquity, SubCategory: "equity"},

		// 4xxx: revenue
		{Code: "4001", Name: "売上高", Category: model.CategoryRevenue, SubCategory: "sales", TaxCategory: "taxable_sales_10"},
		{Code: "4010", Name: "雑収入", Category: model.CategoryRevenue, SubCategory: "other_revenue", TaxCategory: "taxable_sales_10"},
		{Code: "4020", Name: "家事消費等", Category: model.CategoryRevenue, SubCategory: "other_revenue", TaxCategory: "taxable_sales_10"},

		// 5xxx: expenses
		{Code: "5001", Name: "仕入高", Category: model.CategoryExpense, SubCategory: "cost_of_sales", TaxCategory: "taxable_purchase_10"},
		{Code: "5010", Name: "租税公課", Category: model.CategoryExpense, SubCategory: "operating_expense"},
		{Code: "5020", Name: "荷造運賃", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5030", Name: "水道光熱費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5040", Name: "旅費交通費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5050", Name: "通信費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5060", Name: "広告宣伝費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5070", Name: "接待交際費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5080", Name: "損害保険料", Category: model.CategoryExpense, SubCategory: "operating_expense"},
		{Code: "5090", Name: "修繕費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5100", Name: "消耗品費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5110", Name: "減価償却費", Category: model.CategoryExpense, SubCategory: "operating_expense"},
		{Code: "5120", Name: "福利厚生費", Category: model.CategoryExpense, SubCategory: "operating_expense"},
		{Code: "5130", Name: "給料賃金", Category: model.CategoryExpense, SubCategory: "operating_expense"},
		{Code: "5140", Name: "外注工賃", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5150", Name: "利子割引料", Category: model.CategoryExpense, SubCategory: "operating_expense"},
		{Code: "5160", Name: "地代家賃", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5170", Name: "貸倒金", Category: model.CategoryExpense, SubCategory: "operating_expense"},
		{Code: "5180", Name: "会議費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5190", Name: "新聞図書費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5200", Name: "支払手数料", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
		{Code: "5900", Name: "雑費", Category: model.CategoryExpense, SubCategory: "operating_expense", TaxCategory: "taxable_purchase_10"},
	}
}
