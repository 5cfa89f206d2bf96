package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoiro-dev/aoiro/internal/model"
)

func TestAssemble(t *testing.T) {
	svc, js := newTestService(t)

	_, _, err := js.AddEntry(model.JournalEntry{
		FiscalYear: 2025, Date: "2025-05-20", Description: "請求書 2025-05",
		Lines: []model.JournalLine{
			{Side: model.SideDebit, AccountCode: "1002", Amount: 3000000},
			{Side: model.SideCredit, AccountCode: "4001", Amount: 3000000},
		},
	}, false)
	require.NoError(t, err)
	_, _, err = js.AddEntry(model.JournalEntry{
		FiscalYear: 2025, Date: "2025-06-01", Description: "事務所家賃",
		Lines: []model.JournalLine{
			{Side: model.SideDebit, AccountCode: "5160", Amount: 1200000},
			{Side: model.SideCredit, AccountCode: "1002", Amount: 1200000},
		},
	}, false)
	require.NoError(t, err)

	_, err = svc.AddWithholdingSlip(model.WithholdingSlip{
		FiscalYear: 2025, PayerName: "株式会社XYZ",
		PaymentAmount: 6000000, WithheldTax: 466800, SocialInsurance: 900000,
	})
	require.NoError(t, err)

	_, err = svc.AddInsurance(model.InsurancePremium{
		FiscalYear: 2025, Kind: model.InsuranceSocial, Amount: 300000,
	})
	require.NoError(t, err)
	_, err = svc.AddInsurance(model.InsurancePremium{
		FiscalYear: 2025, Kind: model.InsuranceLifeNew, Amount: 80000,
	})
	require.NoError(t, err)
	_, err = svc.AddInsurance(model.InsurancePremium{
		FiscalYear: 2025, Kind: model.InsuranceIdeco, Amount: 276000,
	})
	require.NoError(t, err)

	_, err = svc.AddMedicalExpense(model.MedicalExpense{
		FiscalYear: 2025, Amount: 150000, InsuranceReimbursement: 50000,
	})
	require.NoError(t, err)
	_, err = svc.AddMedicalExpense(model.MedicalExpense{
		FiscalYear: 2025, Amount: 20000, InsuranceReimbursement: 30000,
	})
	require.NoError(t, err)

	_, err = svc.AddDonation(model.DonationRecord{
		FiscalYear: 2025, Donee: "北海道東川町", Type: model.DonationFurusato, Amount: 50000,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetSpouse(model.Spouse{FiscalYear: 2025, Name: "花子", Income: 0}))
	_, err = svc.AddDependent(model.Dependent{
		FiscalYear: 2025, Name: "太郎", BirthDate: "2008-04-01",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetHousingLoan(model.HousingLoanDetail{
		FiscalYear: 2025, HousingCategory: "certified", MoveInDate: "2024-03-01",
		YearEndBalance: 35000000, IsNewConstruction: true,
	}))

	_, err = svc.AddBusinessWithholding(model.BusinessWithholding{
		FiscalYear: 2025, ClientName: "株式会社ABC", GrossAmount: 1000000, WithholdingTax: 102100,
	})
	require.NoError(t, err)

	_, err = svc.AddLossCarryforward(model.LossCarryforward{
		FiscalYear: 2025, LossYear: 2023, Amount: 400000, UsedAmount: 100000,
	})
	require.NoError(t, err)

	in, err := svc.Assemble(2025, Profile{
		BlueReturnDeduction: 650000,
		EstimatedTaxPaid:    50000,
	})
	require.NoError(t, err)

	assert.Equal(t, 2025, in.FiscalYear)
	assert.Equal(t, int64(3000000), in.BusinessRevenue)
	assert.Equal(t, int64(1200000), in.BusinessExpenses)
	assert.Equal(t, int64(650000), in.BlueReturnDeduction)

	assert.Equal(t, int64(6000000), in.Salary)
	assert.Equal(t, int64(466800), in.WithheldTax)
	// Slip social insurance plus the declared premium.
	assert.Equal(t, int64(1200000), in.SocialInsurance)

	assert.Equal(t, int64(80000), in.LifeInsurance.GeneralNew)
	assert.Equal(t, int64(276000), in.IdecoContribution)

	// Receipts net of reimbursement, never negative per receipt.
	assert.Equal(t, int64(100000), in.MedicalExpenses)

	require.Len(t, in.Donations, 1)
	assert.Equal(t, model.DonationFurusato, in.Donations[0].Type)

	require.NotNil(t, in.Spouse)
	assert.Equal(t, "花子", in.Spouse.Name)
	require.Len(t, in.Dependents, 1)

	require.NotNil(t, in.HousingLoanDetail)
	assert.Equal(t, int64(35000000), in.HousingLoanBalance)

	assert.Equal(t, int64(102100), in.BusinessWithheld)
	assert.Equal(t, int64(300000), in.LossCarryforward)
	assert.Equal(t, int64(50000), in.EstimatedTaxPaid)
}

func TestAssembleEmptyYear(t *testing.T) {
	svc, _ := newTestService(t)

	in, err := svc.Assemble(2025, Profile{BlueReturnDeduction: 650000})
	require.NoError(t, err)

	assert.Zero(t, in.BusinessRevenue)
	assert.Zero(t, in.Salary)
	assert.Nil(t, in.Spouse)
	assert.Nil(t, in.HousingLoanDetail)
	assert.Empty(t, in.Dependents)
}
