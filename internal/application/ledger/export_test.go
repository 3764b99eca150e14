package ledger_test

import (
	"bytes"
	"context"
	"testing"

	ledgerapp "github.com/dms/backend/internal/application/ledger"
	"github.com/dms/backend/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestService_ExportDebts(t *testing.T) {
	f := newFixture(t)
	due := fixedNow.AddDate(0, 1, 0)

	first := ledger.NewPage([]ledger.Debt{
		{ID: "d1", DebtorName: "Nguyễn Văn A", OrderID: "o1", TotalAmount: money(1_000_000_000), PaidAmount: money(200_000_000), DueDate: &due, CreatedAt: fixedNow},
	}, 2, 1, ledger.MaxLimit)
	first.TotalPages = 2
	second := ledger.NewPage([]ledger.Debt{
		{ID: "d2", DebtorID: "cust-2", TotalAmount: money(500_000_000), PaidAmount: money(500_000_000), CreatedAt: fixedNow},
	}, 2, 2, ledger.MaxLimit)
	second.TotalPages = 2

	f.ledger.On("ListDebts", mock.Anything, ledger.DebtorCustomer, mock.MatchedBy(func(fl ledger.DebtFilter) bool {
		return fl.Page == 1 && fl.Limit == ledger.MaxLimit
	})).Return(first, nil).Once()
	f.ledger.On("ListDebts", mock.Anything, ledger.DebtorCustomer, mock.MatchedBy(func(fl ledger.DebtFilter) bool {
		return fl.Page == 2
	})).Return(second, nil).Once()

	data, err := f.svc.ExportDebts(context.Background(), ledger.DebtorCustomer, ledger.DebtFilter{Page: 3, Limit: 5})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	assert.Equal(t, "Cong no customer", sheet)
	rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Mã công nợ", rows[0][0])
	assert.Equal(t, "Còn lại", rows[0][5])

	assert.Equal(t, "d1", rows[1][0])
	assert.Equal(t, "Nguyễn Văn A", rows[1][1])
	assert.Equal(t, "800000000", rows[1][5])
	assert.Equal(t, "Đã trả một phần", rows[1][6])
	assert.Equal(t, "07/04/2026", rows[1][7])

	assert.Equal(t, "cust-2", rows[2][1])
	assert.Equal(t, "Đã tất toán", rows[2][6])

	assert.Equal(t, "Tổng cộng", rows[3][0])
	assert.Equal(t, "1500000000", rows[3][3])
	assert.Equal(t, "700000000", rows[3][4])
	assert.Equal(t, "800000000", rows[3][5])

	styleID, err := wb.GetCellStyle(sheet, "D2")
	require.NoError(t, err)
	style, err := wb.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.CustomNumFmt)
	assert.Contains(t, *style.CustomNumFmt, "#,##0")
}

func TestService_ExportDebts_Empty(t *testing.T) {
	f := newFixture(t)
	f.ledger.On("ListDebts", mock.Anything, ledger.DebtorManufacturer, mock.Anything).
		Return(ledger.NewPage[ledger.Debt](nil, 0, 1, ledger.MaxLimit), nil).Once()

	data, err := f.svc.ExportDebts(context.Background(), ledger.DebtorManufacturer, ledger.DebtFilter{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(wb.GetSheetName(0), excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tổng cộng", rows[1][0])
	assert.Equal(t, "0", rows[1][3])
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Cong-no-customer.xlsx", ledgerapp.ExportFileName(ledger.DebtorCustomer))
}
