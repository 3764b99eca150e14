package ledger

import (
	"context"
	"fmt"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/telemetry"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XLSXContentType is the media type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxExportPages bounds how many backend pages a single export walks
const maxExportPages = 50

const vndNumberFormat = `#,##0 "₫"`

var debtColumns = []struct {
	header string
	width  float64
}{
	{"Mã công nợ", 26},
	{"Đối tượng", 32},
	{"Mã đơn hàng", 26},
	{"Tổng tiền", 20},
	{"Đã trả", 20},
	{"Còn lại", 20},
	{"Trạng thái", 18},
	{"Hạn thanh toán", 16},
	{"Ngày tạo", 16},
}

// ExportFileName returns the download name of a debt export
func ExportFileName(debtorType ledger.DebtorType) string {
	return fmt.Sprintf("Cong-no-%s.xlsx", debtorType)
}

// ExportDebts writes every debt matching filter to an XLSX workbook with a
// header row, VND formatted amounts and a totals row
func (s *Service) ExportDebts(ctx context.Context, debtorType ledger.DebtorType, filter ledger.DebtFilter) ([]byte, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "ExportDebts",
		telemetry.WithAttribute(telemetry.SpanAttrDebtorType, string(debtorType)))
	defer span.End()

	debts, err := s.collectDebts(ctx, debtorType, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	data, err := buildDebtWorkbook(debtorType, debts)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("build debt workbook: %w", err)
	}
	logger.Enrich(ctx, s.logger).Info("debts exported",
		zap.String("debtor_type", string(debtorType)),
		zap.Int("rows", len(debts)))
	telemetry.SetOK(span)
	return data, nil
}

func (s *Service) collectDebts(ctx context.Context, debtorType ledger.DebtorType, filter ledger.DebtFilter) ([]ledger.Debt, error) {
	filter = filter.Normalize()
	filter.Page = 1
	filter.Limit = ledger.MaxLimit

	var all []ledger.Debt
	for filter.Page <= maxExportPages {
		page, err := s.listDebts(ctx, debtorType, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) == 0 || filter.Page >= page.TotalPages {
			break
		}
		filter.Page++
	}
	return all, nil
}

func buildDebtWorkbook(debtorType ledger.DebtorType, debts []ledger.Debt) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cong no " + string(debtorType)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}
	numFmt := vndNumberFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt})
	if err != nil {
		return nil, err
	}

	for i, col := range debtColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.header); err != nil {
			return nil, err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", headerStyle); err != nil {
		return nil, err
	}

	total, paid, remaining := valueobject.Zero(), valueobject.Zero(), valueobject.Zero()
	for i, d := range debts {
		row := i + 2
		values := []any{
			d.ID,
			debtorLabel(d),
			d.OrderID,
			d.TotalAmount.Amount().InexactFloat64(),
			d.PaidAmount.Amount().InexactFloat64(),
			d.RemainingAmount.Amount().InexactFloat64(),
			d.Status.Label(),
			"",
			d.CreatedAt.Format("02/01/2006"),
		}
		if d.DueDate != nil {
			values[7] = d.DueDate.Format("02/01/2006")
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return nil, err
		}
		total = total.Add(d.TotalAmount)
		paid = paid.Add(d.PaidAmount)
		remaining = remaining.Add(d.RemainingAmount)
	}

	last := len(debts) + 1
	if len(debts) > 0 {
		if err := f.SetCellStyle(sheet, "D2", fmt.Sprintf("F%d", last), moneyStyle); err != nil {
			return nil, err
		}
	}

	totalRow := last + 1
	totals := []any{
		"Tổng cộng", "", "",
		total.Amount().InexactFloat64(),
		paid.Amount().InexactFloat64(),
		remaining.Amount().InexactFloat64(),
	}
	if err := setRow(f, sheet, totalRow, totals); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("F%d", totalRow), totalStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func debtorLabel(d ledger.Debt) string {
	if d.DebtorName != "" {
		return d.DebtorName
	}
	return d.DebtorID
}
