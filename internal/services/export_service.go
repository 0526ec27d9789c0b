package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-schedule/internal/schedule"
	"github.com/sjperalta/fintera-schedule/internal/statemachine"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
)

var slotStatusLabels = map[string]string{
	statemachine.SlotStateScheduled: "Programado",
	statemachine.SlotStateOverdue:   "En mora",
	statemachine.SlotStatePaid:      "Pagado",
	statemachine.SlotStatePaidLate:  "Pagado con atraso",
	statemachine.SlotStatePartial:   "Pago parcial",
	statemachine.SlotStateOverpaid:  "Pago en exceso",
}

var scheduleColumns = []string{
	"Cuota", "Vencimiento", "Monto", "A pagar", "Pagado", "Faltante", "Excedente", "Días de atraso", "Estado",
}

// Export is a rendered report ready to be served.
type Export struct {
	Data        []byte
	Filename    string
	ContentType string
}

type ExportService struct {
	scheduleSvc *ScheduleService
}

func NewExportService(scheduleSvc *ScheduleService) *ExportService {
	return &ExportService{scheduleSvc: scheduleSvc}
}

// ExportSchedule renders a contract's reconciled schedule in the given format.
func (s *ExportService) ExportSchedule(ctx context.Context, contractID uint, format string) (*Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatPDF {
		return nil, fmt.Errorf("%w: formato de exportación no soportado %q", ErrInvalidInput, format)
	}

	cs, err := s.scheduleSvc.Compute(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if format == ExportFormatPDF {
		data, filename, err := s.ExportPDF(ctx, cs)
		if err != nil {
			return nil, err
		}
		return &Export{Data: data, Filename: filename, ContentType: "application/pdf"}, nil
	}

	data, filename, err := s.ExportXLSX(ctx, cs)
	if err != nil {
		return nil, err
	}
	return &Export{
		Data:        data,
		Filename:    filename,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, cs *ContractSchedule) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Plan de pagos"
	_ = f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	overdueStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#B00020"},
	})

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Plan de pagos - Contrato #%d", cs.Contract.ID))
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	_ = f.SetCellValue(sheet, "A2", cs.Contract.ApplicantName)
	_ = f.SetCellValue(sheet, "A3", "Fecha de corte")
	_ = f.SetCellValue(sheet, "B3", cs.Today.Format("02/01/2006"))

	const headerRow = 5
	for i, col := range scheduleColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheet, cell, col)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(scheduleColumns), headerRow)
	_ = f.SetCellStyle(sheet, "A5", lastHeader, headerStyle)

	row := headerRow + 1
	for _, slot := range cs.Schedule.Slots {
		status := statemachine.SlotStatus(slot)
		values := []interface{}{
			slotLabel(slot),
			slot.DueDate.Format("02/01/2006"),
			amountFloat(slot.ScheduledAmount),
			amountFloat(slot.NeedToPay),
			amountFloat(slot.ActualPaidAmount),
			amountFloat(slot.ShortageAmount),
			amountFloat(slot.OverageCarriedForward),
			slot.DelayDays,
			slotStatusLabels[status],
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetSheetRow(sheet, cell, &values)
		if status == statemachine.SlotStateOverdue {
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			_ = f.SetCellStyle(sheet, cell, last, overdueStyle)
		}
		row++
	}

	summary := cs.Schedule.Summary
	row++
	for _, line := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Total programado", summary.TotalScheduled},
		{"Total pagado", summary.TotalPaid},
		{"Saldo pendiente", summary.RemainingDebt},
	} {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, labelCell, line.label)
		_ = f.SetCellValue(sheet, valueCell, amountFloat(line.amount))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "H", 14)
	_ = f.SetColWidth(sheet, "I", "I", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("plan_de_pagos_%d_%s.xlsx", cs.Contract.ID, cs.Today.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportPDF(ctx context.Context, cs *ContractSchedule) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Plan de pagos - Contrato #%d", cs.Contract.ID)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(cs.Contract.ApplicantName))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr("Fecha de corte: "+cs.Today.Format("02/01/2006")))
	pdf.Ln(10)

	widths := []float64{22, 28, 28, 28, 28, 28, 28, 30, 40}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(224, 224, 224)
	for i, col := range scheduleColumns {
		pdf.CellFormat(widths[i], 7, tr(col), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, slot := range cs.Schedule.Slots {
		status := statemachine.SlotStatus(slot)
		if status == statemachine.SlotStateOverdue {
			pdf.SetTextColor(176, 0, 32)
		}
		cells := []string{
			slotLabel(slot),
			slot.DueDate.Format("02/01/2006"),
			slot.ScheduledAmount.StringFixed(2),
			slot.NeedToPay.StringFixed(2),
			slot.ActualPaidAmount.StringFixed(2),
			slot.ShortageAmount.StringFixed(2),
			slot.OverageCarriedForward.StringFixed(2),
			fmt.Sprintf("%d", slot.DelayDays),
			slotStatusLabels[status],
		}
		for i, v := range cells {
			align := "R"
			if i == 0 || i == 1 || i == len(cells)-1 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}

	summary := cs.Schedule.Summary
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	for _, line := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Total programado:", summary.TotalScheduled},
		{"Total pagado:", summary.TotalPaid},
		{"Saldo pendiente:", summary.RemainingDebt},
	} {
		pdf.Cell(50, 6, tr(line.label))
		pdf.Cell(40, 6, fmt.Sprintf("%s %s", line.amount.StringFixed(2), cs.Contract.Currency))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("plan_de_pagos_%d_%s.pdf", cs.Contract.ID, cs.Today.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func slotLabel(slot schedule.ScheduleSlot) string {
	if slot.IsInitial {
		return "Prima"
	}
	return fmt.Sprintf("%d", slot.Index)
}

// amountFloat is for spreadsheet cells only; totals are computed in decimal.
func amountFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
