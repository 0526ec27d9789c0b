package services

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/sjperalta/fintera-schedule/internal/statemachine"
)

//go:embed templates/statement.html
var statementTemplateHTML string

var statementTemplate = template.Must(template.New("statement").Parse(statementTemplateHTML))

type statementRow struct {
	Label     string
	DueDate   string
	Scheduled string
	NeedToPay string
	Paid      string
	Shortage  string
	Overage   string
	DelayDays int
	Status    string
	Overdue   bool
}

type statementData struct {
	ContractID     uint
	ApplicantName  string
	LotName        string
	ProjectName    string
	Currency       string
	Today          string
	Rows           []statementRow
	TotalScheduled string
	TotalPaid      string
	RemainingDebt  string
	RemainingWords string
	OverdueSlots   int
}

// StatementService renders the account statement of a contract as a PDF.
type StatementService struct {
	scheduleSvc *ScheduleService
}

func NewStatementService(scheduleSvc *ScheduleService) *StatementService {
	return &StatementService{scheduleSvc: scheduleSvc}
}

// Generate builds the statement PDF for a contract. Requires the wkhtmltopdf
// binary on the host.
func (s *StatementService) Generate(ctx context.Context, contractID uint) (*bytes.Buffer, error) {
	cs, err := s.scheduleSvc.Compute(ctx, contractID)
	if err != nil {
		return nil, err
	}

	html, err := renderStatementHTML(cs)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationLandscape)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

func renderStatementHTML(cs *ContractSchedule) ([]byte, error) {
	summary := cs.Schedule.Summary
	data := statementData{
		ContractID:     cs.Contract.ID,
		ApplicantName:  cs.Contract.ApplicantName,
		LotName:        cs.Contract.LotName,
		ProjectName:    cs.Contract.ProjectName,
		Currency:       cs.Contract.Currency,
		Today:          cs.Today.Format("02/01/2006"),
		TotalScheduled: summary.TotalScheduled.StringFixed(2),
		TotalPaid:      summary.TotalPaid.StringFixed(2),
		RemainingDebt:  summary.RemainingDebt.StringFixed(2),
		RemainingWords: AmountInWords(summary.RemainingDebt, cs.Contract.Currency),
		OverdueSlots:   cs.Schedule.OverdueSlots(),
	}

	for _, slot := range cs.Schedule.Slots {
		status := statemachine.SlotStatus(slot)
		data.Rows = append(data.Rows, statementRow{
			Label:     slotLabel(slot),
			DueDate:   slot.DueDate.Format("02/01/2006"),
			Scheduled: slot.ScheduledAmount.StringFixed(2),
			NeedToPay: slot.NeedToPay.StringFixed(2),
			Paid:      slot.ActualPaidAmount.StringFixed(2),
			Shortage:  slot.ShortageAmount.StringFixed(2),
			Overage:   slot.OverageCarriedForward.StringFixed(2),
			DelayDays: slot.DelayDays,
			Status:    slotStatusLabels[status],
			Overdue:   status == statemachine.SlotStateOverdue,
		})
	}

	var buf bytes.Buffer
	if err := statementTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}
