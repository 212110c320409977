package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/repository"
)

type FinanceHandler struct {
	Repo repository.FinanceRepository
}

func (h FinanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/finance", h.ledger)
	r.Get("/finance/summary", h.summary)
	r.Get("/finance/projects", h.byProject)
	r.Get("/finance/export", h.export)
}

func (h FinanceHandler) filter(r *http.Request) (repository.LedgerFilter, error) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		return repository.LedgerFilter{}, fmt.Errorf("invalid from")
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		return repository.LedgerFilter{}, fmt.Errorf("invalid to")
	}
	if from != nil && to != nil && to.Before(*from) {
		return repository.LedgerFilter{}, fmt.Errorf("from must not be after to")
	}
	f := repository.LedgerFilter{From: from, To: to}
	switch status := r.URL.Query().Get("status"); domain.PaymentStatus(status) {
	case "":
	case domain.PaymentUnpaid, domain.PaymentPaid, domain.PaymentOverdue:
		f.Status = domain.PaymentStatus(status)
	default:
		return repository.LedgerFilter{}, fmt.Errorf("invalid status")
	}
	return f, nil
}

func (h FinanceHandler) ledger(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items := h.Repo.Ledger(r.Context(), f)
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, ledgerEntryPayload(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h FinanceHandler) summary(w http.ResponseWriter, r *http.Request) {
	s := h.Repo.Summary(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"totalCollected":   s.TotalCollected,
		"totalOutstanding": s.TotalOutstanding,
	})
}

func (h FinanceHandler) byProject(w http.ResponseWriter, r *http.Request) {
	cards := h.Repo.ByProject(r.Context())
	resp := make([]map[string]any, 0, len(cards))
	for _, c := range cards {
		milestones := make([]map[string]any, 0, len(c.Milestones))
		for _, e := range c.Milestones {
			milestones = append(milestones, ledgerEntryPayload(e))
		}
		resp = append(resp, map[string]any{
			"projectId":          c.ProjectID,
			"projectName":        c.ProjectName,
			"contractCode":       c.ContractCode,
			"clientName":         c.ClientName,
			"totalValue":         c.TotalValue,
			"collected":          c.Collected,
			"remaining":          c.Remaining,
			"collectionProgress": c.CollectionProgress,
			"balanced":           c.Balanced,
			"milestones":         milestones,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h FinanceHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	f, err := h.filter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items := h.Repo.Ledger(r.Context(), f)

	filenameSuffix := time.Now().Format("20060102_150405")
	if f.From != nil && f.To != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", *f.From, *f.To)
	}

	switch format {
	case "csv":
		data, err := exportLedgerCSV(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"thanh_toan_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportLedgerXLSX(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"thanh_toan_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func exportLedgerCSV(items []repository.LedgerEntry) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"contract_code", "project", "client", "milestone", "amount", "due_date", "status", "overdue"})
	for _, e := range items {
		_ = w.Write([]string{
			e.ContractCode,
			e.ProjectName,
			e.ClientName,
			e.Name,
			strconv.FormatInt(e.Amount, 10),
			e.DueDate.String(),
			string(e.Status),
			strconv.FormatBool(e.EffectiveOverdue),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportLedgerXLSX(items []repository.LedgerEntry) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Thanh toán"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Số HĐ", "Dự án", "Khách hàng", "Đợt", "Số tiền", "Hạn thu", "Trạng thái", "Quá hạn"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, e := range items {
		row := r + 2
		values := []any{
			e.ContractCode,
			e.ProjectName,
			e.ClientName,
			e.Name,
			e.Amount,
			e.DueDate.String(),
			string(e.Status),
			e.EffectiveOverdue,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "B", 30)
	_ = f.SetColWidth(sheet, "C", "C", 22)
	_ = f.SetColWidth(sheet, "D", "D", 26)
	_ = f.SetColWidth(sheet, "E", "E", 16)
	_ = f.SetColWidth(sheet, "F", "F", 12)
	_ = f.SetColWidth(sheet, "G", "G", 12)
	_ = f.SetColWidth(sheet, "H", "H", 10)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "H1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ledgerEntryPayload(e repository.LedgerEntry) map[string]any {
	return map[string]any{
		"projectId":        e.ProjectID,
		"projectName":      e.ProjectName,
		"contractCode":     e.ContractCode,
		"clientName":       e.ClientName,
		"milestoneId":      e.MilestoneID,
		"name":             e.Name,
		"amount":           e.Amount,
		"dueDate":          e.DueDate.String(),
		"status":           e.Status,
		"effectiveOverdue": e.EffectiveOverdue,
	}
}
