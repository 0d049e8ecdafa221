// backend/src/handlers/audit_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/security/validation"
	"github.com/openaudit/backend/src/services"
	"github.com/openaudit/backend/src/utils"
)

type AuditHandler struct {
	auditService   services.AuditService
	historyService services.HistoryService
}

func NewAuditHandler(auditService services.AuditService, historyService services.HistoryService) *AuditHandler {
	return &AuditHandler{
		auditService:   auditService,
		historyService: historyService,
	}
}

// companyDataFromForm reads the audit metadata form fields, applying the
// defaults used when the caller omits them.
func companyDataFromForm(r *http.Request) (models.CompanyData, error) {
	var data models.CompanyData

	data.CompanyName = validation.StripUnprintable(validation.SanitizeText(strings.TrimSpace(r.FormValue("company_name"))))
	if err := validation.ValidateCompanyName(data.CompanyName); err != nil {
		return data, err
	}
	if err := validation.CheckXSSPatterns(data.CompanyName, "company_name"); err != nil {
		return data, err
	}

	data.Industry = validation.SanitizeText(strings.TrimSpace(r.FormValue("industry")))
	data.CompanySize = validation.SanitizeText(strings.TrimSpace(r.FormValue("company_size")))
	data.Location = validation.SanitizeText(strings.TrimSpace(r.FormValue("location")))

	fiscalYear, err := validation.ValidateFiscalYear(r.FormValue("fiscal_year"))
	if err != nil {
		return data, err
	}
	data.FiscalYear = fiscalYear

	data.AccountingStandards = strings.TrimSpace(r.FormValue("accounting_standards"))
	if data.AccountingStandards == "" {
		data.AccountingStandards = "IFRS"
	}
	data.RegulatoryFramework = strings.TrimSpace(r.FormValue("regulatory_framework"))
	if data.RegulatoryFramework == "" {
		data.RegulatoryFramework = "India"
	}

	data.UserID = strings.TrimSpace(r.FormValue("user_id"))
	if data.UserID != "" {
		if err := validation.ValidateUserID(data.UserID); err != nil {
			return data, err
		}
	}
	return data, nil
}

func (h *AuditHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	files, _, err := collectUploadedFiles(r)
	if err != nil {
		ctxLogger.Warn("Audit upload collection failed", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	company, err := companyDataFromForm(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.auditService.RunAudit(r.Context(), files, company)
	if err != nil {
		ctxLogger.Warn("Audit failed", "company", company.CompanyName, "error", err)
		utils.SendJSONError(w, err.Error(), analysisErrorStatus(err))
		return
	}

	ctxLogger.Info("Audit completed",
		"company", company.CompanyName,
		"files", len(files),
		"auditID", result.ID,
		"overallRisk", result.AuditReport.RiskAssessment.OverallRiskLevel)
	utils.SendJSON(w, http.StatusOK, result)
}

func (h *AuditHandler) HandleAuditHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := validation.ValidateUserID(userID); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.historyService.GetCompanyHistory(userID)
	if err != nil {
		logger.L.Error("Failed to load audit history", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to load audit history", http.StatusInternalServerError)
		return
	}

	// The audit history listing is compact: identity, company, and headline
	// figures rather than the full stored report.
	summaries := make([]map[string]any, 0, len(records))
	for _, record := range records {
		summary := map[string]any{
			"id":           record["id"],
			"company_name": record["company_name"],
			"audit_date":   record["audit_date"],
			"created_at":   record["created_at"],
		}
		if fin, ok := record["financial_summary"].(map[string]any); ok {
			summary["total_amount"] = fin["total_amount"]
			summary["total_transactions"] = fin["total_transactions"]
		}
		if report, ok := record["audit_report"].(map[string]any); ok {
			if risk, ok := report["risk_assessment"].(map[string]any); ok {
				summary["overall_risk_level"] = risk["overall_risk_level"]
			}
			if auditSummary, ok := report["audit_summary"].(map[string]any); ok {
				summary["overall_status"] = auditSummary["overall_status"]
			}
		}
		summaries = append(summaries, summary)
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"audits":  summaries,
		"count":   len(summaries),
	})
}

func (h *AuditHandler) HandleAuditReport(w http.ResponseWriter, r *http.Request) {
	auditID := chi.URLParam(r, "auditID")

	record, err := h.historyService.GetAnalysisByID(auditID)
	if err != nil {
		if errors.Is(err, services.ErrAnalysisNotFound) {
			utils.SendJSONError(w, "Audit report not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load audit report", "auditID", auditID, "error", err)
		utils.SendJSONError(w, "Failed to load audit report", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, record)
}
