// backend/src/handlers/analysis_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/security/validation"
	"github.com/openaudit/backend/src/services"
	"github.com/openaudit/backend/src/utils"
)

type AnalysisHandler struct {
	analysisService   services.AnalysisService
	nlgService        services.NLGService
	suggestionService services.SuggestionService
	historyService    services.HistoryService
}

func NewAnalysisHandler(
	analysisService services.AnalysisService,
	nlgService services.NLGService,
	suggestionService services.SuggestionService,
	historyService services.HistoryService,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService:   analysisService,
		nlgService:        nlgService,
		suggestionService: suggestionService,
		historyService:    historyService,
	}
}

// analysisErrorStatus maps pipeline sentinel errors to HTTP status codes.
func analysisErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNoFilesProvided),
		errors.Is(err, services.ErrUserIDRequired),
		errors.Is(err, services.ErrNoValidTransactions):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrAnalysisNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *AnalysisHandler) analyze(w http.ResponseWriter, r *http.Request, accountType string) {
	ctxLogger := logger.FromContext(r.Context())

	files, notes, err := collectUploadedFiles(r)
	if err != nil {
		ctxLogger.Warn("Upload collection failed", "accountType", accountType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID := strings.TrimSpace(r.FormValue("user_id"))
	if userID != "" {
		if err := validation.ValidateUserID(userID); err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	result, err := h.analysisService.AnalyzeBatch(r.Context(), files, userID, accountType)
	if err != nil {
		ctxLogger.Warn("Analysis failed", "accountType", accountType, "error", err)
		utils.SendJSONError(w, err.Error(), analysisErrorStatus(err))
		return
	}

	for _, note := range notes {
		result.FileWarnings = append(result.FileWarnings, models.FileIssues{Warnings: []string{note}})
	}

	ctxLogger.Info("Analysis completed",
		"accountType", accountType,
		"files", len(files),
		"transactions", result.TotalTransactions,
		"analysisID", result.ID)
	utils.SendJSON(w, http.StatusOK, result)
}

func (h *AnalysisHandler) HandlePersonalAnalyze(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, "personal")
}

func (h *AnalysisHandler) HandleCompanyAnalyze(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, "company")
}

func (h *AnalysisHandler) history(w http.ResponseWriter, r *http.Request, accountType string) {
	userID := chi.URLParam(r, "userID")
	if err := validation.ValidateUserID(userID); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.historyService.GetUserHistory(userID, accountType)
	if err != nil {
		logger.L.Error("Failed to load history", "userID", userID, "accountType", accountType, "error", err)
		utils.SendJSONError(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"history": records,
		"count":   len(records),
	})
}

func (h *AnalysisHandler) HandlePersonalHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, "personal")
}

func (h *AnalysisHandler) HandleCompanyHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, "company")
}

func (h *AnalysisHandler) HandleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	analysisID := chi.URLParam(r, "analysisID")
	if err := validation.ValidateUserID(userID); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.historyService.DeleteAnalysis(userID, analysisID)
	if err != nil {
		logger.L.Error("Failed to delete analysis", "userID", userID, "analysisID", analysisID, "error", err)
		utils.SendJSONError(w, "Failed to delete analysis", http.StatusInternalServerError)
		return
	}
	if !deleted {
		utils.SendJSONError(w, "Analysis not found", http.StatusNotFound)
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Analysis deleted"})
}

// decodeRecordSection re-materializes a typed struct from a stored payload map.
func decodeRecordSection(record map[string]any, key string, out any) error {
	section, ok := record[key]
	if !ok {
		return fmt.Errorf("record has no %s section", key)
	}
	raw, err := json.Marshal(section)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (h *AnalysisHandler) narrate(w http.ResponseWriter, analysisID string) {
	record, err := h.historyService.GetAnalysisByID(analysisID)
	if err != nil {
		if errors.Is(err, services.ErrAnalysisNotFound) {
			utils.SendJSONError(w, "Analysis not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load analysis for report", "analysisID", analysisID, "error", err)
		utils.SendJSONError(w, "Failed to load analysis", http.StatusInternalServerError)
		return
	}

	var insights models.Insights
	var smartScore models.SmartScore
	if err := decodeRecordSection(record, "insights", &insights); err != nil {
		logger.L.Warn("Stored analysis has no usable insights", "analysisID", analysisID, "error", err)
		utils.SendJSONError(w, "Stored analysis cannot be narrated", http.StatusUnprocessableEntity)
		return
	}
	if err := decodeRecordSection(record, "smart_score", &smartScore); err != nil {
		logger.L.Warn("Stored analysis has no usable smart score", "analysisID", analysisID, "error", err)
		utils.SendJSONError(w, "Stored analysis cannot be narrated", http.StatusUnprocessableEntity)
		return
	}

	report := h.nlgService.GenerateReport(insights, smartScore)
	utils.SendJSON(w, http.StatusOK, map[string]any{
		"analysis_id": analysisID,
		"report":      report,
	})
}

func (h *AnalysisHandler) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AnalysisID string              `json:"analysis_id"`
		Insights   *models.Insights    `json:"insights"`
		SmartScore *models.SmartScore  `json:"smart_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Either a stored analysis ID or inline insights can be narrated.
	if req.AnalysisID != "" {
		h.narrate(w, req.AnalysisID)
		return
	}
	if req.Insights == nil || req.SmartScore == nil {
		utils.SendJSONError(w, "Either analysis_id or insights and smart_score are required", http.StatusBadRequest)
		return
	}

	report := h.nlgService.GenerateReport(*req.Insights, *req.SmartScore)
	utils.SendJSON(w, http.StatusOK, map[string]any{"report": report})
}

func (h *AnalysisHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	h.narrate(w, chi.URLParam(r, "analysisID"))
}

func (h *AnalysisHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Insights   models.Insights   `json:"insights"`
		SmartScore models.SmartScore `json:"smart_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	suggestions := h.suggestionService.GenerateSuggestions(req.Insights, req.SmartScore)
	utils.SendJSON(w, http.StatusOK, map[string]any{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

func (h *AnalysisHandler) HandleGetAnalysisByID(w http.ResponseWriter, r *http.Request) {
	analysisID := chi.URLParam(r, "analysisID")
	requesterID := strings.TrimSpace(r.URL.Query().Get("user_id"))

	record, err := h.historyService.GetAnalysisByID(analysisID)
	if err != nil {
		if errors.Is(err, services.ErrAnalysisNotFound) {
			utils.SendJSONError(w, "Analysis not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load analysis", "analysisID", analysisID, "error", err)
		utils.SendJSONError(w, "Failed to load analysis", http.StatusInternalServerError)
		return
	}

	if requesterID != "" {
		owner, _ := record["user_id"].(string)
		if owner != "" && owner != requesterID {
			logger.L.Warn("Analysis access denied", "analysisID", analysisID, "requester", requesterID)
			utils.SendJSONError(w, "You do not have access to this analysis", http.StatusForbidden)
			return
		}
	}

	utils.SendJSON(w, http.StatusOK, record)
}
