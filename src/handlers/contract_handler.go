// backend/src/handlers/contract_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/security/validation"
	"github.com/openaudit/backend/src/services"
	"github.com/openaudit/backend/src/utils"
)

type ContractHandler struct {
	contractService services.ContractService
}

func NewContractHandler(contractService services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

func contractErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrContractNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrContractPending),
		errors.Is(err, services.ErrContractActive),
		errors.Is(err, services.ErrContractState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *ContractHandler) HandleRequestContract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID   string `json:"company_id"`
		CompanyName string `json:"company_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.CompanyID = strings.TrimSpace(req.CompanyID)
	req.CompanyName = validation.SanitizeText(strings.TrimSpace(req.CompanyName))
	if err := validation.ValidateUserID(req.CompanyID); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateCompanyName(req.CompanyName); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	contract, err := h.contractService.RequestContract(req.CompanyID, req.CompanyName)
	if err != nil {
		logger.L.Warn("Contract request rejected", "companyID", req.CompanyID, "error", err)
		utils.SendJSONError(w, err.Error(), contractErrorStatus(err))
		return
	}
	utils.SendJSON(w, http.StatusCreated, contract)
}

func (h *ContractHandler) HandleGetCompanyContract(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if err := validation.ValidateUserID(companyID); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	contract, err := h.contractService.GetCompanyContract(companyID)
	if err != nil {
		if errors.Is(err, services.ErrContractNotFound) {
			utils.SendJSONError(w, "No contract found for this company", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to load company contract", "companyID", companyID, "error", err)
		utils.SendJSONError(w, "Failed to load contract", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) HandleSignContractCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID string `json:"company_id"`
		Signature string `json:"signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateUserID(strings.TrimSpace(req.CompanyID)); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Signature) == "" {
		utils.SendJSONError(w, "Signature is required", http.StatusBadRequest)
		return
	}

	contract, err := h.contractService.SignContractCompany(req.CompanyID, req.Signature)
	if err != nil {
		logger.L.Warn("Company contract signing failed", "companyID", req.CompanyID, "error", err)
		utils.SendJSONError(w, err.Error(), contractErrorStatus(err))
		return
	}
	utils.SendJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) HandleListPendingContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.contractService.GetPendingContracts()
	if err != nil {
		logger.L.Error("Failed to list pending contracts", "error", err)
		utils.SendJSONError(w, "Failed to list pending contracts", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]any{
		"contracts": contracts,
		"count":     len(contracts),
	})
}

func (h *ContractHandler) HandleListAllContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.contractService.GetAllContracts()
	if err != nil {
		logger.L.Error("Failed to list contracts", "error", err)
		utils.SendJSONError(w, "Failed to list contracts", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]any{
		"contracts": contracts,
		"count":     len(contracts),
	})
}

func (h *ContractHandler) HandleSignContractAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContractID    string `json:"contract_id"`
		Signature     string `json:"signature"`
		SignedPDFPath string `json:"signed_pdf_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ContractID) == "" || strings.TrimSpace(req.Signature) == "" {
		utils.SendJSONError(w, "Contract ID and signature are required", http.StatusBadRequest)
		return
	}

	contract, err := h.contractService.SignContractAdmin(req.ContractID, req.Signature, req.SignedPDFPath)
	if err != nil {
		logger.L.Warn("Admin contract signing failed", "contractID", req.ContractID, "error", err)
		utils.SendJSONError(w, err.Error(), contractErrorStatus(err))
		return
	}
	utils.SendJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) HandleUpdateSignedContract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContractID    string `json:"contract_id"`
		SignedPDFPath string `json:"signed_pdf_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ContractID) == "" || strings.TrimSpace(req.SignedPDFPath) == "" {
		utils.SendJSONError(w, "Contract ID and signed document path are required", http.StatusBadRequest)
		return
	}

	contract, err := h.contractService.UpdateSignedContract(req.ContractID, req.SignedPDFPath)
	if err != nil {
		logger.L.Warn("Signed contract update failed", "contractID", req.ContractID, "error", err)
		utils.SendJSONError(w, err.Error(), contractErrorStatus(err))
		return
	}
	utils.SendJSON(w, http.StatusOK, contract)
}
