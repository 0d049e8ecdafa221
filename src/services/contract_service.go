// backend/src/services/contract_service.go
package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/models"
)

type contractServiceImpl struct {
	db *sql.DB
}

// NewContractService creates the SQLite-backed contract store.
func NewContractService(db *sql.DB) ContractService {
	return &contractServiceImpl{db: db}
}

func (s *contractServiceImpl) saveContract(c *models.Contract, isNew bool) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling contract: %w", err)
	}
	now := time.Now().Format(time.RFC3339)
	if isNew {
		_, err = s.db.Exec(
			`INSERT INTO contracts (id, user_id, company_name, status, created_at, updated_at, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.CompanyID, c.CompanyName, c.Status, c.RequestedAt, now, string(payload))
	} else {
		_, err = s.db.Exec(
			`UPDATE contracts SET status = ?, updated_at = ?, payload = ? WHERE id = ?`,
			c.Status, now, string(payload), c.ID)
	}
	if err != nil {
		return fmt.Errorf("saving contract %s: %w", c.ID, err)
	}
	return nil
}

func scanContract(payload string) (*models.Contract, error) {
	var c models.Contract
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, fmt.Errorf("decoding contract: %w", err)
	}
	return &c, nil
}

func (s *contractServiceImpl) queryContracts(where string, args ...any) ([]models.Contract, error) {
	rows, err := s.db.Query(`SELECT payload FROM contracts `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contracts: %w", err)
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning contract row: %w", err)
		}
		c, err := scanContract(payload)
		if err != nil {
			logger.L.Warn("skipping unreadable contract payload", "error", err)
			continue
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contract rows: %w", err)
	}
	if contracts == nil {
		contracts = []models.Contract{}
	}
	return contracts, nil
}

func (s *contractServiceImpl) RequestContract(companyID, companyName string) (*models.Contract, error) {
	existing, err := s.queryContracts(
		`WHERE user_id = ? AND status IN (?, ?, ?) ORDER BY created_at DESC`,
		companyID, models.ContractStatusPending, models.ContractStatusSignedAdmin, models.ContractStatusActive)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		switch existing[i].Status {
		case models.ContractStatusActive:
			return nil, ErrContractActive
		case models.ContractStatusPending, models.ContractStatusSignedAdmin:
			return nil, ErrContractPending
		}
	}

	contract := &models.Contract{
		ID:          fmt.Sprintf("contract_%s", uuid.NewString()),
		CompanyID:   companyID,
		CompanyName: companyName,
		Status:      models.ContractStatusPending,
		RequestedAt: time.Now().Format(time.RFC3339),
	}
	if err := s.saveContract(contract, true); err != nil {
		return nil, err
	}
	logger.L.Info("contract requested", "contractID", contract.ID, "companyID", companyID)
	return contract, nil
}

func (s *contractServiceImpl) GetCompanyContract(companyID string) (*models.Contract, error) {
	contracts, err := s.queryContracts(`WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`, companyID)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, ErrContractNotFound
	}
	return &contracts[0], nil
}

func (s *contractServiceImpl) GetPendingContracts() ([]models.Contract, error) {
	return s.queryContracts(`WHERE status = ? ORDER BY created_at DESC`, models.ContractStatusPending)
}

func (s *contractServiceImpl) GetAllContracts() ([]models.Contract, error) {
	return s.queryContracts(`ORDER BY created_at DESC`)
}

func (s *contractServiceImpl) getByID(contractID string) (*models.Contract, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM contracts WHERE id = ?`, contractID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying contract %s: %w", contractID, err)
	}
	return scanContract(payload)
}

func (s *contractServiceImpl) SignContractAdmin(contractID, signature, signedPDFPath string) (*models.Contract, error) {
	contract, err := s.getByID(contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusPending {
		return nil, fmt.Errorf("%w: contract %s is %s, expected %s",
			ErrContractState, contractID, contract.Status, models.ContractStatusPending)
	}

	now := time.Now().Format(time.RFC3339)
	contract.Status = models.ContractStatusSignedAdmin
	contract.SignedAdminAt = &now
	contract.AdminSignature = &signature
	if signedPDFPath != "" {
		contract.SignedContractPDFPath = &signedPDFPath
	}
	if err := s.saveContract(contract, false); err != nil {
		return nil, err
	}
	logger.L.Info("contract signed by admin", "contractID", contractID)
	return contract, nil
}

func (s *contractServiceImpl) SignContractCompany(companyID, signature string) (*models.Contract, error) {
	contracts, err := s.queryContracts(
		`WHERE user_id = ? AND status = ? ORDER BY created_at DESC LIMIT 1`,
		companyID, models.ContractStatusSignedAdmin)
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, fmt.Errorf("%w: no admin-signed contract for company %s", ErrContractState, companyID)
	}

	contract := &contracts[0]
	now := time.Now().Format(time.RFC3339)
	contract.Status = models.ContractStatusActive
	contract.SignedCompanyAt = &now
	contract.CompanySignature = &signature
	if err := s.saveContract(contract, false); err != nil {
		return nil, err
	}
	logger.L.Info("contract signed by company", "contractID", contract.ID, "companyID", companyID)
	return contract, nil
}

func (s *contractServiceImpl) UpdateSignedContract(contractID, signedPDFPath string) (*models.Contract, error) {
	contract, err := s.getByID(contractID)
	if err != nil {
		return nil, err
	}
	contract.SignedContractPDFPath = &signedPDFPath
	if err := s.saveContract(contract, false); err != nil {
		return nil, err
	}
	logger.L.Info("signed contract document updated", "contractID", contractID)
	return contract, nil
}
