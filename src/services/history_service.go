// backend/src/services/history_service.go
package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/models"
)

// Cache key formats for history lookups.
const (
	ckUserHistory  = "history:user:%s:%s" // userID, accountType
	ckAnalysisByID = "history:analysis:%s"
)

type historyServiceImpl struct {
	db    *sql.DB
	cache *cache.Cache
}

// NewHistoryService creates the SQLite-backed analysis history store.
func NewHistoryService(db *sql.DB, cacheTTL time.Duration) HistoryService {
	return &historyServiceImpl{
		db:    db,
		cache: cache.New(cacheTTL, 2*cacheTTL),
	}
}

func (s *historyServiceImpl) invalidateUser(userID string) {
	s.cache.Delete(fmt.Sprintf(ckUserHistory, userID, "personal"))
	s.cache.Delete(fmt.Sprintf(ckUserHistory, userID, "company"))
	s.cache.Delete(fmt.Sprintf(ckUserHistory, userID, ""))
}

func (s *historyServiceImpl) insertRecord(id, userID, accountType, createdAt string, totalTransactions int, totalAmount float64, record map[string]any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling history payload: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO analyses (id, user_id, account_type, created_at, total_transactions, total_amount, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, accountType, createdAt, totalTransactions, totalAmount, string(payload))
	if err != nil {
		return fmt.Errorf("inserting analysis record: %w", err)
	}
	s.invalidateUser(userID)
	s.cache.Delete(fmt.Sprintf(ckAnalysisByID, id))
	return nil
}

func (s *historyServiceImpl) SaveAnalysis(userID, accountType string, result *models.AnalysisResult) (string, error) {
	analysisID := fmt.Sprintf("analysis_%s", uuid.NewString())
	createdAt := time.Now().Format(time.RFC3339)

	// History listings keep a summary, not the full transaction list.
	record := map[string]any{
		"id":                 analysisID,
		"user_id":            userID,
		"account_type":       accountType,
		"created_at":         createdAt,
		"total_transactions": result.TotalTransactions,
		"total_amount":       result.TotalAmount,
		"date_range":         result.DateRange,
		"smart_score":        result.SmartScore,
		"insights":           result.Insights,
		"insights_summary": map[string]any{
			"top_category":   result.Insights.TopCategory,
			"category_count": len(result.Insights.CategoryBreakdown),
		},
		"file_errors":   result.FileErrors,
		"file_warnings": result.FileWarnings,
	}

	if err := s.insertRecord(analysisID, userID, accountType, createdAt, result.TotalTransactions, result.TotalAmount, record); err != nil {
		return "", err
	}
	logger.L.Info("analysis saved to history", "analysisID", analysisID, "userID", userID, "accountType", accountType)
	return analysisID, nil
}

func (s *historyServiceImpl) SaveAudit(record models.AuditRecord) (string, error) {
	if record.ID == "" {
		record.ID = fmt.Sprintf("audit_%s", uuid.NewString())
	}
	createdAt := record.AuditDate
	if createdAt == "" {
		createdAt = time.Now().Format(time.RFC3339)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshaling audit record: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("normalizing audit record: %w", err)
	}
	payload["account_type"] = "company"
	payload["created_at"] = createdAt
	payload["total_transactions"] = record.FinancialSummary.TotalTransactions
	payload["total_amount"] = record.FinancialSummary.TotalAmount

	if err := s.insertRecord(record.ID, record.UserID, "company", createdAt,
		record.FinancialSummary.TotalTransactions, record.FinancialSummary.TotalAmount, payload); err != nil {
		return "", err
	}
	logger.L.Info("audit saved to history", "auditID", record.ID, "userID", record.UserID)
	return record.ID, nil
}

func (s *historyServiceImpl) queryHistory(userID, accountType string) ([]map[string]any, error) {
	query := `SELECT payload FROM analyses WHERE user_id = ?`
	args := []any{userID}
	if accountType != "" {
		query += ` AND account_type = ?`
		args = append(args, accountType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []map[string]any
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			logger.L.Warn("skipping unreadable history payload", "userID", userID, "error", err)
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}
	if records == nil {
		records = []map[string]any{}
	}
	return records, nil
}

func (s *historyServiceImpl) GetUserHistory(userID, accountType string) ([]map[string]any, error) {
	key := fmt.Sprintf(ckUserHistory, userID, accountType)
	if cached, found := s.cache.Get(key); found {
		return cached.([]map[string]any), nil
	}
	records, err := s.queryHistory(userID, accountType)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, records)
	return records, nil
}

func (s *historyServiceImpl) GetCompanyHistory(userID string) ([]map[string]any, error) {
	return s.GetUserHistory(userID, "company")
}

func (s *historyServiceImpl) GetAnalysisByID(analysisID string) (map[string]any, error) {
	key := fmt.Sprintf(ckAnalysisByID, analysisID)
	if cached, found := s.cache.Get(key); found {
		return cached.(map[string]any), nil
	}

	var payload string
	err := s.db.QueryRow(`SELECT payload FROM analyses WHERE id = ?`, analysisID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying analysis %s: %w", analysisID, err)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("decoding analysis %s: %w", analysisID, err)
	}
	s.cache.SetDefault(key, record)
	return record, nil
}

func (s *historyServiceImpl) DeleteAnalysis(userID, analysisID string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM analyses WHERE id = ? AND user_id = ?`, analysisID, userID)
	if err != nil {
		return false, fmt.Errorf("deleting analysis %s: %w", analysisID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		s.invalidateUser(userID)
		s.cache.Delete(fmt.Sprintf(ckAnalysisByID, analysisID))
	}
	return affected > 0, nil
}
