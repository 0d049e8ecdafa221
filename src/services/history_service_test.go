// backend/src/services/history_service_test.go
package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/openaudit/backend/src/models"
)

const testSchema = `
CREATE TABLE analyses (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    account_type TEXT NOT NULL,
    created_at TEXT NOT NULL,
    total_transactions INTEGER NOT NULL DEFAULT 0,
    total_amount REAL NOT NULL DEFAULT 0,
    payload TEXT NOT NULL
);
CREATE TABLE contracts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    company_name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    payload TEXT NOT NULL DEFAULT '{}'
);`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func analysisFixture(total float64, count int) *models.AnalysisResult {
	return &models.AnalysisResult{
		ProcessedData: models.ProcessedData{
			TotalTransactions: count,
			TotalAmount:       total,
		},
		Insights: models.Insights{
			TopCategory: models.TopCategory{Name: "Food", Amount: total / 2, Percentage: 50},
			CategoryBreakdown: map[string]models.CategoryBreakdownEntry{
				"Food":  {Amount: total / 2, Percentage: 50},
				"Other": {Amount: total / 2, Percentage: 50},
			},
			TotalSpent:       total,
			TransactionCount: count,
		},
		FileErrors:   []models.FileIssues{},
		FileWarnings: []models.FileIssues{},
	}
}

func TestSaveAndGetAnalysis(t *testing.T) {
	svc := NewHistoryService(openTestDB(t), time.Minute)

	id, err := svc.SaveAnalysis("user-1", "personal", analysisFixture(1000, 5))
	require.NoError(t, err)
	assert.Contains(t, id, "analysis_")

	record, err := svc.GetAnalysisByID(id)
	require.NoError(t, err)
	assert.Equal(t, id, record["id"])
	assert.Equal(t, "user-1", record["user_id"])
	assert.Equal(t, "personal", record["account_type"])
	assert.Equal(t, float64(5), record["total_transactions"])
	assert.Equal(t, 1000.0, record["total_amount"])

	summary, ok := record["insights_summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), summary["category_count"])
}

func TestGetAnalysisByIDNotFound(t *testing.T) {
	svc := NewHistoryService(openTestDB(t), time.Minute)

	_, err := svc.GetAnalysisByID("analysis_missing")
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestGetUserHistoryOrderingAndFilter(t *testing.T) {
	db := openTestDB(t)
	svc := NewHistoryService(db, time.Minute)

	first, err := svc.SaveAnalysis("user-1", "personal", analysisFixture(100, 1))
	require.NoError(t, err)
	// created_at has second resolution; force distinct ordering.
	_, err = db.Exec(`UPDATE analyses SET created_at = ? WHERE id = ?`,
		time.Now().Add(-time.Hour).Format(time.RFC3339), first)
	require.NoError(t, err)

	second, err := svc.SaveAnalysis("user-1", "personal", analysisFixture(200, 2))
	require.NoError(t, err)
	_, err = svc.SaveAnalysis("user-1", "company", analysisFixture(300, 3))
	require.NoError(t, err)
	_, err = svc.SaveAnalysis("user-2", "personal", analysisFixture(400, 4))
	require.NoError(t, err)

	personal, err := svc.GetUserHistory("user-1", "personal")
	require.NoError(t, err)
	require.Len(t, personal, 2)
	assert.Equal(t, second, personal[0]["id"])
	assert.Equal(t, first, personal[1]["id"])

	all, err := svc.GetUserHistory("user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	company, err := svc.GetCompanyHistory("user-1")
	require.NoError(t, err)
	require.Len(t, company, 1)
	assert.Equal(t, "company", company[0]["account_type"])
}

func TestGetUserHistoryEmpty(t *testing.T) {
	svc := NewHistoryService(openTestDB(t), time.Minute)

	records, err := svc.GetUserHistory("nobody", "personal")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDeleteAnalysis(t *testing.T) {
	svc := NewHistoryService(openTestDB(t), time.Minute)

	id, err := svc.SaveAnalysis("user-1", "personal", analysisFixture(100, 1))
	require.NoError(t, err)

	// Ownership is enforced in the delete itself.
	deleted, err := svc.DeleteAnalysis("user-2", id)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.DeleteAnalysis("user-1", id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.GetAnalysisByID(id)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	records, err := svc.GetUserHistory("user-1", "personal")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveAuditAppearsInCompanyHistory(t *testing.T) {
	svc := NewHistoryService(openTestDB(t), time.Minute)

	record := models.AuditRecord{
		UserID:      "user-1",
		CompanyName: "Acme Traders",
		AuditDate:   time.Now().Format(time.RFC3339),
		FinancialSummary: models.FinancialSummary{
			TotalAmount:       5000,
			TotalTransactions: 7,
		},
		FilesUploaded: []string{"ledger.csv"},
	}

	id, err := svc.SaveAudit(record)
	require.NoError(t, err)
	assert.Contains(t, id, "audit_")

	stored, err := svc.GetAnalysisByID(id)
	require.NoError(t, err)
	assert.Equal(t, "company", stored["account_type"])
	assert.Equal(t, "Acme Traders", stored["company_name"])
	assert.Equal(t, float64(7), stored["total_transactions"])
	assert.Equal(t, 5000.0, stored["total_amount"])

	history, err := svc.GetCompanyHistory("user-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, id, history[0]["id"])
}
