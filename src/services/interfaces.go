// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"

	"github.com/openaudit/backend/src/models"
)

// UploadedFile is one file of an analysis or audit batch, already read
// into memory by the handler layer.
type UploadedFile struct {
	Filename string
	Content  []byte
}

// Define common service errors
var (
	ErrNoFilesProvided     = errors.New("no files provided")
	ErrUserIDRequired      = errors.New("user_id is required")
	ErrNoValidTransactions = errors.New("no valid transaction data found")
	ErrAnalysisNotFound    = errors.New("analysis not found")

	ErrContractNotFound = errors.New("contract not found")
	ErrContractPending  = errors.New("contract request already pending")
	ErrContractActive   = errors.New("contract already active")
	ErrContractState    = errors.New("contract is not in a signable state")
)

// AnalysisService runs the full extraction and analysis pipeline over a
// batch of uploaded files.
type AnalysisService interface {
	// AnalyzeBatch extracts, normalizes, categorizes and scores a batch.
	// It fails only on precondition violations (empty batch, missing
	// user id); every parse problem degrades into warnings instead.
	AnalyzeBatch(ctx context.Context, files []UploadedFile, userID, accountType string) (*models.AnalysisResult, error)

	// ProcessData cleans a flat transaction list and derives totals and
	// the covered date range.
	ProcessData(transactions []models.Transaction) models.ProcessedData
}

// ScoringService computes the composite spending-health score.
type ScoringService interface {
	CalculateSmartScore(data *models.CategorizedData) models.SmartScore
	GetSpenderRating(score float64) string
}

// AuditResult is the full response of one audit run.
type AuditResult struct {
	ID               string                     `json:"id"`
	AuditReport      models.AuditReport         `json:"audit_report"`
	FinancialSummary models.FinancialData       `json:"financial_summary"`
	Insights         models.Insights            `json:"insights"`
	Visualizations   models.Visualizations      `json:"visualizations"`
	SmartScore       models.SmartScore          `json:"smart_score"`
	Transactions     []models.Transaction       `json:"transactions"`
	Warnings         []models.FileIssues        `json:"warnings"`
	Errors           []models.FileIssues        `json:"errors"`
	MissingValues    []models.MissingValueEntry `json:"missing_values"`
}

// AuditService runs the anomaly/fraud-detection audit.
type AuditService interface {
	// PerformAudit scores a transaction set and builds the structured
	// audit report. It never fails: when the statistical path is
	// unavailable it degrades to the rule-based fallback audit.
	PerformAudit(ctx context.Context, company models.CompanyData, financial models.FinancialData, transactions []models.Transaction) models.AuditReport

	// RunAudit is the batch entrypoint: extraction, analysis, fraud
	// scoring and persistence of the audit record.
	RunAudit(ctx context.Context, files []UploadedFile, company models.CompanyData) (*AuditResult, error)
}

// NLGService renders numeric analysis output as plain-language text.
type NLGService interface {
	GenerateReport(insights models.Insights, smartScore models.SmartScore) models.NarratedReport
}

// SuggestionService derives prioritized advice cards from an analysis.
type SuggestionService interface {
	GenerateSuggestions(insights models.Insights, smartScore models.SmartScore) []models.Suggestion
}

// HistoryService persists analysis and audit outcomes per user.
type HistoryService interface {
	SaveAnalysis(userID, accountType string, result *models.AnalysisResult) (string, error)
	SaveAudit(record models.AuditRecord) (string, error)
	GetUserHistory(userID, accountType string) ([]map[string]any, error)
	GetCompanyHistory(userID string) ([]map[string]any, error)
	GetAnalysisByID(analysisID string) (map[string]any, error)
	DeleteAnalysis(userID, analysisID string) (bool, error)
}

// ContractService manages the company/platform contract lifecycle.
type ContractService interface {
	RequestContract(companyID, companyName string) (*models.Contract, error)
	GetCompanyContract(companyID string) (*models.Contract, error)
	GetPendingContracts() ([]models.Contract, error)
	GetAllContracts() ([]models.Contract, error)
	SignContractAdmin(contractID, signature, signedPDFPath string) (*models.Contract, error)
	SignContractCompany(companyID, signature string) (*models.Contract, error)
	UpdateSignedContract(contractID, signedPDFPath string) (*models.Contract, error)
}
