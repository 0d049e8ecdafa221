// backend/src/models/audit.go
package models

// CompanyData is the caller-supplied company metadata for an audit run.
type CompanyData struct {
	CompanyName         string `json:"company_name"`
	Industry            string `json:"industry"`
	CompanySize         string `json:"company_size"`
	Location            string `json:"location"`
	FiscalYear          int    `json:"fiscal_year"`
	AccountingStandards string `json:"accounting_standards"`
	RegulatoryFramework string `json:"regulatory_framework"`
	UserID              string `json:"user_id"`
}

// FinancialData is the aggregate financial context handed to the auditor.
type FinancialData struct {
	TotalAmount       float64            `json:"total_amount"`
	TotalTransactions int                `json:"total_transactions"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	DateRange         DateRange          `json:"date_range"`
}

// SuspiciousTransaction is a transaction ranked by its suspicion index.
type SuspiciousTransaction struct {
	Date           string  `json:"date"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
	SuspicionIndex float64 `json:"suspicion_index"`
	AmountScore    float64 `json:"amount_score"`
	TextScore      float64 `json:"text_score"`
	RiskLevel      string  `json:"risk_level"`
}

// AuditSummary is the headline block of an audit report.
type AuditSummary struct {
	AuditDate            string `json:"audit_date"`
	CompanyName          string `json:"company_name"`
	FiscalYear           int    `json:"fiscal_year,omitempty"`
	OverallRiskScore     int    `json:"overall_risk_score"`
	ComplianceScore      int    `json:"compliance_score"`
	FinancialHealthScore int    `json:"financial_health_score"`
	AuditStatus          string `json:"audit_status"`
	Note                 string `json:"note,omitempty"`
}

// FinancialCompliance reports accounting-standard adherence.
type FinancialCompliance struct {
	GAAPCompliance  string   `json:"gaap_compliance"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// FraudDetection carries the ranked suspicious transactions and findings.
type FraudDetection struct {
	SuspiciousTransactions []SuspiciousTransaction `json:"suspicious_transactions"`
	AnomaliesDetected      []string                `json:"anomalies_detected"`
	RiskLevel              string                  `json:"risk_level"`
	Findings               []string                `json:"findings"`
}

// RiskAssessment groups risks by kind.
type RiskAssessment struct {
	FinancialRisks   []string `json:"financial_risks"`
	OperationalRisks []string `json:"operational_risks"`
	ComplianceRisks  []string `json:"compliance_risks"`
	OverallRiskLevel string   `json:"overall_risk_level"`
}

// InternalControls assesses the company's control environment.
type InternalControls struct {
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	ImprovementAreas []string `json:"improvement_areas"`
}

// RegulatoryCompliance reports tax and statutory standing.
type RegulatoryCompliance struct {
	TaxCompliance       string   `json:"tax_compliance"`
	StatutoryCompliance string   `json:"statutory_compliance"`
	Issues              []string `json:"issues"`
	ActionsRequired     []string `json:"actions_required"`
}

// OperationalAnalysis summarizes transaction-level operating metrics.
type OperationalAnalysis struct {
	RevenueTrends  string   `json:"revenue_trends"`
	ExpenseTrends  string   `json:"expense_trends"`
	BudgetVariance string   `json:"budget_variance"`
	KeyMetrics     []string `json:"key_metrics"`
}

// AuditRecommendations tiers follow-up actions by priority.
type AuditRecommendations struct {
	Critical       []string `json:"critical"`
	HighPriority   []string `json:"high_priority"`
	MediumPriority []string `json:"medium_priority"`
	LowPriority    []string `json:"low_priority"`
}

// AuditMetadata records how and when the audit ran.
type AuditMetadata struct {
	AuditPerformedAt          string     `json:"audit_performed_at"`
	ModelUsed                 string     `json:"model_used"`
	TotalTransactionsAnalyzed int        `json:"total_transactions_analyzed"`
	FinancialPeriod           *DateRange `json:"financial_period,omitempty"`
}

// AuditReport is the full structured output of one fraud-detection audit.
type AuditReport struct {
	AuditSummary         AuditSummary         `json:"audit_summary"`
	FinancialCompliance  FinancialCompliance  `json:"financial_compliance"`
	FraudDetection       FraudDetection       `json:"fraud_detection"`
	RiskAssessment       RiskAssessment       `json:"risk_assessment"`
	InternalControls     InternalControls     `json:"internal_controls"`
	RegulatoryCompliance RegulatoryCompliance `json:"regulatory_compliance"`
	OperationalAnalysis  OperationalAnalysis  `json:"operational_analysis"`
	Recommendations      AuditRecommendations `json:"recommendations"`
	Metadata             AuditMetadata        `json:"metadata"`
}

// FinancialSummary is the compact total stored alongside an audit record.
type FinancialSummary struct {
	TotalAmount       float64 `json:"total_amount"`
	TotalTransactions int     `json:"total_transactions"`
}

// AuditRecord is the persisted outcome of one audit run.
type AuditRecord struct {
	ID               string           `json:"id"`
	UserID           string           `json:"user_id"`
	CompanyName      string           `json:"company_name"`
	AuditDate        string           `json:"audit_date"`
	AuditReport      AuditReport      `json:"audit_report"`
	FinancialSummary FinancialSummary `json:"financial_summary"`
	Insights         Insights         `json:"insights"`
	Visualizations   Visualizations   `json:"visualizations"`
	SmartScore       SmartScore       `json:"smart_score"`
	Transactions     []Transaction    `json:"transactions"`
	FilesUploaded    []string         `json:"files_uploaded"`
}
