// backend/src/services/audit_service.go
package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/parsers"
	"github.com/openaudit/backend/src/processors"
	"github.com/openaudit/backend/src/utils"
)

// Suspicion index weights and tier thresholds.
const (
	weightAmountScore = 0.6
	weightTextScore   = 0.4

	highRiskThreshold   = 0.8
	mediumRiskThreshold = 0.6

	defaultSuspiciousTopN = 10
)

type auditServiceImpl struct {
	extractor   *parsers.FileExtractor
	categorizer *processors.Categorizer
	insights    *processors.InsightProcessor
	analysis    AnalysisService
	scoring     ScoringService
	history     HistoryService
	textScorer  TextOutlierScorer
	topN        int
}

// NewAuditService creates the fraud-detection audit service. textScorer
// selects the semantic signal implementation; pass NoopTextScorer to run
// amount-only audits. topN caps the reported suspicious-transaction list;
// zero or negative selects the default of 10.
func NewAuditService(analysis AnalysisService, scoring ScoringService, history HistoryService, textScorer TextOutlierScorer, topN int) AuditService {
	if topN <= 0 {
		topN = defaultSuspiciousTopN
	}
	return &auditServiceImpl{
		extractor:   parsers.NewFileExtractor(),
		categorizer: processors.NewCategorizer(),
		insights:    processors.NewInsightProcessor(),
		analysis:    analysis,
		scoring:     scoring,
		history:     history,
		textScorer:  textScorer,
		topN:        topN,
	}
}

// amountScores converts amounts to [0,1] outlier scores: the absolute
// z-score of each amount normalized by the run's maximum. A run with
// zero variance scores all zero.
func amountScores(amounts []float64) []float64 {
	scores := make([]float64, len(amounts))
	if len(amounts) == 0 {
		return scores
	}

	mean := stat.Mean(amounts, nil)
	std := math.Sqrt(stat.MomentAbout(2, amounts, mean, nil))
	if std == 0 {
		return scores
	}

	absZ := make([]float64, len(amounts))
	maxAbsZ := 0.0
	for i, a := range amounts {
		absZ[i] = math.Abs((a - mean) / std)
		if absZ[i] > maxAbsZ {
			maxAbsZ = absZ[i]
		}
	}
	if maxAbsZ == 0 {
		maxAbsZ = 1
	}
	for i := range absZ {
		s := absZ[i] / maxAbsZ
		if s > 1 {
			s = 1
		}
		scores[i] = s
	}
	return scores
}

func riskLabel(suspicionIndex float64) string {
	switch {
	case suspicionIndex > highRiskThreshold:
		return "HIGH RISK"
	case suspicionIndex > mediumRiskThreshold:
		return "MEDIUM RISK"
	default:
		return "Normal"
	}
}

func (s *auditServiceImpl) PerformAudit(ctx context.Context, company models.CompanyData, financial models.FinancialData, transactions []models.Transaction) (report models.AuditReport) {
	log := logger.FromContext(ctx)

	// The statistical path must never take an audit down with it: any
	// panic in signal computation degrades to the rule-based audit.
	defer func() {
		if r := recover(); r != nil {
			log.Error("statistical audit failed, using rule-based fallback", "company", company.CompanyName, "panic", r)
			report = s.fallbackAudit(company, financial, transactions)
		}
	}()

	log.Info("starting fraud detection", "company", company.CompanyName, "transactions", len(transactions))

	if len(transactions) == 0 {
		return s.fallbackAudit(company, financial, transactions)
	}

	amounts := make([]float64, len(transactions))
	descriptions := make([]string, len(transactions))
	for i, txn := range transactions {
		amounts[i] = math.Abs(txn.Amount)
		descriptions[i] = txn.Description
	}

	aScores := amountScores(amounts)
	tScores := s.textScorer.Score(descriptions)

	suspicion := make([]float64, len(transactions))
	for i := range suspicion {
		suspicion[i] = weightAmountScore*aScores[i] + weightTextScore*tScores[i]
	}

	order := make([]int, len(transactions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return suspicion[order[a]] > suspicion[order[b]]
	})

	topN := s.topN
	if len(order) < topN {
		topN = len(order)
	}
	suspicious := make([]models.SuspiciousTransaction, 0, topN)
	for _, idx := range order[:topN] {
		suspicious = append(suspicious, models.SuspiciousTransaction{
			Date:           transactions[idx].Date,
			Amount:         amounts[idx],
			Description:    descriptions[idx],
			SuspicionIndex: utils.RoundFloat(suspicion[idx], 4),
			AmountScore:    utils.RoundFloat(aScores[idx], 4),
			TextScore:      utils.RoundFloat(tScores[idx], 4),
			RiskLevel:      riskLabel(suspicion[idx]),
		})
	}

	highRiskCount := 0
	mediumRiskCount := 0
	normalCount := 0
	for _, idx := range suspicion {
		switch {
		case idx > highRiskThreshold:
			highRiskCount++
		case idx > mediumRiskThreshold:
			mediumRiskCount++
		default:
			normalCount++
		}
	}

	n := len(transactions)
	var overallRisk string
	var overallRiskScore int
	switch {
	case float64(highRiskCount) > float64(n)*0.1:
		overallRisk = "CRITICAL"
		overallRiskScore = 85
	case highRiskCount > 0 || float64(mediumRiskCount) > float64(n)*0.2:
		overallRisk = "HIGH"
		overallRiskScore = 70
	case mediumRiskCount > 0:
		overallRisk = "MEDIUM"
		overallRiskScore = 50
	default:
		overallRisk = "LOW"
		overallRiskScore = 25
	}

	auditStatus := "FAIL"
	if overallRisk == "LOW" {
		auditStatus = "PASS"
	} else if overallRisk == "MEDIUM" {
		auditStatus = "CONDITIONAL"
	}

	totalAmount := 0.0
	maxAmount := 0.0
	for _, a := range amounts {
		totalAmount += a
		if a > maxAmount {
			maxAmount = a
		}
	}
	avgAmount := totalAmount / float64(n)

	now := time.Now().Format(time.RFC3339)
	fiscalYear := company.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = time.Now().Year()
	}

	healthScore := overallRiskScore
	if healthScore > 75 {
		healthScore = 75
	}

	gaap := "REVIEW_REQUIRED"
	if overallRisk == "LOW" {
		gaap = "COMPLIANT"
	}

	report = models.AuditReport{
		AuditSummary: models.AuditSummary{
			AuditDate:            now,
			CompanyName:          company.CompanyName,
			FiscalYear:           fiscalYear,
			OverallRiskScore:     overallRiskScore,
			ComplianceScore:      100 - overallRiskScore,
			FinancialHealthScore: 100 - healthScore,
			AuditStatus:          auditStatus,
		},
		FinancialCompliance: models.FinancialCompliance{
			GAAPCompliance:  gaap,
			Issues:          []string{},
			Recommendations: []string{"No significant issues detected"},
		},
		FraudDetection: models.FraudDetection{
			SuspiciousTransactions: suspicious,
			AnomaliesDetected: []string{
				fmt.Sprintf("%d high-risk transactions", highRiskCount),
				fmt.Sprintf("%d medium-risk transactions", mediumRiskCount),
				fmt.Sprintf("%d normal transactions", normalCount),
			},
			RiskLevel: overallRisk,
			Findings: []string{
				fmt.Sprintf("Total transactions analyzed: %d", n),
				fmt.Sprintf("High-risk transactions: %d (%.1f%%)", highRiskCount, float64(highRiskCount)/float64(n)*100),
				fmt.Sprintf("Medium-risk transactions: %d (%.1f%%)", mediumRiskCount, float64(mediumRiskCount)/float64(n)*100),
				fmt.Sprintf("Normal transactions: %d (%.1f%%)", normalCount, float64(normalCount)/float64(n)*100),
			},
		},
		RiskAssessment: models.RiskAssessment{
			FinancialRisks: []string{
				fmt.Sprintf("Identified %d potentially fraudulent transactions", highRiskCount),
				fmt.Sprintf("Average transaction amount: ₹%s", utils.FormatAmount(avgAmount)),
				fmt.Sprintf("Largest transaction: ₹%s", utils.FormatAmount(maxAmount)),
			},
			OperationalRisks: []string{},
			ComplianceRisks:  []string{},
			OverallRiskLevel: overallRisk,
		},
		InternalControls: models.InternalControls{
			Strengths:        []string{"Automated fraud detection system in place"},
			Weaknesses:       []string{},
			ImprovementAreas: []string{"Maintain current monitoring levels"},
		},
		RegulatoryCompliance: models.RegulatoryCompliance{
			TaxCompliance:       "COMPLIANT",
			StatutoryCompliance: "COMPLIANT",
			Issues:              []string{},
			ActionsRequired:     []string{"Continue monitoring"},
		},
		OperationalAnalysis: models.OperationalAnalysis{
			RevenueTrends:  "Based on transaction analysis",
			ExpenseTrends:  fmt.Sprintf("Analyzed %d transactions", n),
			BudgetVariance: "Not provided",
			KeyMetrics: []string{
				fmt.Sprintf("Total transactions: %d", n),
				fmt.Sprintf("Total amount: ₹%s", utils.FormatAmount(totalAmount)),
				fmt.Sprintf("Average amount: ₹%s", utils.FormatAmount(avgAmount)),
				fmt.Sprintf("High-risk ratio: %.2f%%", float64(highRiskCount)/float64(n)*100),
			},
		},
		Recommendations: models.AuditRecommendations{
			Critical:     []string{},
			HighPriority: []string{},
			MediumPriority: []string{
				"Implement regular fraud detection audits",
				"Enhance transaction monitoring",
			},
			LowPriority: []string{},
		},
		Metadata: models.AuditMetadata{
			AuditPerformedAt:          now,
			ModelUsed:                 s.textScorer.Name(),
			TotalTransactionsAnalyzed: n,
			FinancialPeriod:           &financial.DateRange,
		},
	}

	if highRiskCount > 0 {
		report.FinancialCompliance.Issues = []string{fmt.Sprintf("Detected %d high-risk transactions", highRiskCount)}
		report.FinancialCompliance.Recommendations = []string{
			"Review high-risk transactions for potential fraud",
			"Verify suspicious transactions with stakeholders",
			"Implement additional controls for high-value transactions",
		}
		report.RiskAssessment.ComplianceRisks = []string{"Some transactions require manual review"}
		report.InternalControls.Weaknesses = []string{fmt.Sprintf("High number of suspicious transactions detected (%d)", highRiskCount)}
		report.InternalControls.ImprovementAreas = []string{
			"Enhance transaction monitoring",
			"Implement real-time fraud alerts",
			"Review and approve high-value transactions manually",
		}
		report.RegulatoryCompliance.TaxCompliance = "REVIEW_REQUIRED"
		report.RegulatoryCompliance.StatutoryCompliance = "REVIEW_REQUIRED"
		report.RegulatoryCompliance.Issues = []string{fmt.Sprintf("%d transactions flagged for review", highRiskCount)}
		report.RegulatoryCompliance.ActionsRequired = []string{
			"Review flagged transactions",
			"Document review findings",
			"Report significant findings to management",
		}
		report.Recommendations.Critical = []string{fmt.Sprintf("Immediately review %d high-risk transactions", highRiskCount)}
	}
	if highRiskCount+mediumRiskCount > 0 {
		report.Recommendations.HighPriority = []string{
			"Verify suspicious transaction details",
			"Review transaction approval processes",
		}
	}
	if overallRisk == "LOW" {
		report.Recommendations.LowPriority = []string{"Maintain current fraud detection practices"}
	}

	log.Info("fraud detection completed",
		"company", company.CompanyName,
		"highRisk", highRiskCount,
		"mediumRisk", mediumRiskCount,
		"overallRisk", overallRisk)

	return report
}

// fallbackAudit is the rule-based audit used when the statistical path
// is unavailable or failed. Classification is fixed at MEDIUM.
func (s *auditServiceImpl) fallbackAudit(company models.CompanyData, financial models.FinancialData, transactions []models.Transaction) models.AuditReport {
	logger.L.Info("using rule-based fallback audit", "company", company.CompanyName)

	var risks []string
	var findings []string

	if financial.TotalTransactions > 0 {
		avg := financial.TotalAmount / float64(financial.TotalTransactions)
		if avg > 100000 {
			risks = append(risks, "High-value transactions detected - requires additional scrutiny")
		}
	}
	if len(financial.CategoryBreakdown) < 3 {
		findings = append(findings, "Limited expense categories - may indicate incomplete categorization")
	}
	if risks == nil {
		risks = []string{}
	}
	if findings == nil {
		findings = []string{}
	}

	now := time.Now().Format(time.RFC3339)
	return models.AuditReport{
		AuditSummary: models.AuditSummary{
			AuditDate:            now,
			CompanyName:          company.CompanyName,
			OverallRiskScore:     60,
			ComplianceScore:      70,
			FinancialHealthScore: 65,
			AuditStatus:          "CONDITIONAL",
			Note:                 "Rule-based audit (statistical engine unavailable)",
		},
		FinancialCompliance: models.FinancialCompliance{
			GAAPCompliance:  "PARTIALLY_COMPLIANT",
			Issues:          []string{"Complete financial statements not provided"},
			Recommendations: []string{"Submit full financial statements for comprehensive audit"},
		},
		FraudDetection: models.FraudDetection{
			SuspiciousTransactions: []models.SuspiciousTransaction{},
			AnomaliesDetected:      risks,
			RiskLevel:              "MEDIUM",
			Findings:               findings,
		},
		RiskAssessment: models.RiskAssessment{
			FinancialRisks:   risks,
			OperationalRisks: []string{},
			ComplianceRisks:  []string{},
			OverallRiskLevel: "MEDIUM",
		},
		InternalControls: models.InternalControls{
			Strengths:        []string{"Transaction data provided"},
			Weaknesses:       []string{"Limited documentation"},
			ImprovementAreas: []string{"Enhanced transaction categorization"},
		},
		RegulatoryCompliance: models.RegulatoryCompliance{
			TaxCompliance:       "REVIEW_REQUIRED",
			StatutoryCompliance: "REVIEW_REQUIRED",
			Issues:              []string{"Full compliance check requires additional documents"},
			ActionsRequired:     []string{"Submit tax returns and statutory documents"},
		},
		OperationalAnalysis: models.OperationalAnalysis{
			RevenueTrends:  "Insufficient data for trend analysis",
			ExpenseTrends:  "Analysis based on provided transactions",
			BudgetVariance: "Budget not provided",
			KeyMetrics: []string{
				fmt.Sprintf("Total transactions: %d", financial.TotalTransactions),
				fmt.Sprintf("Total amount: ₹%s", utils.FormatAmount(financial.TotalAmount)),
			},
		},
		Recommendations: models.AuditRecommendations{
			Critical:       []string{"Enable the statistical engine for comprehensive fraud detection"},
			HighPriority:   []string{"Submit complete financial statements"},
			MediumPriority: []string{"Improve transaction categorization"},
			LowPriority:    []string{"Implement regular audit schedule"},
		},
		Metadata: models.AuditMetadata{
			AuditPerformedAt:          now,
			ModelUsed:                 "rule-based-fallback",
			TotalTransactionsAnalyzed: len(transactions),
		},
	}
}

func (s *auditServiceImpl) RunAudit(ctx context.Context, files []UploadedFile, company models.CompanyData) (*AuditResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFilesProvided
	}
	if company.UserID == "" {
		return nil, ErrUserIDRequired
	}

	log := logger.FromContext(ctx)
	log.Info("starting audit run", "company", company.CompanyName, "userID", company.UserID, "files", len(files))

	var (
		transactions []models.Transaction
		fileErrors   []models.FileIssues
		fileWarnings []models.FileIssues
		missing      []models.MissingValueEntry
		filenames    []string
	)
	for _, file := range files {
		filenames = append(filenames, file.Filename)
		result := s.extractor.ExtractFile(file.Filename, file.Content)
		if len(result.Errors) > 0 {
			fileErrors = append(fileErrors, models.FileIssues{Filename: result.Filename, Errors: result.Errors})
		}
		if len(result.Warnings) > 0 {
			fileWarnings = append(fileWarnings, models.FileIssues{Filename: result.Filename, Warnings: result.Warnings})
		}
		missing = append(missing, result.MissingValues...)
		transactions = append(transactions, result.Transactions...)
	}
	if len(transactions) == 0 {
		return nil, ErrNoValidTransactions
	}

	processed := s.analysis.ProcessData(transactions)
	categorized := s.categorizer.CategorizeExpenses(processed.Transactions)
	insights := s.insights.GenerateInsights(categorized)
	visualizations := s.insights.GenerateVisualizationData(categorized)
	smartScore := s.scoring.CalculateSmartScore(categorized)

	financial := models.FinancialData{
		TotalAmount:       processed.TotalAmount,
		TotalTransactions: processed.TotalTransactions,
		CategoryBreakdown: categorized.CategoryPercentages,
		DateRange:         processed.DateRange,
	}

	auditReport := s.PerformAudit(ctx, company, financial, processed.Transactions)

	sample := processed.Transactions
	if len(sample) > 100 {
		sample = sample[:100]
	}

	result := &AuditResult{
		ID:               uuid.NewString(),
		AuditReport:      auditReport,
		FinancialSummary: financial,
		Insights:         insights,
		Visualizations:   visualizations,
		SmartScore:       smartScore,
		Transactions:     sample,
		Warnings:         emptyIfNilIssues(fileWarnings),
		Errors:           emptyIfNilIssues(fileErrors),
		MissingValues:    missing,
	}

	// Persistence is best-effort; the audit response stands on its own.
	if s.history != nil {
		record := models.AuditRecord{
			ID:          result.ID,
			UserID:      company.UserID,
			CompanyName: company.CompanyName,
			AuditDate:   auditReport.AuditSummary.AuditDate,
			AuditReport: auditReport,
			FinancialSummary: models.FinancialSummary{
				TotalAmount:       financial.TotalAmount,
				TotalTransactions: financial.TotalTransactions,
			},
			Insights:       insights,
			Visualizations: visualizations,
			SmartScore:     smartScore,
			Transactions:   sample,
			FilesUploaded:  filenames,
		}
		if _, err := s.history.SaveAudit(record); err != nil {
			log.Error("failed to save audit to history", "auditID", result.ID, "error", err)
		}
	}

	return result, nil
}
