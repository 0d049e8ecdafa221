// backend/src/services/analysis_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/parsers"
	"github.com/openaudit/backend/src/processors"
	"github.com/openaudit/backend/src/utils"
)

type analysisServiceImpl struct {
	extractor   *parsers.FileExtractor
	categorizer *processors.Categorizer
	insights    *processors.InsightProcessor
	scoring     ScoringService
	history     HistoryService
}

// NewAnalysisService creates the orchestrating analysis service.
// history may be nil; persistence failures never fail an analysis either
// way.
func NewAnalysisService(scoring ScoringService, history HistoryService) AnalysisService {
	return &analysisServiceImpl{
		extractor:   parsers.NewFileExtractor(),
		categorizer: processors.NewCategorizer(),
		insights:    processors.NewInsightProcessor(),
		scoring:     scoring,
		history:     history,
	}
}

// ExtractBatch runs the file extractor over every file and merges the
// per-file results. There is always at least one transaction per file.
func (s *analysisServiceImpl) extractBatch(files []UploadedFile) ([]models.Transaction, []models.FileIssues, []models.FileIssues, []models.MissingValueEntry) {
	var (
		transactions []models.Transaction
		fileErrors   []models.FileIssues
		fileWarnings []models.FileIssues
		missing      []models.MissingValueEntry
	)
	for _, file := range files {
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
	return transactions, fileErrors, fileWarnings, missing
}

// validateTransactions enforces the canonical shape: numeric non-negative
// amount, non-empty description, present date.
func validateTransactions(transactions []models.Transaction) []models.Transaction {
	valid := make([]models.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		amount := txn.Amount
		if amount < 0 {
			amount = -amount
		}
		description := txn.Description
		if description == "" {
			description = "Transaction"
		}
		date := txn.Date
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		valid = append(valid, models.Transaction{Amount: amount, Description: description, Date: date})
	}
	if len(valid) == 0 {
		valid = append(valid, models.Transaction{
			Amount:      0.0,
			Description: "File uploaded successfully",
			Date:        time.Now().Format("2006-01-02"),
		})
	}
	return valid
}

func (s *analysisServiceImpl) ProcessData(transactions []models.Transaction) models.ProcessedData {
	processed := models.ProcessedData{
		TotalTransactions: len(transactions),
		Transactions:      make([]models.Transaction, 0, len(transactions)),
	}

	var minDate, maxDate time.Time
	haveDate := false
	for _, txn := range transactions {
		amount := txn.Amount
		if amount < 0 {
			amount = -amount
		}
		processed.TotalAmount += amount
		processed.Transactions = append(processed.Transactions, models.Transaction{
			Amount:      amount,
			Description: txn.Description,
			Date:        txn.Date,
		})

		if t, err := time.Parse("2006-01-02", txn.Date); err == nil {
			if !haveDate || t.Before(minDate) {
				minDate = t
			}
			if !haveDate || t.After(maxDate) {
				maxDate = t
			}
			haveDate = true
		}
	}

	if haveDate {
		start := minDate.Format("2006-01-02")
		end := maxDate.Format("2006-01-02")
		processed.DateRange = models.DateRange{Start: &start, End: &end}
	}

	return processed
}

func (s *analysisServiceImpl) AnalyzeBatch(ctx context.Context, files []UploadedFile, userID, accountType string) (*models.AnalysisResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFilesProvided
	}
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	log := logger.FromContext(ctx)
	log.Info("starting batch analysis", "userID", userID, "accountType", accountType, "files", len(files))

	extracted, fileErrors, fileWarnings, missing := s.extractBatch(files)
	transactions := validateTransactions(extracted)

	processed := s.ProcessData(transactions)
	categorized := s.categorizer.CategorizeExpenses(processed.Transactions)
	insights := s.insights.GenerateInsights(categorized)
	visualizations := s.insights.GenerateVisualizationData(categorized)
	smartScore := s.scoring.CalculateSmartScore(categorized)

	result := &models.AnalysisResult{
		ProcessedData:  processed,
		Insights:       insights,
		Visualizations: visualizations,
		SmartScore:     smartScore,
		FileErrors:     emptyIfNilIssues(fileErrors),
		FileWarnings:   emptyIfNilIssues(fileWarnings),
		MissingValues:  missing,
		ID:             fmt.Sprintf("analysis_%s", uuid.NewString()),
	}

	// History persistence is best-effort: a failed save is logged and
	// the analysis is still returned.
	if s.history != nil {
		if id, err := s.history.SaveAnalysis(userID, accountType, result); err != nil {
			log.Error("failed to save analysis to history", "userID", userID, "error", err)
		} else {
			result.ID = id
		}
	}

	log.Info("batch analysis complete",
		"userID", userID,
		"transactions", result.TotalTransactions,
		"totalAmount", utils.RoundFloat(result.TotalAmount, 2),
		"score", smartScore.Score)

	return result, nil
}

func emptyIfNilIssues(issues []models.FileIssues) []models.FileIssues {
	if issues == nil {
		return []models.FileIssues{}
	}
	return issues
}
