// backend/src/processors/categorizer.go
package processors

import (
	"strings"

	"github.com/openaudit/backend/src/models"
)

// categoryRule binds a category to its keyword substrings. The rules
// are matched in declaration order and the first hit wins, so overlaps
// like "netflix" (Entertainment and Subscriptions) resolve to whichever
// category is declared first. Reordering this table changes results.
type categoryRule struct {
	Name     string
	Keywords []string
}

var categoryRules = []categoryRule{
	{"Entertainment", []string{"movie", "cinema", "netflix", "spotify", "game", "entertainment", "streaming", "music", "theater", "ticket", "concert", "show", "theatre"}},
	{"Food", []string{"restaurant", "food", "cafe", "grocery", "supermarket", "dining", "eat", "lunch", "dinner", "breakfast", "zomato", "swiggy", "pizza", "burger", "mcdonalds", "dominos", "kfc", "starbucks", "foodpanda", "ubereats"}},
	{"Travel", []string{"flight", "hotel", "taxi", "uber", "travel", "trip", "booking", "train", "bus", "transport", "ola", "makemytrip", "goibibo", "yatra", "airline", "airport", "railway"}},
	{"Utilities", []string{"electricity", "water", "gas", "internet", "phone", "utility", "bill", "utility bill", "bsnl", "airtel", "jio", "vodafone", "reliance", "mobile", "broadband", "district", "municipal", "corporation"}},
	{"Education", []string{"school", "university", "course", "education", "tuition", "book", "textbook", "learning", "college", "institute", "coaching", "tuition fee", "exam", "admission"}},
	{"Healthcare", []string{"hospital", "doctor", "pharmacy", "medical", "health", "medicine", "clinic", "apollo", "medplus", "wellness", "diagnostic", "lab", "pharma"}},
	{"Shopping", []string{"amazon", "flipkart", "shopping", "store", "mall", "purchase", "buy", "myntra", "nykaa", "snapdeal", "ajio", "meesho", "online"}},
	{"Savings", []string{"savings", "deposit", "investment", "fd", "fixed deposit", "recurring deposit", "rd", "mutual fund", "sip", "insurance", "ppf", "epf", "zerodha", "groww", "upstox", "paytm money", "bse", "nse", "stock", "trading", "broker"}},
	{"Subscriptions", []string{"subscription", "monthly", "annual", "premium", "membership", "renewal", "plan", "google", "netflix", "spotify", "amazon prime"}},
	{"Transport", []string{"fuel", "petrol", "diesel", "parking", "metro", "subway", "auto", "rickshaw", "cab", "cng", "gas station", "petrol pump", "uber", "ola", "rapido"}},
	{"Payments", []string{"upi", "paytm", "phonepe", "google pay", "gpay", "bhimpay", "neokred", "payment", "transfer", "vishwas", "pavan"}},
}

// CategoryOther is the fallback for descriptions matching no keyword.
const CategoryOther = "Other"

// CategoryNames returns the declared category names in matching order,
// with the Other fallback appended.
func CategoryNames() []string {
	names := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		names = append(names, rule.Name)
	}
	return append(names, CategoryOther)
}

// Categorizer assigns transactions to spending categories by keyword
// substring matching. It is stateless and safe for concurrent use.
type Categorizer struct{}

// NewCategorizer creates a new Categorizer.
func NewCategorizer() *Categorizer {
	return &Categorizer{}
}

// CategorizeTransaction returns the category for a single description.
func (c *Categorizer) CategorizeTransaction(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Name
			}
		}
	}
	return CategoryOther
}

// CategorizeExpenses buckets transactions into categories and computes
// per-category totals and percentages. CategoryOrder preserves the
// first-encounter order of categories, which downstream tie-breaks
// depend on.
func (c *Categorizer) CategorizeExpenses(transactions []models.Transaction) *models.CategorizedData {
	data := &models.CategorizedData{
		Categories:          make(map[string][]models.Transaction),
		CategoryTotals:      make(map[string]float64),
		CategoryPercentages: make(map[string]float64),
		TransactionCount:    len(transactions),
	}

	for _, txn := range transactions {
		amount := txn.Amount
		if amount < 0 {
			amount = -amount
		}
		category := c.CategorizeTransaction(txn.Description)

		if _, seen := data.CategoryTotals[category]; !seen {
			data.CategoryOrder = append(data.CategoryOrder, category)
		}
		data.Categories[category] = append(data.Categories[category], models.Transaction{
			Amount:      amount,
			Description: txn.Description,
			Date:        txn.Date,
		})
		data.CategoryTotals[category] += amount
	}

	var total float64
	for _, amt := range data.CategoryTotals {
		total += amt
	}
	data.TotalAmount = total

	for _, category := range data.CategoryOrder {
		if total > 0 {
			data.CategoryPercentages[category] = data.CategoryTotals[category] / total * 100
		} else {
			data.CategoryPercentages[category] = 0
		}
	}

	return data
}
