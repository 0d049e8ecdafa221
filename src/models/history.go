// backend/src/models/history.go
package models

// HistoryRecord is one saved analysis as listed for a user. Summary columns
// are duplicated out of the payload so history listings stay cheap.
type HistoryRecord struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	AccountType       string         `json:"account_type"` // "personal" or "company"
	CreatedAt         string         `json:"created_at"`
	TotalTransactions int            `json:"total_transactions"`
	TotalAmount       float64        `json:"total_amount"`
	Payload           map[string]any `json:"payload"`
}

// Contract tracks the signing lifecycle between a company and the platform.
// Status moves pending -> signed_admin -> active.
type Contract struct {
	ID                    string  `json:"id"`
	CompanyID             string  `json:"company_id"`
	CompanyName           string  `json:"company_name"`
	Status                string  `json:"status"`
	RequestedAt           string  `json:"requested_at"`
	SignedAdminAt         *string `json:"signed_admin_at"`
	SignedCompanyAt       *string `json:"signed_company_at"`
	AdminSignature        *string `json:"admin_signature"`
	CompanySignature      *string `json:"company_signature"`
	SignedContractPDFPath *string `json:"signed_contract_pdf_path"`
}

// Contract statuses.
const (
	ContractStatusPending     = "pending"
	ContractStatusSignedAdmin = "signed_admin"
	ContractStatusActive      = "active"
)

// User is an account row. PasswordHash and TOTPSecret never serialize.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	TOTPSecret   string `json:"-"`
	IsVerified   bool   `json:"is_verified"`
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    string `json:"created_at"`
}
