// backend/src/handlers/auth_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/openaudit/backend/src/config"
	"github.com/openaudit/backend/src/database"
	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/security"
	"github.com/openaudit/backend/src/security/validation"
	"github.com/openaudit/backend/src/services"
	"github.com/openaudit/backend/src/utils"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var passwordRegex = regexp.MustCompile(`^.{6,}$`)

type AuthHandler struct {
	authService *security.AuthService
	otpService  *services.OTPService
}

func NewAuthHandler(authService *security.AuthService, otpService *services.OTPService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		otpService:  otpService,
	}
}

// Helper function to check if an email belongs to an admin.
func isAdmin(email string) bool {
	for _, adminEmail := range config.Cfg.AdminEmails {
		if strings.EqualFold(email, adminEmail) {
			return true
		}
	}
	return false
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	credentials.Username = validation.SanitizeText(strings.TrimSpace(credentials.Username))
	credentials.Email = strings.ToLower(validation.SanitizeText(strings.TrimSpace(credentials.Email)))
	credentials.Password = strings.TrimSpace(credentials.Password)

	if credentials.Username == "" && strings.Contains(credentials.Email, "@") {
		credentials.Username = strings.Split(credentials.Email, "@")[0]
	}

	if credentials.Username == "" {
		utils.SendJSONError(w, "Username is required", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringMaxLength(credentials.Username, 50, "Username"); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !emailRegex.MatchString(credentials.Email) {
		utils.SendJSONError(w, "Invalid email format", http.StatusBadRequest)
		return
	}
	if !passwordRegex.MatchString(credentials.Password) {
		utils.SendJSONError(w, "Password must be at least 6 characters long", http.StatusBadRequest)
		return
	}

	_, err := models.GetUserByUsername(database.DB, credentials.Username)
	if err == nil {
		utils.SendJSONError(w, "Username already exists", http.StatusConflict)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logger.L.Error("Error checking username uniqueness", "error", err)
		utils.SendJSONError(w, "Failed to process registration", http.StatusInternalServerError)
		return
	}

	_, err = models.GetUserByEmail(database.DB, credentials.Email)
	if err == nil {
		utils.SendJSONError(w, "Email address already in use", http.StatusConflict)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logger.L.Error("Error checking email uniqueness", "error", err)
		utils.SendJSONError(w, "Failed to process registration", http.StatusInternalServerError)
		return
	}

	totpSecret, err := h.otpService.GenerateSecret(credentials.Email)
	if err != nil {
		logger.L.Error("Failed to generate OTP secret", "error", err)
		utils.SendJSONError(w, "Failed to process registration", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Username:   credentials.Username,
		Email:      credentials.Email,
		TOTPSecret: totpSecret,
		IsVerified: false,
		IsAdmin:    isAdmin(credentials.Email),
	}
	if err := user.HashPassword(credentials.Password); err != nil {
		logger.L.Error("Failed to hash password", "error", err)
		utils.SendJSONError(w, "Failed to process registration", http.StatusInternalServerError)
		return
	}
	if err := user.CreateUser(database.DB); err != nil {
		logger.L.Error("Failed to create user in DB", "error", err)
		utils.SendJSONError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	h.issueVerificationCode(user)
	logger.L.Info("User registered, verification code issued", "userID", user.ID)

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully. Please verify your account with the code sent to your email.",
		"user_id": user.ID,
	})
}

// issueVerificationCode generates the current OTP for the user. Delivery is a
// log line until an email provider is configured.
func (h *AuthHandler) issueVerificationCode(user *models.User) {
	code, err := h.otpService.CurrentCode(user.TOTPSecret)
	if err != nil {
		logger.L.Error("Failed to generate verification code", "userID", user.ID, "error", err)
		return
	}
	logger.L.Info("Verification code issued", "userID", user.ID, "code", code)
}

func (h *AuthHandler) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.OTP = strings.TrimSpace(req.OTP)

	user, err := models.GetUserByEmail(database.DB, req.Email)
	if err != nil {
		utils.SendJSONError(w, "Invalid email or verification code", http.StatusBadRequest)
		return
	}
	if user.IsVerified {
		utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Account already verified."})
		return
	}
	if !h.otpService.ValidateCode(user.TOTPSecret, req.OTP) {
		logger.L.Warn("OTP validation failed", "userID", user.ID)
		utils.SendJSONError(w, "Invalid email or verification code", http.StatusBadRequest)
		return
	}
	if err := user.MarkVerified(database.DB); err != nil {
		logger.L.Error("Failed to mark user verified", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "Failed to verify account", http.StatusInternalServerError)
		return
	}

	logger.L.Info("User verified", "userID", user.ID)
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Account verified successfully. You can now log in."})
}

func (h *AuthHandler) ResendOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := models.GetUserByEmail(database.DB, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		utils.SendJSON(w, http.StatusOK, map[string]string{"message": "If the account exists, a new code has been sent."})
		return
	}
	if user.IsVerified {
		utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Account already verified."})
		return
	}

	h.issueVerificationCode(user)
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "If the account exists, a new code has been sent."})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	logger.L.Debug("Login request received", "remoteAddr", r.RemoteAddr)

	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		logger.L.Warn("Invalid request body for login", "error", err)
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	credentials.Email = strings.ToLower(validation.SanitizeText(strings.TrimSpace(credentials.Email)))

	user, err := models.GetUserByEmail(database.DB, credentials.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.L.Warn("Login failed: user not found", "email", credentials.Email)
		} else {
			logger.L.Error("User lookup failed for login", "error", err)
		}
		utils.SendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := user.CheckPassword(credentials.Password); err != nil {
		logger.L.Warn("Password check failed for login", "userID", user.ID)
		utils.SendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if !user.IsVerified {
		logger.L.Warn("Login attempt on unverified account", "userID", user.ID)
		h.issueVerificationCode(user)
		utils.SendJSON(w, http.StatusForbidden, map[string]string{
			"error": "Your account has not been verified. A new verification code has been sent.",
			"code":  "ACCOUNT_NOT_VERIFIED",
		})
		return
	}

	// The admin list can change after registration; re-derive at login and
	// persist so the admin middleware sees the same answer.
	if adminNow := isAdmin(user.Email); adminNow != user.IsAdmin {
		if err := user.UpdateAdminStatus(database.DB, adminNow); err != nil {
			logger.L.Error("Failed to update admin status at login", "userID", user.ID, "error", err)
		}
	}

	userIDStr := fmt.Sprintf("%d", user.ID)
	accessToken, err := h.authService.GenerateToken(userIDStr)
	if err != nil {
		logger.L.Error("Failed to generate access token", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		logger.L.Error("Failed to generate refresh token", "userID", user.ID, "error", err)
		utils.SendJSONError(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	logger.L.Info("User login successful, tokens generated", "userID", user.ID)

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		},
	})
}
