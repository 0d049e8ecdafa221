// backend/src/models/user_store.go
package models

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func (u *User) HashPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) CreateUser(db *sql.DB) error {
	u.CreatedAt = time.Now().Format(time.RFC3339)
	res, err := db.Exec(
		`INSERT INTO users (username, email, password_hash, totp_secret, is_verified, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.TOTPSecret, u.IsVerified, u.IsAdmin, u.CreatedAt)
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.TOTPSecret,
		&u.IsVerified, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userColumns = `id, username, email, password_hash, totp_secret, is_verified, is_admin, created_at`

func GetUserByEmail(db *sql.DB, email string) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func GetUserByUsername(db *sql.DB, username string) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func GetUserByID(db *sql.DB, id int64) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (u *User) MarkVerified(db *sql.DB) error {
	if _, err := db.Exec(`UPDATE users SET is_verified = 1 WHERE id = ?`, u.ID); err != nil {
		return err
	}
	u.IsVerified = true
	return nil
}

func (u *User) UpdateAdminStatus(db *sql.DB, isAdmin bool) error {
	if _, err := db.Exec(`UPDATE users SET is_admin = ? WHERE id = ?`, isAdmin, u.ID); err != nil {
		return err
	}
	u.IsAdmin = isAdmin
	return nil
}

func (u *User) UpdateTOTPSecret(db *sql.DB, secret string) error {
	if _, err := db.Exec(`UPDATE users SET totp_secret = ? WHERE id = ?`, secret, u.ID); err != nil {
		return err
	}
	u.TOTPSecret = secret
	return nil
}
