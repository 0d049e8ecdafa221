// backend/src/models/user_store_test.go
package models

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const usersSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    totp_secret TEXT NOT NULL DEFAULT '',
    is_verified INTEGER NOT NULL DEFAULT 0,
    is_admin INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
);`

func openUserDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(usersSchema)
	require.NoError(t, err)
	return db
}

func TestPasswordHashing(t *testing.T) {
	var u User
	require.NoError(t, u.HashPassword("S3cure!pass"))
	assert.NotEqual(t, "S3cure!pass", u.PasswordHash)

	assert.NoError(t, u.CheckPassword("S3cure!pass"))
	assert.Error(t, u.CheckPassword("wrong"))
}

func TestCreateAndGetUser(t *testing.T) {
	db := openUserDB(t)

	u := &User{
		Username:   "alice",
		Email:      "alice@example.com",
		TOTPSecret: "SECRET",
	}
	require.NoError(t, u.HashPassword("S3cure!pass"))
	require.NoError(t, u.CreateUser(db))
	assert.Greater(t, u.ID, int64(0))
	assert.NotEmpty(t, u.CreatedAt)

	byEmail, err := GetUserByEmail(db, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "alice", byEmail.Username)
	assert.Equal(t, "SECRET", byEmail.TOTPSecret)
	assert.False(t, byEmail.IsVerified)

	byUsername, err := GetUserByUsername(db, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byUsername.ID)

	byID, err := GetUserByID(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = GetUserByEmail(db, "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := openUserDB(t)

	first := &User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, first.CreateUser(db))

	dup := &User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"}
	assert.Error(t, dup.CreateUser(db))
}

func TestUpdateAdminStatus(t *testing.T) {
	db := openUserDB(t)

	u := &User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"}
	require.NoError(t, u.CreateUser(db))
	assert.False(t, u.IsAdmin)

	require.NoError(t, u.UpdateAdminStatus(db, true))
	assert.True(t, u.IsAdmin)

	stored, err := GetUserByID(db, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)

	require.NoError(t, u.UpdateAdminStatus(db, false))
	stored, err = GetUserByID(db, u.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAdmin)
}

func TestMarkVerifiedAndUpdateTOTPSecret(t *testing.T) {
	db := openUserDB(t)

	u := &User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, u.CreateUser(db))

	require.NoError(t, u.MarkVerified(db))
	assert.True(t, u.IsVerified)

	require.NoError(t, u.UpdateTOTPSecret(db, "NEWSECRET"))

	stored, err := GetUserByID(db, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Equal(t, "NEWSECRET", stored.TOTPSecret)
}
