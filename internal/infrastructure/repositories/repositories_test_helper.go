package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		tier TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE ads (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		media_ref TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createMarketTables(t *testing.T, db *gorm.DB) {
	createUserTables(t, db)
	mustExec(t, db, `CREATE TABLE listings (
		id TEXT PRIMARY KEY,
		ad_id TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		base_price INTEGER NOT NULL,
		target_views INTEGER NOT NULL,
		duration_days INTEGER NOT NULL,
		status TEXT NOT NULL,
		current_highest_bid_id TEXT,
		expiry_date DATETIME NOT NULL,
		sold_at DATETIME,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE bids (
		id TEXT PRIMARY KEY,
		listing_id TEXT NOT NULL,
		bidder_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createLedgerTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount INTEGER NOT NULL,
		status TEXT NOT NULL,
		related_id TEXT,
		consumed BOOLEAN NOT NULL DEFAULT FALSE,
		metadata TEXT,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE wallet_accounts (
		user_id TEXT PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createKYCTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE kyc_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		legal_name TEXT NOT NULL,
		date_of_birth TEXT NOT NULL,
		address TEXT NOT NULL,
		id_type TEXT NOT NULL,
		id_number TEXT NOT NULL,
		id_image_ref TEXT NOT NULL,
		remarks TEXT,
		submitted_at DATETIME NOT NULL,
		reviewed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createWithdrawalTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE withdrawal_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		method TEXT NOT NULL,
		method_details TEXT,
		status TEXT NOT NULL,
		resolved_at DATETIME,
		completed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
