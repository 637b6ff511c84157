package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// utf8mb4 everywhere so Vietnamese content round-trips.  Comment
// timestamps are DATETIME(6): second resolution would let two
// comments posted in the same second come back out of posting order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			username VARCHAR(64) NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			full_name VARCHAR(190) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'USER',
			phone VARCHAR(32) NULL,
			organization VARCHAR(190) NULL,
			preferred_language VARCHAR(2) NOT NULL DEFAULT 'en',
			is_locked TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_username (username)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			user_id BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id),
			UNIQUE KEY uq_refresh_hash (token_hash),
			KEY idx_refresh_user (user_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS scholarships (
			id VARCHAR(64) NOT NULL,
			title_en VARCHAR(255) NOT NULL,
			title_vi VARCHAR(255) NOT NULL,
			organization_en VARCHAR(255) NOT NULL,
			organization_vi VARCHAR(255) NOT NULL,
			description_en TEXT NOT NULL,
			description_vi TEXT NOT NULL,
			eligibility_en TEXT NOT NULL,
			eligibility_vi TEXT NOT NULL,
			amount_usd BIGINT NOT NULL DEFAULT 0,
			image_url VARCHAR(512) NOT NULL DEFAULT '',
			website VARCHAR(512) NOT NULL DEFAULT '',
			date_uploaded DATETIME NOT NULL,
			tags TEXT NOT NULL,
			comments_locked TINYINT(1) NOT NULL DEFAULT 0,
			PRIMARY KEY (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS scholarship_comments (
			id VARCHAR(64) NOT NULL,
			scholarship_id VARCHAR(64) NOT NULL,
			user_id BIGINT UNSIGNED NOT NULL,
			user_full_name VARCHAR(190) NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			is_hidden TINYINT(1) NOT NULL DEFAULT 0,
			PRIMARY KEY (id),
			KEY idx_comments_scholarship (scholarship_id, created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS saved_scholarships (
			user_id BIGINT UNSIGNED NOT NULL,
			scholarship_id VARCHAR(64) NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, scholarship_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables the service needs if they are
// missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
