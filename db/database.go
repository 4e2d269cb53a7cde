package db

import (
	"database/sql"
	"fmt"
	"log"

	"photofolio/config"
	"photofolio/core/auth"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't
// exist, and seeds the admin account when seed credentials are configured.
func InitDB(cfg *config.Config) error {
	if err := createAdminsTable(); err != nil {
		return err
	}
	if err := createPhotosTable(); err != nil {
		return err
	}
	if err := seedAdmin(cfg); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createAdminsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS admins (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create admins table: %w", err)
	}
	log.Println("Admins table initialized successfully (or already exists).")
	return nil
}

func createPhotosTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS photos (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		album VARCHAR(255),
		url VARCHAR(767) NOT NULL,
		thumbnail_url VARCHAR(767),
		upload_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_photos_upload_date (upload_date),
		INDEX idx_photos_album (album)
	);
	`
	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create photos table: %w", err)
	}
	log.Println("Photos table initialized successfully (or already exists).")
	return nil
}

// seedAdmin creates the admin account from ADMIN_USERNAME/ADMIN_PASSWORD
// when configured. Existing accounts are left untouched so the seed is safe
// to run on every start.
func seedAdmin(cfg *config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Println("Admin seed credentials not configured, skipping admin seed.")
		return nil
	}

	var existingID int64
	err := DB.QueryRow("SELECT id FROM admins WHERE username = ?", cfg.AdminUsername).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check for existing admin %q: %w", cfg.AdminUsername, err)
	}
	if err == nil {
		log.Printf("Admin %q already exists with ID: %d. Skipping creation.", cfg.AdminUsername, existingID)
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	res, err := DB.Exec("INSERT INTO admins (username, password_hash) VALUES (?, ?)",
		cfg.AdminUsername, hashedPassword)
	if err != nil {
		return fmt.Errorf("failed to insert seed admin %q: %w", cfg.AdminUsername, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get ID of seed admin: %w", err)
	}
	log.Printf("Seed admin %q created with ID: %d", cfg.AdminUsername, id)
	return nil
}
