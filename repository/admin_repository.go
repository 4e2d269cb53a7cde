package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"photofolio/model"
)

// AdminRepository defines the interface for admin credential operations.
type AdminRepository interface {
	CreateAdmin(admin *model.Admin) (int64, error)
	GetAdminByUsername(username string) (*model.Admin, error)
}

// mysqlAdminRepository implements AdminRepository for MySQL.
type mysqlAdminRepository struct {
	db *sql.DB
}

// NewMySQLAdminRepository creates a new mysqlAdminRepository.
func NewMySQLAdminRepository(db *sql.DB) AdminRepository {
	return &mysqlAdminRepository{db: db}
}

// CreateAdmin adds a new admin account.
func (r *mysqlAdminRepository) CreateAdmin(admin *model.Admin) (int64, error) {
	query := "INSERT INTO admins (username, password_hash) VALUES (?, ?)"
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare create admin statement: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(admin.Username, admin.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return 0, ErrDuplicateAdmin
		}
		return 0, fmt.Errorf("failed to execute create admin statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for admin: %w", err)
	}
	return id, nil
}

// GetAdminByUsername retrieves an admin by username. Returns nil when the
// account does not exist.
func (r *mysqlAdminRepository) GetAdminByUsername(username string) (*model.Admin, error) {
	query := "SELECT id, username, password_hash, created_at, updated_at FROM admins WHERE username = ?"
	row := r.db.QueryRow(query, username)
	admin := &model.Admin{}
	err := row.Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // admin not found
		}
		return nil, fmt.Errorf("failed to scan admin row for username %s: %w", username, err)
	}
	return admin, nil
}
