package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sportsys/tournament-admin/models"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminConflict = errors.New("admin with this email or username already exists")
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id int) (*models.Admin, error)
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

const adminColumns = `admin_id, username, email, password_hash, role, created_at`

func scanAdmin(rowScanner interface {
	Scan(dest ...interface{}) error
}, a *models.Admin) error {
	return rowScanner.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
}

func (r *postgresAdminRepository) Create(ctx context.Context, a *models.Admin) error {
	query := `
		INSERT INTO admins (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING admin_id, created_at`

	err := r.db.QueryRowContext(ctx, query, a.Username, a.Email, a.PasswordHash, a.Role).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrAdminConflict
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *postgresAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`

	a := &models.Admin{}
	if err := scanAdmin(r.db.QueryRowContext(ctx, query, email), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return a, nil
}

func (r *postgresAdminRepository) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE admin_id = $1`

	a := &models.Admin{}
	if err := scanAdmin(r.db.QueryRowContext(ctx, query, id), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin %d: %w", id, err)
	}
	return a, nil
}
