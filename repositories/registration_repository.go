package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/sportsys/tournament-admin/models"
)

var (
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrRegistrationConflict     = errors.New("registration conflict: player or team already registered for this event")
	ErrRegistrationEventInvalid = errors.New("registration event conflict or invalid")
	ErrRegistrationRefInvalid   = errors.New("registration player or team conflict or invalid")
	ErrRegistrationRefViolation = errors.New("registration reference violation: either player_id or team_id must be set, but not both")
)

type ListRegistrationsFilter struct {
	EventID  *int
	PlayerID *int
	TeamID   *int
	Status   *models.RegistrationStatus
}

type RegistrationRepository interface {
	// Create вставляет заявку. Должен вызываться внутри транзакции,
	// держащей блокировку строки события.
	Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	GetByIDExec(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error)
	CountByEventAndStatus(ctx context.Context, exec SQLExecutor, eventID int, status models.RegistrationStatus) (int, error)
	FindActive(ctx context.Context, exec SQLExecutor, eventID int, ref models.ParticipantRef) (*models.Registration, error)
	// OldestWaitlisted возвращает самую раннюю заявку в листе ожидания,
	// заблокированную для обновления, либо nil, если лист пуст.
	OldestWaitlisted(ctx context.Context, exec SQLExecutor, eventID int) (*models.Registration, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RegistrationStatus) error
	UpdatePayment(ctx context.Context, id int, paymentStatus string) error
	List(ctx context.Context, filter ListRegistrationsFilter) ([]*models.Registration, error)
	// Delete вызывается внутри транзакции, держащей блокировку строки
	// заявки: сервис сперва проверяет её статус.
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

const registrationColumns = `registration_id, event_id, player_id, team_id, status, payment_status, registration_date`

func scanRegistration(rowScanner interface {
	Scan(dest ...interface{}) error
}, reg *models.Registration) error {
	return rowScanner.Scan(
		&reg.ID, &reg.EventID, &reg.PlayerID, &reg.TeamID,
		&reg.Status, &reg.PaymentStatus, &reg.RegistrationDate,
	)
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (event_id, player_id, team_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING registration_id, payment_status, registration_date`

	err := exec.QueryRowContext(ctx, query,
		reg.EventID, reg.PlayerID, reg.TeamID, reg.Status,
	).Scan(&reg.ID, &reg.PaymentStatus, &reg.RegistrationDate)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "registrations_event_player_active_key" ||
					pqErr.Constraint == "registrations_event_team_active_key" {
					return ErrRegistrationConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "registrations_event_id_fkey" {
					return ErrRegistrationEventInvalid
				}
				return ErrRegistrationRefInvalid
			case "23514": // check_violation
				if pqErr.Constraint == "chk_registration_ref" {
					return ErrRegistrationRefViolation
				}
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) findOne(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.Registration, error) {
	reg := &models.Registration{}
	if err := scanRegistration(exec.QueryRowContext(ctx, query, args...), reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	return r.GetByIDExec(ctx, r.db, id)
}

func (r *postgresRegistrationRepository) GetByIDExec(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE registration_id = $1`
	return r.findOne(ctx, exec, query, id)
}

func (r *postgresRegistrationRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE registration_id = $1 FOR UPDATE`
	return r.findOne(ctx, exec, query, id)
}

func (r *postgresRegistrationRepository) CountByEventAndStatus(ctx context.Context, exec SQLExecutor, eventID int, status models.RegistrationStatus) (int, error) {
	var count int
	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = $2`,
		eventID, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations for event %d: %w", eventID, err)
	}
	return count, nil
}

func (r *postgresRegistrationRepository) FindActive(ctx context.Context, exec SQLExecutor, eventID int, ref models.ParticipantRef) (*models.Registration, error) {
	var column string
	if ref.IsTeam() {
		column = "team_id"
	} else {
		column = "player_id"
	}
	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE event_id = $1 AND ` + column + ` = $2 AND status <> $3`
	return r.findOne(ctx, exec, query, eventID, ref.ID(), models.RegistrationCancelled)
}

func (r *postgresRegistrationRepository) OldestWaitlisted(ctx context.Context, exec SQLExecutor, eventID int) (*models.Registration, error) {
	// registration_id разрешает ничью при равных registration_date.
	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE event_id = $1 AND status = $2
		ORDER BY registration_date ASC, registration_id ASC
		LIMIT 1
		FOR UPDATE`

	reg, err := r.findOne(ctx, exec, query, eventID, models.RegistrationWaitlisted)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RegistrationStatus) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE registrations SET status = $1 WHERE registration_id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) UpdatePayment(ctx context.Context, id int, paymentStatus string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET payment_status = $1 WHERE registration_id = $2`, paymentStatus, id)
	if err != nil {
		return fmt.Errorf("failed to update registration payment status: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) List(ctx context.Context, filter ListRegistrationsFilter) ([]*models.Registration, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + registrationColumns + ` FROM registrations WHERE 1=1`)

	args := make([]interface{}, 0, 4)
	placeholderIndex := 1

	if filter.EventID != nil {
		queryBuilder.WriteString(" AND event_id = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.EventID)
		placeholderIndex++
	}
	if filter.PlayerID != nil {
		queryBuilder.WriteString(" AND player_id = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.PlayerID)
		placeholderIndex++
	}
	if filter.TeamID != nil {
		queryBuilder.WriteString(" AND team_id = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.TeamID)
		placeholderIndex++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
	}

	queryBuilder.WriteString(" ORDER BY registration_date DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		registrations = append(registrations, &reg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return registrations, nil
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM registrations WHERE registration_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete registration %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}
