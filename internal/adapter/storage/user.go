package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
)

var _ UserStore = (*UserRepository)(nil)

// UserRepository is the Postgres-backed UserStore.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const profileColumns = `id, email, full_name, username, phone_number, is_admin, is_verified, balance, profile_picture_url, created_at`

// CreateUser inserts the credential account and its profile row inside
// one transaction. A duplicate email rolls back both inserts.
func (r *UserRepository) CreateUser(ctx context.Context, user NewUser) (domain.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback(ctx)

	var accountID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (email, password_hash)
		VALUES ($1, $2) RETURNING id`, user.Email, user.PasswordHash).Scan(&accountID)
	if err != nil {
		return domain.User{}, mapConflict(err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO profiles (id, email, full_name, username, phone_number, is_admin, is_verified, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+profileColumns,
		accountID, user.Email, user.FullName, user.Username, user.PhoneNumber,
		user.IsAdmin, user.IsVerified, user.Balance)
	created, err := scanProfile(row)
	if err != nil {
		return domain.User{}, mapConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, err
	}
	return created, nil
}

// FindCredentials looks up the account matching an email for login.
func (r *UserRepository) FindCredentials(ctx context.Context, email string) (Credentials, error) {
	var creds Credentials
	err := r.db.QueryRow(ctx,
		`SELECT id, password_hash FROM accounts WHERE email = $1`, email).
		Scan(&creds.AccountID, &creds.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// GetByID fetches a single profile mapped to a User.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

// List returns every profile, mapped totally so a row with missing
// optional columns still yields a usable record.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET balance = $1 WHERE id = $2`, balance, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateInfo writes only the fields present in the update. A pointer to
// an empty string clears the column; nil leaves it alone.
func (r *UserRepository) UpdateInfo(ctx context.Context, id uuid.UUID, update domain.UserUpdate) error {
	if update.Empty() {
		return nil
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("email", update.Email)
	add("full_name", update.FullName)
	add("username", update.Username)
	add("phone_number", update.PhoneNumber)
	add("profile_picture_url", update.ProfilePictureURL)

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET is_verified = $1 WHERE id = $2`, verified, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (domain.User, error) {
	var p domain.ProfileRow
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Username, &p.PhoneNumber,
		&p.IsAdmin, &p.IsVerified, &p.Balance, &p.ProfilePictureURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return domain.UserFromProfile(p), nil
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}
