package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmnet/backend/internal/domain"
)

const userColumns = "id, username, password_hash, full_name, avatar_url, farm_type, crops, following, followers, created_at"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, full_name, avatar_url, farm_type, crops, following, followers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.FullName,
		user.AvatarURL, user.FarmType, user.Crops,
		user.Following, user.Followers, user.CreatedAt,
	)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (r *UserRepo) ListByUsernames(ctx context.Context, usernames []string) ([]domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = ANY($1)"
	rows, err := r.pool.Query(ctx, query, usernames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY created_at DESC"
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// AddFollow records follower -> target on both follow lists. The guarded
// array updates keep each list duplicate-free without a read-modify-write
// round trip.
func (r *UserRepo) AddFollow(ctx context.Context, follower, target string) error {
	query := `
		UPDATE users SET following = array_append(following, $2)
		WHERE username = $1 AND NOT following @> ARRAY[$2]`
	if _, err := r.pool.Exec(ctx, query, follower, target); err != nil {
		return err
	}

	query = `
		UPDATE users SET followers = array_append(followers, $2)
		WHERE username = $1 AND NOT followers @> ARRAY[$2]`
	_, err := r.pool.Exec(ctx, query, target, follower)
	return err
}

func (r *UserRepo) RemoveFollow(ctx context.Context, follower, target string) error {
	query := `UPDATE users SET following = array_remove(following, $2) WHERE username = $1`
	if _, err := r.pool.Exec(ctx, query, follower, target); err != nil {
		return err
	}

	query = `UPDATE users SET followers = array_remove(followers, $2) WHERE username = $1`
	_, err := r.pool.Exec(ctx, query, target, follower)
	return err
}

func (r *UserRepo) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FullName,
		&u.AvatarURL, &u.FarmType, &u.Crops,
		&u.Following, &u.Followers, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.PasswordHash, &u.FullName,
			&u.AvatarURL, &u.FarmType, &u.Crops,
			&u.Following, &u.Followers, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
