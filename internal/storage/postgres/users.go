package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"seatwise/internal/models"
	"seatwise/internal/storage"
)

func (s *Storage) CreateUser(ctx context.Context, name, email, passwordHash string, role models.Role) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	err := s.q(ctx).QueryRowContext(ctx, query, name, email, passwordHash, role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1`

	var user models.User
	err := s.q(ctx).QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *Storage) SetUserRole(ctx context.Context, userID int64, role models.Role) (*models.User, error) {
	query := `
		UPDATE users
		SET role = $2
		WHERE id = $1
		RETURNING id, name, email, password_hash, role, created_at`

	var user models.User
	err := s.q(ctx).QueryRowContext(ctx, query, userID, role).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set user role: %w", err)
	}

	return &user, nil
}
