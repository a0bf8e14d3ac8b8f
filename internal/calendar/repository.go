package calendar

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTokenNotFound = errors.New("calendar token not found")

type Repository interface {
	GetOrCreateToken(ctx context.Context, userID int) (string, error)
	FindUserByToken(ctx context.Context, token string) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func newToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (r *repository) GetOrCreateToken(ctx context.Context, userID int) (string, error) {
	var token string
	err := r.db.GetContext(ctx, &token,
		`SELECT token FROM calendar_tokens WHERE user_id = $1`, userID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	token, err = newToken()
	if err != nil {
		return "", err
	}

	// A concurrent first request may have inserted already; the
	// conflict clause keeps whichever token landed first.
	err = r.db.GetContext(ctx, &token, `
		INSERT INTO calendar_tokens (user_id, token)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET token = calendar_tokens.token
		RETURNING token
	`, userID, token)
	if err != nil {
		return "", err
	}

	return token, nil
}

func (r *repository) FindUserByToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := r.db.GetContext(ctx, &userID,
		`SELECT user_id FROM calendar_tokens WHERE token = $1`, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTokenNotFound
		}
		return 0, err
	}

	return userID, nil
}
