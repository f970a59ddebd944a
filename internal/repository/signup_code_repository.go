package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-booking-api/internal/model"
)

// SignupCodeRepo consumes one-time staff signup codes.  Both methods run
// inside the caller's transaction so the code is locked until the new user
// row is committed.
type SignupCodeRepo struct{ db *sql.DB }

func NewSignupCodeRepo(db *sql.DB) *SignupCodeRepo { return &SignupCodeRepo{db: db} }

// LockUnusedTx selects the code FOR UPDATE.  A missing or already used code
// yields ErrSignupCodeInvalid.
func (r *SignupCodeRepo) LockUnusedTx(ctx context.Context, tx *sql.Tx, code string) (model.SignupCode, error) {
	var sc model.SignupCode
	err := tx.QueryRowContext(ctx,
		"SELECT id, code, generated_for, is_used FROM signup_codes WHERE code = ? FOR UPDATE", code).
		Scan(&sc.ID, &sc.Code, &sc.GeneratedFor, &sc.IsUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SignupCode{}, ErrSignupCodeInvalid
	}
	if err != nil {
		return model.SignupCode{}, err
	}
	if sc.IsUsed {
		return model.SignupCode{}, ErrSignupCodeInvalid
	}
	return sc, nil
}

// MarkUsedTx flips is_used to true.  The WHERE clause keeps the transition
// one-way.
func (r *SignupCodeRepo) MarkUsedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, "UPDATE signup_codes SET is_used = TRUE WHERE id = ? AND is_used = FALSE", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSignupCodeInvalid
	}
	return nil
}
