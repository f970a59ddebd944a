package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-booking-api/internal/model"
)

// UserRepo reads and writes the users table.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// userColumns is shared by every SELECT that scans a full model.User.
const userColumns = "id, firstname, lastname, username, COALESCE(about, ''), email, password, avatarurl, role, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Username, &u.About, &u.Email,
		&u.PasswordHash, &u.AvatarURL, &u.Role, &u.CreatedAt)
	return u, err
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts u (PasswordHash already set) and returns its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	return createUser(ctx, r.db, u)
}

// CreateTx is Create inside an existing transaction.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, u *model.User) (uint64, error) {
	return createUser(ctx, tx, u)
}

func createUser(ctx context.Context, ex execer, u *model.User) (uint64, error) {
	const q = "INSERT INTO users (firstname, lastname, username, about, email, password, avatarurl, role) VALUES (?,?,?,?,?,?,?,?)"
	res, err := ex.ExecContext(ctx, q,
		u.Firstname, u.Lastname, u.Username, u.About, strings.TrimSpace(u.Email), u.PasswordHash, u.AvatarURL, u.Role)
	if err != nil {
		return 0, mapDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ? LIMIT 1", username))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// RoleByID returns only the role column.
func (r *UserRepo) RoleByID(ctx context.Context, id uint64) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx, "SELECT role FROM users WHERE id = ?", id).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	return role, err
}

// OwnerOfBooking returns the user who created the booking.
func (r *UserRepo) OwnerOfBooking(ctx context.Context, bookingID uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT u.id, u.firstname, u.lastname, u.username, COALESCE(u.about, ''), u.email, u.password, u.avatarurl, u.role, u.created_at "+
			"FROM bookings b JOIN users u ON u.id = b.user_id WHERE b.id = ?", bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrBookingNotFound
	}
	return u, err
}

// List returns one page of users ordered by id.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UserUpdate is the allow-list of columns a profile update may set.  A nil
// field is left unchanged.
type UserUpdate struct {
	Firstname    *string
	Lastname     *string
	About        *string
	Email        *string
	AvatarURL    *string
	Role         *string
	PasswordHash *string
}

// assignments returns the SET clause fragments and their arguments in a
// fixed column order.
func (u UserUpdate) assignments() ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("firstname", u.Firstname)
	add("lastname", u.Lastname)
	add("about", u.About)
	add("email", u.Email)
	add("avatarurl", u.AvatarURL)
	add("role", u.Role)
	add("password", u.PasswordHash)
	return sets, args
}

// Empty reports whether the update sets no column.
func (u UserUpdate) Empty() bool {
	sets, _ := u.assignments()
	return len(sets) == 0
}

// Update applies upd to user id.  It returns ErrUserNotFound when no row has
// that id.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) error {
	sets, args := upd.assignments()
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return mapDuplicate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user.  Bookings, messages and favourites cascade.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
