package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const staffColumns = `id, restaurant_id, email, hashed_password, full_name, role, phone, sms_enabled, email_enabled, is_active, created_at, updated_at`

func scanStaffUser(row interface{ Scan(dest ...any) error }) (StaffUser, error) {
	var u StaffUser
	err := row.Scan(&u.ID, &u.RestaurantID, &u.Email, &u.HashedPassword, &u.FullName,
		&u.Role, &u.Phone, &u.SMSEnabled, &u.EmailEnabled, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const listActiveStaff = `
SELECT ` + staffColumns + `
FROM staff_users
WHERE restaurant_id = $1 AND is_active = true
ORDER BY full_name
`

// ListActiveStaff returns the active users of one restaurant, with the
// contact and preference fields alert routing needs.
func (q *Queries) ListActiveStaff(ctx context.Context, restaurantID uuid.UUID) ([]StaffUser, error) {
	rows, err := q.db.Query(ctx, listActiveStaff, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []StaffUser
	for rows.Next() {
		u, err := scanStaffUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const getStaffByEmail = `
SELECT ` + staffColumns + `
FROM staff_users
WHERE email = $1 AND is_active = true
`

func (q *Queries) GetStaffByEmail(ctx context.Context, email string) (StaffUser, error) {
	return scanStaffUser(q.db.QueryRow(ctx, getStaffByEmail, email))
}

const getStaffByID = `
SELECT ` + staffColumns + `
FROM staff_users
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetStaffByID(ctx context.Context, id uuid.UUID) (StaffUser, error) {
	return scanStaffUser(q.db.QueryRow(ctx, getStaffByID, id))
}

type CreateStaffParams struct {
	RestaurantID   uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	Phone          pgtype.Text
	SMSEnabled     pgtype.Bool
	EmailEnabled   pgtype.Bool
}

const createStaff = `
INSERT INTO staff_users (restaurant_id, email, hashed_password, full_name, role, phone, sms_enabled, email_enabled)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + staffColumns

func (q *Queries) CreateStaff(ctx context.Context, arg CreateStaffParams) (StaffUser, error) {
	return scanStaffUser(q.db.QueryRow(ctx, createStaff,
		arg.RestaurantID, arg.Email, arg.HashedPassword, arg.FullName,
		arg.Role, arg.Phone, arg.SMSEnabled, arg.EmailEnabled))
}

type UpdateStaffParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Email        string
	FullName     string
	Role         string
	Phone        pgtype.Text
	SMSEnabled   pgtype.Bool
	EmailEnabled pgtype.Bool
}

const updateStaff = `
UPDATE staff_users
SET email = $3, full_name = $4, role = $5, phone = $6, sms_enabled = $7, email_enabled = $8, updated_at = now()
WHERE id = $1 AND restaurant_id = $2
RETURNING ` + staffColumns

func (q *Queries) UpdateStaff(ctx context.Context, arg UpdateStaffParams) (StaffUser, error) {
	return scanStaffUser(q.db.QueryRow(ctx, updateStaff,
		arg.ID, arg.RestaurantID, arg.Email, arg.FullName, arg.Role,
		arg.Phone, arg.SMSEnabled, arg.EmailEnabled))
}

type SoftDeleteStaffParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

const softDeleteStaff = `
UPDATE staff_users
SET is_active = false, updated_at = now()
WHERE id = $1 AND restaurant_id = $2
RETURNING id
`

func (q *Queries) SoftDeleteStaff(ctx context.Context, arg SoftDeleteStaffParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteStaff, arg.ID, arg.RestaurantID).Scan(&id)
	return id, err
}
