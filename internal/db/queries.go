// internal/db/queries.go
package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same query layer
// serves direct calls and calls inside RunInTx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries is the hand-written query layer over the reservation schema.
type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// ---------------------------------------------------------------- users

const userColumns = `id, first_name, last_name, email, phone, password_hash, role, created_at, last_access_at`

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.LastAccessAt)
	return u, err
}

type CreateUserParams struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        sql.NullString
	PasswordHash string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, email, phone, password_hash, role)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		arg.FirstName, arg.LastName, arg.Email, arg.Phone, arg.PasswordHash, arg.Role,
	)
	return scanUser(row)
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (q *Queries) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count)
	return count > 0, err
}

func (q *Queries) TouchUserLastAccess(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE users SET last_access_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// -------------------------------------------------------- installations

const installationColumns = `id, name, type, number, active, created_at`

func scanInstallation(row *sql.Row) (Installation, error) {
	var inst Installation
	err := row.Scan(&inst.ID, &inst.Name, &inst.Type, &inst.Number, &inst.Active, &inst.CreatedAt)
	return inst, err
}

type CreateInstallationParams struct {
	Name   string
	Type   string
	Number sql.NullInt64
	Active bool
}

func (q *Queries) CreateInstallation(ctx context.Context, arg CreateInstallationParams) (Installation, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO installations (name, type, number, active)
		VALUES (?, ?, ?, ?)
		RETURNING `+installationColumns,
		arg.Name, arg.Type, arg.Number, arg.Active,
	)
	return scanInstallation(row)
}

type UpdateInstallationParams struct {
	ID     int64
	Name   string
	Type   string
	Number sql.NullInt64
	Active bool
}

func (q *Queries) UpdateInstallation(ctx context.Context, arg UpdateInstallationParams) (Installation, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE installations
		SET name = ?, type = ?, number = ?, active = ?
		WHERE id = ?
		RETURNING `+installationColumns,
		arg.Name, arg.Type, arg.Number, arg.Active, arg.ID,
	)
	return scanInstallation(row)
}

func (q *Queries) GetInstallationByID(ctx context.Context, id int64) (Installation, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+installationColumns+` FROM installations WHERE id = ?`, id)
	return scanInstallation(row)
}

type GetInstallationByTypeAndNumberParams struct {
	Type   string
	Number int64
}

func (q *Queries) GetInstallationByTypeAndNumber(ctx context.Context, arg GetInstallationByTypeAndNumberParams) (Installation, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+installationColumns+` FROM installations WHERE type = ? AND number = ?`,
		arg.Type, arg.Number,
	)
	return scanInstallation(row)
}

func (q *Queries) listInstallations(ctx context.Context, query string, args ...any) ([]Installation, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installations []Installation
	for rows.Next() {
		var inst Installation
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Type, &inst.Number, &inst.Active, &inst.CreatedAt); err != nil {
			return nil, err
		}
		installations = append(installations, inst)
	}
	return installations, rows.Err()
}

func (q *Queries) ListInstallations(ctx context.Context) ([]Installation, error) {
	return q.listInstallations(ctx, `SELECT `+installationColumns+` FROM installations ORDER BY name ASC`)
}

func (q *Queries) ListActiveInstallations(ctx context.Context) ([]Installation, error) {
	return q.listInstallations(ctx, `SELECT `+installationColumns+` FROM installations WHERE active = 1 ORDER BY name ASC`)
}

func (q *Queries) DeleteInstallation(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, `DELETE FROM installations WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// --------------------------------------------------------- reservations

const reservationColumns = `id, user_id, installation_id, start_time, end_time, status, code, amount_cents, verified_at, created_at`

const reservationDetailQuery = `
	SELECT r.id, r.user_id, r.installation_id, r.start_time, r.end_time, r.status,
	       r.code, r.amount_cents, r.verified_at, r.created_at,
	       u.email, i.name
	FROM reservations r
	JOIN users u ON u.id = r.user_id
	JOIN installations i ON i.id = r.installation_id`

func scanReservation(row *sql.Row) (Reservation, error) {
	var r Reservation
	err := row.Scan(&r.ID, &r.UserID, &r.InstallationID, &r.StartTime, &r.EndTime,
		&r.Status, &r.Code, &r.AmountCents, &r.VerifiedAt, &r.CreatedAt)
	return r, err
}

type CreateReservationParams struct {
	UserID         int64
	InstallationID int64
	StartTime      time.Time
	EndTime        time.Time
	Status         string
	Code           string
	AmountCents    int64
}

func (q *Queries) CreateReservation(ctx context.Context, arg CreateReservationParams) (Reservation, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO reservations (user_id, installation_id, start_time, end_time, status, code, amount_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+reservationColumns,
		arg.UserID, arg.InstallationID, arg.StartTime, arg.EndTime, arg.Status, arg.Code, arg.AmountCents,
	)
	return scanReservation(row)
}

func (q *Queries) GetReservationByID(ctx context.Context, id int64) (Reservation, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	return scanReservation(row)
}

func (q *Queries) GetReservationDetail(ctx context.Context, id int64) (ReservationDetail, error) {
	row := q.db.QueryRowContext(ctx, reservationDetailQuery+` WHERE r.id = ?`, id)
	var d ReservationDetail
	err := row.Scan(&d.ID, &d.UserID, &d.InstallationID, &d.StartTime, &d.EndTime, &d.Status,
		&d.Code, &d.AmountCents, &d.VerifiedAt, &d.CreatedAt, &d.UserEmail, &d.InstallationName)
	return d, err
}

func (q *Queries) listReservationDetails(ctx context.Context, query string, args ...any) ([]ReservationDetail, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []ReservationDetail
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.InstallationID, &d.StartTime, &d.EndTime, &d.Status,
			&d.Code, &d.AmountCents, &d.VerifiedAt, &d.CreatedAt, &d.UserEmail, &d.InstallationName); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

type ListUserReservationDetailsParams struct {
	UserID int64
	Status string
}

func (q *Queries) ListUserReservationDetails(ctx context.Context, arg ListUserReservationDetailsParams) ([]ReservationDetail, error) {
	return q.listReservationDetails(ctx,
		reservationDetailQuery+` WHERE r.user_id = ? AND r.status = ? ORDER BY r.start_time ASC`,
		arg.UserID, arg.Status,
	)
}

type ListInstallationReservationDetailsParams struct {
	InstallationID int64
	Status         string
}

func (q *Queries) ListInstallationReservationDetails(ctx context.Context, arg ListInstallationReservationDetailsParams) ([]ReservationDetail, error) {
	return q.listReservationDetails(ctx,
		reservationDetailQuery+` WHERE r.installation_id = ? AND r.status = ? ORDER BY r.start_time ASC`,
		arg.InstallationID, arg.Status,
	)
}

type ListReservationDetailsStartingBetweenParams struct {
	Status    string
	StartTime time.Time
	EndTime   time.Time
}

func (q *Queries) ListReservationDetailsStartingBetween(ctx context.Context, arg ListReservationDetailsStartingBetweenParams) ([]ReservationDetail, error) {
	return q.listReservationDetails(ctx,
		reservationDetailQuery+` WHERE r.status = ? AND r.start_time >= ? AND r.start_time < ? ORDER BY r.start_time ASC`,
		arg.Status, arg.StartTime, arg.EndTime,
	)
}

func (q *Queries) listReservations(ctx context.Context, query string, args ...any) ([]Reservation, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.ID, &r.UserID, &r.InstallationID, &r.StartTime, &r.EndTime,
			&r.Status, &r.Code, &r.AmountCents, &r.VerifiedAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

type ListInstallationReservationsOverlappingParams struct {
	InstallationID int64
	Status         string
	StartTime      time.Time
	EndTime        time.Time
}

// ListInstallationReservationsOverlapping returns reservations on one
// installation whose half-open interval overlaps [StartTime, EndTime).
func (q *Queries) ListInstallationReservationsOverlapping(ctx context.Context, arg ListInstallationReservationsOverlappingParams) ([]Reservation, error) {
	return q.listReservations(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE installation_id = ? AND status = ? AND start_time < ? AND ? < end_time
		ORDER BY start_time ASC`,
		arg.InstallationID, arg.Status, arg.EndTime, arg.StartTime,
	)
}

type ListUserReservationsOverlappingParams struct {
	UserID    int64
	Status    string
	StartTime time.Time
	EndTime   time.Time
}

// ListUserReservationsOverlapping returns one user's reservations, on any
// installation, whose interval overlaps [StartTime, EndTime).
func (q *Queries) ListUserReservationsOverlapping(ctx context.Context, arg ListUserReservationsOverlappingParams) ([]Reservation, error) {
	return q.listReservations(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE user_id = ? AND status = ? AND start_time < ? AND ? < end_time
		ORDER BY start_time ASC`,
		arg.UserID, arg.Status, arg.EndTime, arg.StartTime,
	)
}

type SetReservationStatusParams struct {
	ID     int64
	Status string
}

func (q *Queries) SetReservationStatus(ctx context.Context, arg SetReservationStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, arg.Status, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// --------------------------------------------------------------- blocks

const blockColumns = `id, installation_id, reason, start_time, end_time, created_by, created_at`

const blockDetailQuery = `
	SELECT b.id, b.installation_id, b.reason, b.start_time, b.end_time, b.created_by, b.created_at,
	       i.name, u.email
	FROM blocks b
	LEFT JOIN installations i ON i.id = b.installation_id
	JOIN users u ON u.id = b.created_by`

type CreateBlockParams struct {
	InstallationID sql.NullInt64
	Reason         string
	StartTime      time.Time
	EndTime        time.Time
	CreatedBy      int64
}

func (q *Queries) CreateBlock(ctx context.Context, arg CreateBlockParams) (Block, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO blocks (installation_id, reason, start_time, end_time, created_by)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+blockColumns,
		arg.InstallationID, arg.Reason, arg.StartTime, arg.EndTime, arg.CreatedBy,
	)
	var b Block
	err := row.Scan(&b.ID, &b.InstallationID, &b.Reason, &b.StartTime, &b.EndTime, &b.CreatedBy, &b.CreatedAt)
	return b, err
}

func (q *Queries) GetBlockDetail(ctx context.Context, id int64) (BlockDetail, error) {
	row := q.db.QueryRowContext(ctx, blockDetailQuery+` WHERE b.id = ?`, id)
	var d BlockDetail
	err := row.Scan(&d.ID, &d.InstallationID, &d.Reason, &d.StartTime, &d.EndTime, &d.CreatedBy, &d.CreatedAt,
		&d.InstallationName, &d.CreatorEmail)
	return d, err
}

func (q *Queries) BlockExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blocks WHERE id = ?`, id).Scan(&count)
	return count > 0, err
}

func (q *Queries) DeleteBlock(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (q *Queries) listBlockDetails(ctx context.Context, query string, args ...any) ([]BlockDetail, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []BlockDetail
	for rows.Next() {
		var d BlockDetail
		if err := rows.Scan(&d.ID, &d.InstallationID, &d.Reason, &d.StartTime, &d.EndTime, &d.CreatedBy, &d.CreatedAt,
			&d.InstallationName, &d.CreatorEmail); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (q *Queries) ListBlockDetails(ctx context.Context) ([]BlockDetail, error) {
	return q.listBlockDetails(ctx, blockDetailQuery+` ORDER BY b.start_time ASC`)
}

func (q *Queries) ListGlobalBlockDetails(ctx context.Context) ([]BlockDetail, error) {
	return q.listBlockDetails(ctx, blockDetailQuery+` WHERE b.installation_id IS NULL ORDER BY b.start_time ASC`)
}

func (q *Queries) ListInstallationBlockDetails(ctx context.Context, installationID int64) ([]BlockDetail, error) {
	return q.listBlockDetails(ctx, blockDetailQuery+` WHERE b.installation_id = ? ORDER BY b.start_time ASC`, installationID)
}

func (q *Queries) listBlocks(ctx context.Context, query string, args ...any) ([]Block, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.ID, &b.InstallationID, &b.Reason, &b.StartTime, &b.EndTime, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

type ListGlobalBlocksOverlappingParams struct {
	StartTime time.Time
	EndTime   time.Time
}

// ListGlobalBlocksOverlapping returns blocks that apply to every
// installation and overlap [StartTime, EndTime).
func (q *Queries) ListGlobalBlocksOverlapping(ctx context.Context, arg ListGlobalBlocksOverlappingParams) ([]Block, error) {
	return q.listBlocks(ctx, `
		SELECT `+blockColumns+` FROM blocks
		WHERE installation_id IS NULL AND start_time < ? AND ? < end_time
		ORDER BY start_time ASC`,
		arg.EndTime, arg.StartTime,
	)
}

type ListInstallationBlocksOverlappingParams struct {
	InstallationID int64
	StartTime      time.Time
	EndTime        time.Time
}

// ListInstallationBlocksOverlapping returns blocks scoped to one
// installation that overlap [StartTime, EndTime).
func (q *Queries) ListInstallationBlocksOverlapping(ctx context.Context, arg ListInstallationBlocksOverlappingParams) ([]Block, error) {
	return q.listBlocks(ctx, `
		SELECT `+blockColumns+` FROM blocks
		WHERE installation_id = ? AND start_time < ? AND ? < end_time
		ORDER BY start_time ASC`,
		arg.InstallationID, arg.EndTime, arg.StartTime,
	)
}
