// internal/db/models.go
package db

import (
	"database/sql"
	"time"
)

// Row types returned by the query layer. Enumerated columns (installation
// type, reservation status, user role) are carried as their lowercase
// persistence tokens; callers translate them through internal/models and
// treat unknown tokens as data corruption.

type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Phone        sql.NullString
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	LastAccessAt sql.NullTime
}

type Installation struct {
	ID        int64
	Name      string
	Type      string
	Number    sql.NullInt64
	Active    bool
	CreatedAt time.Time
}

type Reservation struct {
	ID             int64
	UserID         int64
	InstallationID int64
	StartTime      time.Time
	EndTime        time.Time
	Status         string
	Code           string
	AmountCents    int64
	VerifiedAt     sql.NullTime
	CreatedAt      time.Time
}

// ReservationDetail joins the owner's email and the installation name onto a
// reservation row for view rendering.
type ReservationDetail struct {
	Reservation
	UserEmail        string
	InstallationName string
}

type Block struct {
	ID             int64
	InstallationID sql.NullInt64
	Reason         string
	StartTime      time.Time
	EndTime        time.Time
	CreatedBy      int64
	CreatedAt      time.Time
}

// BlockDetail joins the installation name (null for global blocks) and the
// creator's email onto a block row.
type BlockDetail struct {
	Block
	InstallationName sql.NullString
	CreatorEmail     string
}
