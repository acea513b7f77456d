// internal/booking/views.go
package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/codr1/muniplay/internal/db"
	"github.com/codr1/muniplay/internal/models"
)

// Timestamps cross the API as ISO-8601 local date-times without a zone
// designator; a single implicit facility timezone is assumed.
const (
	TimeLayout = "2006-01-02T15:04:05"
	DateLayout = "2006-01-02"
)

// GlobalBlockLabel is the synthetic installation name shown on blocks that
// apply to every installation.
const GlobalBlockLabel = "ALL INSTALLATIONS"

type ReservationView struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"userId"`
	UserEmail        string `json:"userEmail"`
	InstallationID   int64  `json:"installationId"`
	InstallationName string `json:"installationName"`
	Start            string `json:"start"`
	End              string `json:"end"`
	DurationMinutes  int    `json:"durationMinutes"`
	Status           string `json:"status"`
	Code             string `json:"code"`
	Amount           string `json:"amount"`
	AmountCents      int64  `json:"amountCents"`
}

type BlockView struct {
	ID               int64  `json:"id"`
	InstallationID   *int64 `json:"installationId,omitempty"`
	InstallationName string `json:"installationName"`
	Reason           string `json:"reason"`
	Start            string `json:"start"`
	End              string `json:"end"`
	CreatedByID      int64  `json:"createdById"`
	CreatedByEmail   string `json:"createdByEmail"`
	CreatedAt        string `json:"createdAt"`
}

type InstallationView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Number    *int64 `json:"number,omitempty"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
}

// newReservationView shapes a joined reservation row for callers. The stored
// status token is re-parsed so corrupt rows fail loudly instead of leaking.
func newReservationView(detail db.ReservationDetail) (*ReservationView, error) {
	status, err := models.ParseReservationStatus(detail.Status)
	if err != nil {
		return nil, fmt.Errorf("reservation %d: %w", detail.ID, err)
	}

	return &ReservationView{
		ID:               detail.ID,
		UserID:           detail.UserID,
		UserEmail:        detail.UserEmail,
		InstallationID:   detail.InstallationID,
		InstallationName: detail.InstallationName,
		Start:            detail.StartTime.Format(TimeLayout),
		End:              detail.EndTime.Format(TimeLayout),
		DurationMinutes:  int(detail.EndTime.Sub(detail.StartTime) / time.Minute),
		Status:           strings.ToUpper(status.Token()),
		Code:             detail.Code,
		Amount:           FormatAmount(detail.AmountCents),
		AmountCents:      detail.AmountCents,
	}, nil
}

func newBlockView(detail db.BlockDetail) *BlockView {
	view := &BlockView{
		ID:               detail.ID,
		InstallationName: GlobalBlockLabel,
		Reason:           detail.Reason,
		Start:            detail.StartTime.Format(TimeLayout),
		End:              detail.EndTime.Format(TimeLayout),
		CreatedByID:      detail.CreatedBy,
		CreatedByEmail:   detail.CreatorEmail,
		CreatedAt:        detail.CreatedAt.Format(TimeLayout),
	}
	if detail.InstallationID.Valid {
		id := detail.InstallationID.Int64
		view.InstallationID = &id
		if detail.InstallationName.Valid {
			view.InstallationName = detail.InstallationName.String
		}
	}
	return view
}

func newInstallationView(inst db.Installation) (*InstallationView, error) {
	installationType, err := models.ParseInstallationType(inst.Type)
	if err != nil {
		return nil, fmt.Errorf("installation %d: %w", inst.ID, err)
	}

	view := &InstallationView{
		ID:        inst.ID,
		Name:      inst.Name,
		Type:      installationType.Token(),
		Active:    inst.Active,
		CreatedAt: inst.CreatedAt.Format(TimeLayout),
	}
	if inst.Number.Valid {
		number := inst.Number.Int64
		view.Number = &number
	}
	return view, nil
}
