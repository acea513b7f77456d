// internal/models/reservation.go
package models

import "fmt"

// ReservationStatus is the closed lifecycle state of a reservation.
// The only legal transition is confirmed -> cancelled.
type ReservationStatus int

const (
	ReservationConfirmed ReservationStatus = iota + 1
	ReservationCancelled
)

var reservationStatusTokens = map[ReservationStatus]string{
	ReservationConfirmed: "confirmed",
	ReservationCancelled: "cancelled",
}

var reservationStatusesByToken = func() map[string]ReservationStatus {
	byToken := make(map[string]ReservationStatus, len(reservationStatusTokens))
	for status, token := range reservationStatusTokens {
		byToken[token] = status
	}
	return byToken
}()

// Token returns the lowercase persistence token for the status.
func (s ReservationStatus) Token() string {
	return reservationStatusTokens[s]
}

func (s ReservationStatus) String() string {
	if token, ok := reservationStatusTokens[s]; ok {
		return token
	}
	return fmt.Sprintf("ReservationStatus(%d)", int(s))
}

// ParseReservationStatus maps a stored token to its status, rejecting
// unknown tokens as a data-integrity failure.
func ParseReservationStatus(token string) (ReservationStatus, error) {
	status, ok := reservationStatusesByToken[token]
	if !ok {
		return 0, fmt.Errorf("unknown reservation status %q", token)
	}
	return status, nil
}
