package email

import (
	"fmt"
	"strings"
	"time"
)

type Message struct {
	Subject string
	Body    string
}

// ReservationDetails carries everything the reservation emails mention.
type ReservationDetails struct {
	InstallationName string
	Date             string
	TimeRange        string
	Code             string
	Amount           string
	CancelledBy      string
}

func FormatDateTimeRange(start, end time.Time) (string, string) {
	date := start.Format("Monday, Jan 2, 2006")
	timeRange := fmt.Sprintf("%s - %s", start.Format("15:04"), end.Format("15:04"))
	return date, timeRange
}

func BuildReservationConfirmation(details ReservationDetails) Message {
	installation := orTBD(details.InstallationName)

	lines := []string{
		"Your reservation is confirmed.",
		"",
		fmt.Sprintf("Installation: %s", installation),
		fmt.Sprintf("Date: %s", orTBD(details.Date)),
		fmt.Sprintf("Time: %s", orTBD(details.TimeRange)),
		fmt.Sprintf("Price: %s", orTBD(details.Amount)),
	}
	if code := strings.TrimSpace(details.Code); code != "" {
		lines = append(lines, fmt.Sprintf("Reservation code: %s", code))
	}

	return Message{
		Subject: fmt.Sprintf("Reservation Confirmed - %s", installation),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildReservationCancellation(details ReservationDetails) Message {
	installation := orTBD(details.InstallationName)

	lines := []string{
		"Your reservation has been cancelled.",
		"",
		fmt.Sprintf("Installation: %s", installation),
		fmt.Sprintf("Date: %s", orTBD(details.Date)),
		fmt.Sprintf("Time: %s", orTBD(details.TimeRange)),
	}
	if code := strings.TrimSpace(details.Code); code != "" {
		lines = append(lines, fmt.Sprintf("Reservation code: %s", code))
	}
	if by := strings.TrimSpace(details.CancelledBy); by != "" {
		lines = append(lines, fmt.Sprintf("Cancelled by: %s", by))
	}

	return Message{
		Subject: fmt.Sprintf("Reservation Cancelled - %s", installation),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildReservationReminder(details ReservationDetails) Message {
	installation := orTBD(details.InstallationName)

	lines := []string{
		"Reminder: your reservation is coming up.",
		"",
		fmt.Sprintf("Installation: %s", installation),
		fmt.Sprintf("Date: %s", orTBD(details.Date)),
		fmt.Sprintf("Time: %s", orTBD(details.TimeRange)),
	}
	if code := strings.TrimSpace(details.Code); code != "" {
		lines = append(lines, fmt.Sprintf("Reservation code: %s", code))
	}

	return Message{
		Subject: fmt.Sprintf("Upcoming Reservation Reminder - %s", installation),
		Body:    strings.Join(lines, "\n"),
	}
}

func orTBD(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "TBD"
	}
	return value
}
