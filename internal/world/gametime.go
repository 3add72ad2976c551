package world

import "fmt"

// GameTime is in-world time over a simplified 30-day, 12-month calendar.
type GameTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// DefaultGameTime starts a campaign mid-morning on the 15th of the third
// month, a conventional Forgotten Realms-style epoch.
func DefaultGameTime() GameTime {
	return GameTime{Year: 1492, Month: 3, Day: 15, Hour: 10}
}

// AdvanceMinutes normalizes via base-60 carry into hours.
func (t *GameTime) AdvanceMinutes(minutes int) {
	total := t.Minute + minutes
	t.Minute = total % 60
	t.AdvanceHours(total / 60)
}

// AdvanceHours normalizes via base-24 carry into days.
func (t *GameTime) AdvanceHours(hours int) {
	total := t.Hour + hours
	t.Hour = total % 24
	t.AdvanceDays(total / 24)
}

// AdvanceDays normalizes via 30-day-month carry into months.
func (t *GameTime) AdvanceDays(days int) {
	total := t.Day + days
	t.Day = (total-1)%30 + 1
	t.AdvanceMonths((total - 1) / 30)
}

// AdvanceMonths normalizes via 12-month-year carry into years.
func (t *GameTime) AdvanceMonths(months int) {
	total := t.Month + months
	t.Month = (total-1)%12 + 1
	t.Year += (total - 1) / 12
}

// IsDaytime reports the hour falling within [6, 18).
func (t GameTime) IsDaytime() bool {
	return t.Hour >= 6 && t.Hour < 18
}

// TimeOfDay gives a qualitative label for the current hour.
func (t GameTime) TimeOfDay() string {
	switch {
	case t.Hour >= 5 && t.Hour <= 7:
		return "dawn"
	case t.Hour >= 8 && t.Hour <= 11:
		return "morning"
	case t.Hour >= 12 && t.Hour <= 13:
		return "midday"
	case t.Hour >= 14 && t.Hour <= 17:
		return "afternoon"
	case t.Hour >= 18 && t.Hour <= 20:
		return "evening"
	default:
		return "night"
	}
}

var monthNames = [...]string{
	"Hammer", "Alturiak", "Ches", "Tarsakh", "Mirtul", "Kythorn",
	"Flamerule", "Eleasis", "Eleint", "Marpenoth", "Uktar", "Nightal",
}

// MonthName returns the campaign-calendar name for the current month.
func (t GameTime) MonthName() string {
	if t.Month < 1 || t.Month > 12 {
		return "Unknown"
	}
	return monthNames[t.Month-1]
}

// Detailed formats the full date and time for narration.
func (t GameTime) Detailed() string {
	return fmt.Sprintf("%s %d, %d DR - %d:%02d", t.MonthName(), t.Day, t.Year, t.Hour, t.Minute)
}
