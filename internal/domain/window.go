package domain

import "time"

const DateKeyLayout = "2006-01-02"

// Window is a half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayWindow is [midnight, next midnight) around t.
func DayWindow(t time.Time, loc *time.Location) Window {
	start := StartOfDay(t, loc)
	return Window{From: start, To: start.AddDate(0, 0, 1)}
}

// WeekWindow is [Monday 00:00, +7 days) around t. Weeks always start on
// Monday.
func WeekWindow(t time.Time, loc *time.Location) Window {
	start := StartOfDay(t, loc)
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)
	return Window{From: start, To: start.AddDate(0, 0, 7)}
}

// TrailingDays is the window covering days calendar days ending with the
// day of now.
func TrailingDays(now time.Time, days int, loc *time.Location) Window {
	today := DayWindow(now, loc)
	if days < 1 {
		return Window{From: today.To, To: today.To}
	}
	return Window{From: today.From.AddDate(0, 0, -(days - 1)), To: today.To}
}

type DailyTotal struct {
	Date  time.Time `json:"date"`
	Total int       `json:"total"`
}

func (d DailyTotal) Key() string {
	return d.Date.Format(DateKeyLayout)
}
