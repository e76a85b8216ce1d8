package domain

import "time"

// CalendarOf derives the calendar fields of a timestamp in its own location.
func CalendarOf(t time.Time) Calendar {
	y, m, d := t.Date()
	return Calendar{
		Month:       m,
		MonthName:   m.String(),
		Weekday:     t.Weekday(),
		WeekdayName: t.Weekday().String(),
		Hour:        t.Hour(),
		Date:        time.Date(y, m, d, 0, 0, 0, 0, t.Location()),
	}
}

// Derive returns a copy of ds with the calendar fields of every detection
// computed from its timestamp. The input Dataset is left untouched.
func Derive(ds Dataset) Dataset {
	out := make([]Detection, len(ds.Detections))
	for i, det := range ds.Detections {
		det.Calendar = CalendarOf(det.DetectedAt)
		out[i] = det
	}
	return Dataset{Source: ds.Source, Detections: out}
}

// Hours returns the hour-of-day domain 0..23.
func Hours() []int {
	hours := make([]int, 24)
	for h := range hours {
		hours[h] = h
	}
	return hours
}

// Weekdays returns the weekday domain in Monday-first order.
func Weekdays() []time.Weekday {
	return []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
}

// Months returns the month domain January..December.
func Months() []time.Month {
	months := make([]time.Month, 12)
	for i := range months {
		months[i] = time.Month(i + 1)
	}
	return months
}

// HourOf keys a detection by its derived hour of day.
func HourOf(d Detection) int { return d.Calendar.Hour }

// WeekdayOf keys a detection by its derived weekday.
func WeekdayOf(d Detection) time.Weekday { return d.Calendar.Weekday }

// MonthOf keys a detection by its derived month.
func MonthOf(d Detection) time.Month { return d.Calendar.Month }

// BiomeOf keys a detection by biome.
func BiomeOf(d Detection) string { return d.Biome }

// MunicipalityOf keys a detection by municipality.
func MunicipalityOf(d Detection) string { return d.Municipality }
