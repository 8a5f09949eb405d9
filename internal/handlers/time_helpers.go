package handlers

import "time"

func parseDateInSchool(loc *time.Location, dateStr string) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02", dateStr, loc)
}
