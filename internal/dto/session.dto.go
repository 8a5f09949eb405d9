package dto

import "time"

type SessionDTO struct {
	ID                 string    `json:"id"`
	LegacyTimeslotID   int       `json:"legacy_timeslot_id"`
	CourseID           string    `json:"course_id"`
	TeacherID          string    `json:"teacher_id"`
	Date               string    `json:"date"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Capacity           int       `json:"capacity"`
	CurrentEnrollments int       `json:"current_enrollments"`
	Available          int       `json:"available"`
}
