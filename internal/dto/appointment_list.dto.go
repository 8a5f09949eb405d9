package dto

import "time"

type AppointmentListDTO struct {
	ID               int        `json:"id"`
	UserID           int        `json:"user_id"`
	LegacyTimeslotID int        `json:"legacy_timeslot_id"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	CanceledAt       *time.Time `json:"canceled_at,omitempty"`

	SessionID string     `json:"session_id,omitempty"`
	CourseID  string     `json:"course_id,omitempty"`
	TeacherID string     `json:"teacher_id,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}
