package models

import "time"

// ClassTemplate descreve uma turma semanal; o catálogo expande em sessões.
type ClassTemplate struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CourseID  string `gorm:"size:50;not null" json:"course_id"`
	TeacherID string `gorm:"size:50;not null" json:"teacher_id"`

	Weekday   int    `json:"weekday"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Capacity  int    `json:"capacity"`
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
