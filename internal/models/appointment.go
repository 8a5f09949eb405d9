package models

import "time"

// AppointmentRecord é uma linha do log de agendamentos (append-only).
// Cancelar grava uma nova linha CANCELED para o mesmo AppointmentID.
type AppointmentRecord struct {
	Seq uint `gorm:"primaryKey;autoIncrement" json:"seq"`

	AppointmentID    int `gorm:"not null;uniqueIndex:idx_appointment_log_id_status" json:"appointment_id"`
	LegacyTimeslotID int `gorm:"not null;index" json:"legacy_timeslot_id"`
	UserID           int `gorm:"not null;index" json:"user_id"`

	Status string `gorm:"size:20;not null;uniqueIndex:idx_appointment_log_id_status" json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	CanceledAt *time.Time `json:"canceled_at"`
	RecordedAt time.Time  `gorm:"autoCreateTime" json:"recorded_at"`
}

func (AppointmentRecord) TableName() string {
	return "appointment_log"
}
