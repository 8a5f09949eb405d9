package catalog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/class-reservations/internal/models"
)

type GormTemplateSource struct {
	db *gorm.DB
}

func NewGormTemplateSource(db *gorm.DB) *GormTemplateSource {
	return &GormTemplateSource{db: db}
}

func (s *GormTemplateSource) ActiveTemplates(ctx context.Context) ([]Template, error) {
	var rows []models.ClassTemplate
	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("weekday ASC, start_time ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Template, 0, len(rows))
	for _, r := range rows {
		out = append(out, Template{
			CourseID:  r.CourseID,
			TeacherID: r.TeacherID,
			Weekday:   time.Weekday(r.Weekday),
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Capacity:  r.Capacity,
		})
	}
	return out, nil
}
