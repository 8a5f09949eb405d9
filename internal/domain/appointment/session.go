package appointment

import "time"

// Session é uma ocorrência concreta de aula, gerada pelo catálogo.
// Nunca é alterada aqui.
type Session struct {
	ID                 string    `json:"id"`
	CourseID           string    `json:"course_id"`
	TeacherID          string    `json:"teacher_id"`
	Date               string    `json:"date"`
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
	Capacity           int       `json:"capacity"`
	CurrentEnrollments int       `json:"current_enrollments"`
}

// StartsWithin diz se a sessão começa até now+window, inclusive.
func (s Session) StartsWithin(now time.Time, window time.Duration) bool {
	return !s.Start.After(now.Add(window))
}
