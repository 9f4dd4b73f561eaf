package db

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeacherStore manages the dashboard roster.
type TeacherStore struct {
	db *gorm.DB
}

func NewTeacherStore(db *gorm.DB) *TeacherStore {
	return &TeacherStore{db: db}
}

// List returns all teachers ordered by name.
func (s *TeacherStore) List(ctx context.Context) ([]Teacher, error) {
	var teachers []Teacher
	err := s.db.WithContext(ctx).Order("name asc").Find(&teachers).Error
	return teachers, err
}

// Save inserts or updates a teacher keyed by email.
func (s *TeacherStore) Save(ctx context.Context, email, name string) error {
	t := Teacher{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at", "name"}),
	}).Create(&t).Error
}

// Delete removes the teacher with the given email. Historical meetings and
// rollups are untouched; the roster only controls what the dashboard lists.
func (s *TeacherStore) Delete(ctx context.Context, email string) error {
	return s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Delete(&Teacher{}).Error
}
