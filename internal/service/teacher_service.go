package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-roster/internal/models"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
)

type teacherRepository interface {
	Insert(teacher *models.Teacher) error
	FindByID(id int) (*models.Teacher, bool)
	DeleteByID(id int) bool
	List() []*models.Teacher
}

// CreateTeacherRequest represents payload to create a teacher.
type CreateTeacherRequest struct {
	ID      int    `json:"id" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required,singleline"`
	Subject string `json:"subject" validate:"required,singleline"`
}

func (r *CreateTeacherRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Subject = strings.TrimSpace(r.Subject)
}

// UpdateTeacherRequest represents payload to update a teacher.
type UpdateTeacherRequest struct {
	Name    *string `json:"name"`
	Subject *string `json:"subject"`
}

// TeacherService handles teacher lifecycle.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	validate = newValidator(validate)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

// List returns teachers in insertion order.
func (s *TeacherService) List() []*models.Teacher {
	return s.repo.List()
}

// Get fetches a teacher by id.
func (s *TeacherService) Get(id int) (*models.Teacher, error) {
	teacher, ok := s.repo.FindByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("teacher %d not found", id))
	}
	return teacher, nil
}

// Create registers a teacher.
func (s *TeacherService) Create(req CreateTeacherRequest) (*models.Teacher, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrValidation, "invalid teacher payload")
	}
	teacher := models.NewTeacher(req.ID, req.Name, req.Subject)
	if err := s.repo.Insert(teacher); err != nil {
		return nil, err
	}
	s.logger.Info("teacher created", zap.Int("id", teacher.ID))
	return teacher, nil
}

// Update modifies teacher fields in place.
func (s *TeacherService) Update(id int, req UpdateTeacherRequest) (*models.Teacher, error) {
	teacher, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	merged := CreateTeacherRequest{ID: teacher.ID, Name: teacher.Name, Subject: teacher.Subject}
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Subject != nil {
		merged.Subject = *req.Subject
	}
	merged.normalize()
	if err := s.validator.Struct(merged); err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrValidation, "invalid teacher payload")
	}
	teacher.Name = merged.Name
	teacher.Subject = merged.Subject
	return teacher, nil
}

// Delete removes a teacher. Classrooms it taught fall back to no teacher on
// display.
func (s *TeacherService) Delete(id int) error {
	if !s.repo.DeleteByID(id) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("teacher %d not found", id))
	}
	s.logger.Info("teacher deleted", zap.Int("id", id))
	return nil
}
