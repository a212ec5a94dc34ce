package departments

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/store"
)

// Store is the persistence surface for department administration.
type Store interface {
	store.Departments
	DoctorByID(ctx context.Context, id string) (*models.Doctor, error)
	ListDoctors(ctx context.Context, completed bool) ([]models.Doctor, error)
}

// Service manages departments, leadership and membership. Nothing forbids
// a doctor from leading more than one department.
type Service struct {
	store Store
	log   zerolog.Logger
}

// NewService wires department administration.
func NewService(st Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log.With().Str("component", "departments").Logger()}
}

// Create adds a department under an existing doctor as leader.
func (s *Service) Create(ctx context.Context, name, depType, description, leaderID string) (*models.Department, error) {
	leader, err := s.doctor(ctx, leaderID)
	if err != nil {
		return nil, err
	}

	department := &models.Department{
		Name:        name,
		Type:        depType,
		Description: description,
		LeaderID:    leader.ID,
	}
	if err := s.store.CreateDepartment(ctx, department); err != nil {
		return nil, err
	}
	department.Leader = *leader

	s.log.Info().Str("department_id", department.ID).Str("leader_id", leader.ID).Msg("department created")
	return department, nil
}

// Update replaces name, type, description and leader of a department.
func (s *Service) Update(ctx context.Context, id, name, depType, description, leaderID string) (*models.Department, error) {
	department, err := s.department(ctx, id)
	if err != nil {
		return nil, err
	}
	leader, err := s.doctor(ctx, leaderID)
	if err != nil {
		return nil, err
	}

	department.Name = name
	department.Type = depType
	department.Description = description
	department.LeaderID = leader.ID
	if err := s.store.UpdateDepartment(ctx, department); err != nil {
		return nil, err
	}
	department.Leader = *leader
	return department, nil
}

// List returns all departments with leaders preloaded.
func (s *Service) List(ctx context.Context) ([]models.Department, error) {
	return s.store.ListDepartments(ctx)
}

// Remove deletes a department and its membership rows.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.department(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteDepartment(ctx, id)
}

// AddMember registers a doctor as a department member.
func (s *Service) AddMember(ctx context.Context, departmentID, doctorID string) error {
	if _, err := s.department(ctx, departmentID); err != nil {
		return err
	}
	if _, err := s.doctor(ctx, doctorID); err != nil {
		return err
	}
	if err := s.store.AddDepartmentDoctor(ctx, departmentID, doctorID); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyMember
		}
		return err
	}
	return nil
}

// RemoveMember drops a doctor from a department. Leadership is unaffected.
func (s *Service) RemoveMember(ctx context.Context, departmentID, doctorID string) error {
	if _, err := s.department(ctx, departmentID); err != nil {
		return err
	}
	if err := s.store.RemoveDepartmentDoctor(ctx, departmentID, doctorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	return nil
}

// Doctors lists doctor accounts, either activated ones or open signup
// requests.
func (s *Service) Doctors(ctx context.Context, completed bool) ([]models.Doctor, error) {
	return s.store.ListDoctors(ctx, completed)
}

func (s *Service) department(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.store.DepartmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return department, nil
}

func (s *Service) doctor(ctx context.Context, id string) (*models.Doctor, error) {
	doctor, err := s.store.DoctorByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return doctor, nil
}
