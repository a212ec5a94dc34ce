package store

import (
	"context"

	"github.com/mussacharles60/hospital-booking/internal/models"
)

// DepartmentByID fetches a department by id.
func (s *DB) DepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	var department models.Department
	if err := s.db.WithContext(ctx).Preload("Leader").First(&department, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &department, nil
}

// CreateDepartment inserts a new department.
func (s *DB) CreateDepartment(ctx context.Context, department *models.Department) error {
	return s.db.WithContext(ctx).Create(department).Error
}

// UpdateDepartment saves name, type, description and leader.
func (s *DB) UpdateDepartment(ctx context.Context, department *models.Department) error {
	result := s.db.WithContext(ctx).Model(&models.Department{}).Where("id = ?", department.ID).
		Updates(map[string]interface{}{
			"name":        department.Name,
			"type":        department.Type,
			"description": department.Description,
			"leader_id":   department.LeaderID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDepartment removes a department and its membership rows.
func (s *DB) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("department_id = ?", id).Delete(&models.DepartmentDoctor{}).Error; err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Delete(&models.Department{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDepartments returns all departments with their leaders preloaded.
func (s *DB) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := s.db.WithContext(ctx).Preload("Leader").Order("created_at asc").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// AddDepartmentDoctor registers a doctor as a department member.
// ErrDuplicate when the doctor already is one.
func (s *DB) AddDepartmentDoctor(ctx context.Context, departmentID, doctorID string) error {
	member, err := s.IsDepartmentMember(ctx, departmentID, doctorID)
	if err != nil {
		return err
	}
	if member {
		return ErrDuplicate
	}
	return s.db.WithContext(ctx).Create(&models.DepartmentDoctor{
		DepartmentID: departmentID,
		DoctorID:     doctorID,
	}).Error
}

// RemoveDepartmentDoctor removes a membership row.
func (s *DB) RemoveDepartmentDoctor(ctx context.Context, departmentID, doctorID string) error {
	result := s.db.WithContext(ctx).
		Where("department_id = ? AND doctor_id = ?", departmentID, doctorID).
		Delete(&models.DepartmentDoctor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsDepartmentMember reports whether the doctor is a member of the
// department. Leadership is tracked separately on the department row.
func (s *DB) IsDepartmentMember(ctx context.Context, departmentID, doctorID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.DepartmentDoctor{}).
		Where("department_id = ? AND doctor_id = ?", departmentID, doctorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
