package store

import (
	"context"

	"github.com/mussacharles60/hospital-booking/internal/models"
)

// CreateAppointment inserts a new appointment row.
func (s *DB) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	return s.db.WithContext(ctx).Create(appointment).Error
}

// AppointmentByID fetches an appointment with its relations preloaded.
func (s *DB) AppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Department").Preload("Doctor").Preload("Patient").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &appointment, nil
}

// CountActiveByPatient counts the patient's appointments that still hold a
// slot. Everything except completed counts, cancelled included.
func (s *DB) CountActiveByPatient(ctx context.Context, patientID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("patient_id = ? AND status <> ?", patientID, models.StatusCompleted).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *DB) listAppointments(ctx context.Context, where string, args ...interface{}) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Department").Preload("Doctor").Preload("Patient").
		Where(where, args...).
		Order("appointed_at asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// AppointmentsByPatient returns the patient's appointments.
func (s *DB) AppointmentsByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.listAppointments(ctx, "patient_id = ?", patientID)
}

// AppointmentsByDepartment returns every appointment in the department.
// Leaders see this view.
func (s *DB) AppointmentsByDepartment(ctx context.Context, departmentID string) ([]models.Appointment, error) {
	return s.listAppointments(ctx, "department_id = ?", departmentID)
}

// AppointmentsByDepartmentDoctor returns the appointments in the department
// assigned to one doctor. Non-leader members see this view.
func (s *DB) AppointmentsByDepartmentDoctor(ctx context.Context, departmentID, doctorID string) ([]models.Appointment, error) {
	return s.listAppointments(ctx, "department_id = ? AND doctor_id = ?", departmentID, doctorID)
}

// RescheduleAppointment moves appointed_at, but only while the appointment
// is still pending. Returns false when the status changed underneath.
func (s *DB) RescheduleAppointment(ctx context.Context, id string, appointedAt int64) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Update("appointed_at", appointedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AssignAppointment sets doctor, appointed_at and the assigned status in
// one conditional update, so the doctor and the status can never diverge.
func (s *DB) AssignAppointment(ctx context.Context, id string, from models.AppointmentStatus, doctorID string, appointedAt int64, to models.AppointmentStatus) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"doctor_id":    doctorID,
			"appointed_at": appointedAt,
			"status":       to,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetAppointmentStatus is a compare-and-swap on status.
func (s *DB) SetAppointmentStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
