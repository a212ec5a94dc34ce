package store

import (
	"context"

	"github.com/mussacharles60/hospital-booking/internal/models"
)

// DoctorByID fetches a doctor by id.
func (s *DB) DoctorByID(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

// CreateDoctor inserts a new doctor record (invited, no credentials yet).
func (s *DB) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	return s.db.WithContext(ctx).Create(doctor).Error
}

// ListDoctors returns doctors whose registration is, or is not yet,
// completed.
func (s *DB) ListDoctors(ctx context.Context, completed bool) ([]models.Doctor, error) {
	var doctors []models.Doctor
	q := s.db.WithContext(ctx)
	if completed {
		q = q.Where("registration_status = ?", models.RegistrationCompleted)
	} else {
		q = q.Where("registration_status <> ?", models.RegistrationCompleted)
	}
	if err := q.Order("created_at asc").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

// SetSignupRequestToken stores the one-time signup token alongside the new
// registration status.
func (s *DB) SetSignupRequestToken(ctx context.Context, id, token string, status models.RegistrationStatus) error {
	result := s.db.WithContext(ctx).Model(&models.Doctor{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"signup_request_token": token,
			"registration_status":  status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteSignup activates the doctor account and consumes the signup
// token in the same update, so the token cannot authorize a second signup.
func (s *DB) CompleteSignup(ctx context.Context, id, passwordHash string) error {
	result := s.db.WithContext(ctx).Model(&models.Doctor{}).
		Where("id = ? AND registration_status <> ?", id, models.RegistrationCompleted).
		Updates(map[string]interface{}{
			"password":             passwordHash,
			"registration_status":  models.RegistrationCompleted,
			"signup_request_token": "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
