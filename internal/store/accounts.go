package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mussacharles60/hospital-booking/internal/models"
)

func adminRecord(a *models.Admin) *AccountRecord {
	return &AccountRecord{
		ID:           a.ID,
		Role:         models.RoleAdmin,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		PasswordHash: a.Password,
		RecoverToken: a.RecoverToken,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func doctorRecord(d *models.Doctor) *AccountRecord {
	return &AccountRecord{
		ID:           d.ID,
		Role:         models.RoleDoctor,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.Password,
		RecoverToken: d.RecoverToken,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func patientRecord(p *models.Patient) *AccountRecord {
	return &AccountRecord{
		ID:           p.ID,
		Role:         models.RolePatient,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: p.Password,
		RecoverToken: p.RecoverToken,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (s *DB) findAccount(ctx context.Context, role models.Role, column, value string) (*AccountRecord, error) {
	q := s.db.WithContext(ctx).Where(column+" = ?", value)
	switch role {
	case models.RoleAdmin:
		var admin models.Admin
		if err := q.First(&admin).Error; err != nil {
			return nil, translate(err)
		}
		return adminRecord(&admin), nil
	case models.RoleDoctor:
		var doctor models.Doctor
		if err := q.First(&doctor).Error; err != nil {
			return nil, translate(err)
		}
		return doctorRecord(&doctor), nil
	case models.RolePatient:
		var patient models.Patient
		if err := q.First(&patient).Error; err != nil {
			return nil, translate(err)
		}
		return patientRecord(&patient), nil
	default:
		return nil, ErrNotFound
	}
}

// AccountByEmail finds the account of the given kind by its login email.
func (s *DB) AccountByEmail(ctx context.Context, role models.Role, email string) (*AccountRecord, error) {
	return s.findAccount(ctx, role, "email", email)
}

// AccountByID finds the account of the given kind by id.
func (s *DB) AccountByID(ctx context.Context, role models.Role, id string) (*AccountRecord, error) {
	return s.findAccount(ctx, role, "id", id)
}

func (s *DB) accountModel(role models.Role) (interface{}, bool) {
	switch role {
	case models.RoleAdmin:
		return &models.Admin{}, true
	case models.RoleDoctor:
		return &models.Doctor{}, true
	case models.RolePatient:
		return &models.Patient{}, true
	default:
		return nil, false
	}
}

func (s *DB) updateAccount(ctx context.Context, role models.Role, id string, fields map[string]interface{}) error {
	model, ok := s.accountModel(role)
	if !ok {
		return ErrNotFound
	}
	result := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAccountProfile updates the mutable profile fields and returns the
// fresh record.
func (s *DB) UpdateAccountProfile(ctx context.Context, role models.Role, id, name, phone string) (*AccountRecord, error) {
	err := s.updateAccount(ctx, role, id, map[string]interface{}{"name": name, "phone": phone})
	if err != nil {
		return nil, err
	}
	return s.AccountByID(ctx, role, id)
}

// UpdateAccountPassword replaces the stored password hash.
func (s *DB) UpdateAccountPassword(ctx context.Context, role models.Role, id, passwordHash string) error {
	return s.updateAccount(ctx, role, id, map[string]interface{}{"password": passwordHash})
}

// SetRecoverToken persists or clears the password-recovery token.
func (s *DB) SetRecoverToken(ctx context.Context, role models.Role, id, token string) error {
	return s.updateAccount(ctx, role, id, map[string]interface{}{"recover_token": token})
}

// CreateAdmin inserts a new admin account.
func (s *DB) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	return s.db.WithContext(ctx).Create(admin).Error
}

// CreatePatient inserts a new patient account.
func (s *DB) CreatePatient(ctx context.Context, patient *models.Patient) error {
	return s.db.WithContext(ctx).Create(patient).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
