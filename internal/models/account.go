package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether r is one of the three account kinds.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RolePatient
}

// Account holds the credential columns shared by all three account tables.
type Account struct {
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone        string `gorm:"size:32" json:"phone"`
	Password     string `gorm:"size:255" json:"-"` // Never send password hash in JSON
	RecoverToken string `gorm:"size:512" json:"-"`
}

// SetPassword hashes a password and sets it on the account
func (a *Account) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the account's hashed password
func (a *Account) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password))
	return err == nil
}

// Admin represents a hospital administrator.
type Admin struct {
	BaseModel
	Account
}

// Patient represents a patient account.
type Patient struct {
	BaseModel
	Account

	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
}

// RegistrationStatus tracks how far an invited doctor got through signup.
type RegistrationStatus string

const (
	RegistrationInvited      RegistrationStatus = "invited"
	RegistrationEmailSent    RegistrationStatus = "email_sent"
	RegistrationEmailNotSent RegistrationStatus = "email_not_sent"
	RegistrationCompleted    RegistrationStatus = "completed"
)

// Doctor represents a doctor account. Doctors are created by an admin
// invitation and activate their account with a one-time signup token.
type Doctor struct {
	BaseModel
	Account

	RegistrationStatus RegistrationStatus `gorm:"size:20;default:'invited'" json:"registrationStatus"`
	SignupRequestToken string             `gorm:"size:512" json:"-"`
	Certificate        string             `gorm:"type:text" json:"certificate,omitempty"`
	// Identity is immutable once the record is created.
	Identity string `gorm:"type:text" json:"identity,omitempty"`

	Appointments []Appointment      `gorm:"foreignKey:DoctorID" json:"-"`
	Memberships  []DepartmentDoctor `gorm:"foreignKey:DoctorID" json:"-"`
}

// AccountSanitized is the account shape safe to return in API responses.
type AccountSanitized struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Admin) Sanitize() AccountSanitized {
	return AccountSanitized{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (p *Patient) Sanitize() AccountSanitized {
	return AccountSanitized{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// DoctorSanitized adds the registration fields to the account shape.
type DoctorSanitized struct {
	AccountSanitized
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	Certificate        string             `json:"certificate,omitempty"`
	Identity           string             `json:"identity,omitempty"`
}

func (d *Doctor) Sanitize() DoctorSanitized {
	return DoctorSanitized{
		AccountSanitized: AccountSanitized{
			ID:        d.ID,
			Name:      d.Name,
			Email:     d.Email,
			Phone:     d.Phone,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		RegistrationStatus: d.RegistrationStatus,
		Certificate:        d.Certificate,
		Identity:           d.Identity,
	}
}
