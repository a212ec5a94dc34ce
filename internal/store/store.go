package store

import (
	"context"
	"errors"
	"time"

	"github.com/mussacharles60/hospital-booking/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write would violate uniqueness.
	ErrDuplicate = errors.New("record already exists")
)

// AccountRecord is the credential view shared by the three account tables.
// Lookups are keyed by account kind so a token for one kind can never
// resolve an account of another.
type AccountRecord struct {
	ID           string
	Role         models.Role
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	RecoverToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Accounts is the credential store over admins, doctors and patients.
type Accounts interface {
	AccountByEmail(ctx context.Context, role models.Role, email string) (*AccountRecord, error)
	AccountByID(ctx context.Context, role models.Role, id string) (*AccountRecord, error)
	UpdateAccountProfile(ctx context.Context, role models.Role, id, name, phone string) (*AccountRecord, error)
	UpdateAccountPassword(ctx context.Context, role models.Role, id, passwordHash string) error
	// SetRecoverToken persists the password-recovery token on the account;
	// an empty token clears it.
	SetRecoverToken(ctx context.Context, role models.Role, id, token string) error
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	CreatePatient(ctx context.Context, patient *models.Patient) error
}

// Doctors covers the doctor-specific registration surface.
type Doctors interface {
	DoctorByID(ctx context.Context, id string) (*models.Doctor, error)
	CreateDoctor(ctx context.Context, doctor *models.Doctor) error
	// ListDoctors returns doctors filtered on whether their registration
	// is completed.
	ListDoctors(ctx context.Context, completed bool) ([]models.Doctor, error)
	SetSignupRequestToken(ctx context.Context, id, token string, status models.RegistrationStatus) error
	// CompleteSignup activates the account: sets the password hash, marks
	// registration completed and consumes the signup token.
	CompleteSignup(ctx context.Context, id, passwordHash string) error
}

// Departments covers department CRUD and the membership relation.
type Departments interface {
	DepartmentByID(ctx context.Context, id string) (*models.Department, error)
	CreateDepartment(ctx context.Context, department *models.Department) error
	UpdateDepartment(ctx context.Context, department *models.Department) error
	DeleteDepartment(ctx context.Context, id string) error
	ListDepartments(ctx context.Context) ([]models.Department, error)
	AddDepartmentDoctor(ctx context.Context, departmentID, doctorID string) error
	RemoveDepartmentDoctor(ctx context.Context, departmentID, doctorID string) error
	IsDepartmentMember(ctx context.Context, departmentID, doctorID string) (bool, error)
}

// Appointments persists the appointment lifecycle. Every status mutation
// is a compare-and-swap on the previously observed status so concurrent
// conflicting transitions cannot silently overwrite each other; a false
// return means the appointment was not in the expected state anymore.
type Appointments interface {
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	AppointmentByID(ctx context.Context, id string) (*models.Appointment, error)
	// CountActiveByPatient counts the patient's appointments with status
	// other than completed. Cancelled appointments count too.
	CountActiveByPatient(ctx context.Context, patientID string) (int64, error)
	AppointmentsByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	AppointmentsByDepartment(ctx context.Context, departmentID string) ([]models.Appointment, error)
	AppointmentsByDepartmentDoctor(ctx context.Context, departmentID, doctorID string) ([]models.Appointment, error)
	RescheduleAppointment(ctx context.Context, id string, appointedAt int64) (bool, error)
	AssignAppointment(ctx context.Context, id string, from models.AppointmentStatus, doctorID string, appointedAt int64, to models.AppointmentStatus) (bool, error)
	SetAppointmentStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error)
}

// Store aggregates every persistence concern behind one handle, constructed
// once at process start and passed to each component explicitly.
type Store interface {
	Accounts
	Doctors
	Departments
	Appointments
}
