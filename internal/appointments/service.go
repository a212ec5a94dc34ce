package appointments

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mussacharles60/hospital-booking/internal/mailer"
	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/permissions"
	"github.com/mussacharles60/hospital-booking/internal/store"
)

// Store is the persistence surface the lifecycle needs.
type Store interface {
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	AppointmentByID(ctx context.Context, id string) (*models.Appointment, error)
	AppointmentsByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	AppointmentsByDepartment(ctx context.Context, departmentID string) ([]models.Appointment, error)
	AppointmentsByDepartmentDoctor(ctx context.Context, departmentID, doctorID string) ([]models.Appointment, error)
	RescheduleAppointment(ctx context.Context, id string, appointedAt int64) (bool, error)
	AssignAppointment(ctx context.Context, id string, from models.AppointmentStatus, doctorID string, appointedAt int64, to models.AppointmentStatus) (bool, error)
	SetAppointmentStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error)
	DepartmentByID(ctx context.Context, id string) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	DoctorByID(ctx context.Context, id string) (*models.Doctor, error)
}

// Service is the appointment lifecycle manager. Each transition checks the
// actor's permission, validates the current state and persists the change
// with a compare-and-swap on the status it just observed.
type Service struct {
	store  Store
	perms  *permissions.Engine
	mailer mailer.Mailer
	log    zerolog.Logger
}

// NewService wires the lifecycle manager.
func NewService(st Store, perms *permissions.Engine, m mailer.Mailer, log zerolog.Logger) *Service {
	return &Service{store: st, perms: perms, mailer: m, log: log.With().Str("component", "appointments").Logger()}
}

// Create books a new pending appointment for the patient. The department
// must exist and the patient must be below the appointment cap.
func (s *Service) Create(ctx context.Context, patientID, departmentID, description string, appointedAt int64) (*models.Appointment, error) {
	department, err := s.store.DepartmentByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	allowed, err := s.perms.CanPatientCreateAppointment(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrQuotaExceeded
	}

	appointment := &models.Appointment{
		Description:  description,
		DepartmentID: department.ID,
		DoctorID:     nil,
		PatientID:    patientID,
		AppointedAt:  appointedAt,
		Status:       models.StatusPending,
	}
	if err := s.store.CreateAppointment(ctx, appointment); err != nil {
		return nil, err
	}
	appointment.Department = *department

	s.log.Info().Str("appointment_id", appointment.ID).Str("patient_id", patientID).
		Str("department_id", department.ID).Msg("appointment created")
	return appointment, nil
}

// Reschedule moves a pending appointment to a new requested time. Only
// the owning patient may do this, and only while no doctor is assigned.
func (s *Service) Reschedule(ctx context.Context, patientID, appointmentID string, appointedAt int64) (*models.Appointment, error) {
	appointment, err := s.ownedByPatient(ctx, patientID, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.Status != models.StatusPending {
		if appointment.Status.Terminal() {
			return nil, ErrTerminal
		}
		return nil, ErrNotPending
	}

	ok, err := s.store.RescheduleAppointment(ctx, appointment.ID, appointedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	appointment.AppointedAt = appointedAt
	return appointment, nil
}

// Cancel cancels the patient's appointment from any non-terminal state.
// Re-cancelling is rejected, not silently accepted.
func (s *Service) Cancel(ctx context.Context, patientID, appointmentID string) (*models.Appointment, error) {
	appointment, err := s.ownedByPatient(ctx, patientID, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.Status == models.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if appointment.Status.Terminal() {
		return nil, ErrTerminal
	}

	ok, err := s.store.SetAppointmentStatus(ctx, appointment.ID, appointment.Status, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	appointment.Status = models.StatusCancelled
	s.log.Info().Str("appointment_id", appointment.ID).Msg("appointment cancelled")
	return appointment, nil
}

// Assign gives the appointment to a doctor. Only the leader of the
// specified department may assign, the appointment must belong to that
// department and the target doctor must exist. Leadership is re-validated
// here even though the patient already chose the department at creation:
// departments and leaders may have changed since. The resulting status
// records whether the patient could be notified by mail.
func (s *Service) Assign(ctx context.Context, leaderID, departmentID, appointmentID, doctorID string, appointedAt int64) (*models.Appointment, bool, error) {
	department, err := s.store.DepartmentByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, ErrDepartmentNotFound
		}
		return nil, false, err
	}

	isLeader, err := s.perms.IsDepartmentLeader(ctx, department.ID, leaderID)
	if err != nil {
		return nil, false, err
	}
	if !isLeader {
		return nil, false, ErrNotLeader
	}

	doctor, err := s.store.DoctorByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, ErrDoctorNotFound
		}
		return nil, false, err
	}

	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, ErrAppointmentNotFound
		}
		return nil, false, err
	}
	if appointment.DepartmentID != department.ID {
		return nil, false, ErrWrongDepartment
	}
	if appointment.Status.Terminal() {
		return nil, false, ErrTerminal
	}

	emailSent := true
	if err := s.mailer.SendAppointmentAssigned(ctx, appointment.Patient.Email, appointment.Patient.Name, department.Name, appointedAt); err != nil {
		s.log.Warn().Err(err).Str("appointment_id", appointment.ID).Msg("assignment mail not sent")
		emailSent = false
	}

	status := models.StatusAssignedEmailSent
	if !emailSent {
		status = models.StatusAssignedEmailUnsent
	}

	ok, err := s.store.AssignAppointment(ctx, appointment.ID, appointment.Status, doctor.ID, appointedAt, status)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, ErrConflict
	}

	appointment.DoctorID = &doctor.ID
	appointment.Doctor = doctor
	appointment.AppointedAt = appointedAt
	appointment.Status = status

	s.log.Info().Str("appointment_id", appointment.ID).Str("doctor_id", doctor.ID).
		Bool("email_sent", emailSent).Msg("appointment assigned")
	return appointment, emailSent, nil
}

// SetOngoing marks an assigned appointment as in progress. Only the
// assigned doctor may start it.
func (s *Service) SetOngoing(ctx context.Context, doctorID, appointmentID string) (*models.Appointment, error) {
	appointment, err := s.assignedToDoctor(ctx, doctorID, appointmentID)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.Assigned() {
		return nil, ErrInvalidTransition
	}

	return s.transition(ctx, appointment, models.StatusOngoing)
}

// SetComplete marks an assigned or ongoing appointment as completed. Only
// the assigned doctor may complete it.
func (s *Service) SetComplete(ctx context.Context, doctorID, appointmentID string) (*models.Appointment, error) {
	appointment, err := s.assignedToDoctor(ctx, doctorID, appointmentID)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.Assigned() && appointment.Status != models.StatusOngoing {
		return nil, ErrInvalidTransition
	}

	return s.transition(ctx, appointment, models.StatusCompleted)
}

// PatientAppointments lists the patient's own appointments.
func (s *Service) PatientAppointments(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.store.AppointmentsByPatient(ctx, patientID)
}

// Departments lists all departments with their leaders for the doctor
// directory view.
func (s *Service) Departments(ctx context.Context) ([]models.Department, error) {
	return s.store.ListDepartments(ctx)
}

// DepartmentAppointments lists a department's appointments for a doctor.
// The leader sees every appointment, a member only their own; anyone else
// is denied.
func (s *Service) DepartmentAppointments(ctx context.Context, doctorID, departmentID string) ([]models.Appointment, error) {
	department, err := s.store.DepartmentByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	if department.LeaderID == doctorID {
		return s.store.AppointmentsByDepartment(ctx, department.ID)
	}

	member, err := s.perms.IsDoctorMemberOfDepartment(ctx, department.ID, doctorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}
	return s.store.AppointmentsByDepartmentDoctor(ctx, department.ID, doctorID)
}

func (s *Service) ownedByPatient(ctx context.Context, patientID, appointmentID string) (*models.Appointment, error) {
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, ErrNotOwner
	}
	return appointment, nil
}

func (s *Service) assignedToDoctor(ctx context.Context, doctorID, appointmentID string) (*models.Appointment, error) {
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	// The department check mirrors creation-time validation: a department
	// removed since then closes its appointments to further work.
	if _, err := s.store.DepartmentByID(ctx, appointment.DepartmentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	if appointment.Status.Terminal() {
		return nil, ErrTerminal
	}
	if appointment.DoctorID == nil || *appointment.DoctorID != doctorID {
		return nil, ErrNotAssignedDoctor
	}
	return appointment, nil
}

func (s *Service) transition(ctx context.Context, appointment *models.Appointment, to models.AppointmentStatus) (*models.Appointment, error) {
	ok, err := s.store.SetAppointmentStatus(ctx, appointment.ID, appointment.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	appointment.Status = to
	s.log.Info().Str("appointment_id", appointment.ID).Str("status", string(to)).Msg("appointment status changed")
	return appointment, nil
}
