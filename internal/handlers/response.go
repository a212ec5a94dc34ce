package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mussacharles60/hospital-booking/internal/appointments"
	"github.com/mussacharles60/hospital-booking/internal/auth"
	"github.com/mussacharles60/hospital-booking/internal/departments"
	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/store"
	"github.com/mussacharles60/hospital-booking/internal/utils"
)

type refJSON struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type appointmentJSON struct {
	ID          string                   `json:"id"`
	Description string                   `json:"description"`
	Department  refJSON                  `json:"department"`
	Patient     refJSON                  `json:"patient"`
	Doctor      *refJSON                 `json:"doctor"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
	AppointedAt int64                    `json:"appointed_at"`
	Status      models.AppointmentStatus `json:"status"`
}

func appointmentResponse(ap *models.Appointment) appointmentJSON {
	out := appointmentJSON{
		ID:          ap.ID,
		Description: ap.Description,
		Department:  refJSON{ID: ap.DepartmentID, Name: ap.Department.Name},
		Patient:     refJSON{ID: ap.PatientID, Name: ap.Patient.Name},
		CreatedAt:   ap.CreatedAt,
		UpdatedAt:   ap.UpdatedAt,
		AppointedAt: ap.AppointedAt,
		Status:      ap.Status,
	}
	if ap.DoctorID != nil {
		doctor := refJSON{ID: *ap.DoctorID}
		if ap.Doctor != nil {
			doctor.Name = ap.Doctor.Name
		}
		out.Doctor = &doctor
	}
	return out
}

func appointmentListResponse(aps []models.Appointment) []appointmentJSON {
	out := make([]appointmentJSON, 0, len(aps))
	for i := range aps {
		out = append(out, appointmentResponse(&aps[i]))
	}
	return out
}

type departmentJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Leader      refJSON   `json:"leader"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func departmentResponse(d *models.Department) departmentJSON {
	return departmentJSON{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.Type,
		Description: d.Description,
		Leader:      refJSON{ID: d.LeaderID, Name: d.Leader.Name},
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func departmentListResponse(ds []models.Department) []departmentJSON {
	out := make([]departmentJSON, 0, len(ds))
	for i := range ds {
		out = append(out, departmentResponse(&ds[i]))
	}
	return out
}

func accountResponse(a *store.AccountRecord) models.AccountSanitized {
	return models.AccountSanitized{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func doctorListResponse(ds []models.Doctor) []models.DoctorSanitized {
	out := make([]models.DoctorSanitized, 0, len(ds))
	for i := range ds {
		out = append(out, ds[i].Sanitize())
	}
	return out
}

func listMessage(kind string, n int) string {
	if n == 1 {
		return fmt.Sprintf("returned %s data with 1 item", kind)
	}
	return fmt.Sprintf("returned %s data with %d items", kind, n)
}

// writeServiceError maps service errors onto the wire taxonomy. Anything
// unrecognized is a store or token failure and surfaces as 500; it is
// never swallowed.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound),
		errors.Is(err, appointments.ErrDepartmentNotFound),
		errors.Is(err, appointments.ErrDoctorNotFound),
		errors.Is(err, departments.ErrDepartmentNotFound),
		errors.Is(err, departments.ErrDoctorNotFound),
		errors.Is(err, departments.ErrMemberNotFound),
		errors.Is(err, auth.ErrAccountNotFound):
		utils.NotFound(c, err.Error())

	case errors.Is(err, appointments.ErrQuotaExceeded),
		errors.Is(err, appointments.ErrNotOwner),
		errors.Is(err, appointments.ErrNotLeader),
		errors.Is(err, appointments.ErrNotMember),
		errors.Is(err, appointments.ErrNotAssignedDoctor),
		errors.Is(err, appointments.ErrWrongDepartment),
		errors.Is(err, appointments.ErrNotPending),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		utils.Unauthorized(c, err.Error())

	case errors.Is(err, appointments.ErrAlreadyCancelled),
		errors.Is(err, appointments.ErrTerminal),
		errors.Is(err, appointments.ErrInvalidTransition),
		errors.Is(err, appointments.ErrConflict),
		errors.Is(err, departments.ErrAlreadyMember),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrSignupCompleted):
		utils.Conflict(c, err.Error())

	default:
		utils.InternalServerError(c)
	}
}
