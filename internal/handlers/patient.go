package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mussacharles60/hospital-booking/internal/appointments"
	"github.com/mussacharles60/hospital-booking/internal/middleware"
	"github.com/mussacharles60/hospital-booking/internal/utils"
)

// PatientHandler serves the patient side of the appointment lifecycle.
type PatientHandler struct {
	Appointments *appointments.Service
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(appointments *appointments.Service) *PatientHandler {
	return &PatientHandler{Appointments: appointments}
}

// Handle dispatches the patient actions. The route is guarded by the
// patient auth middleware, so the live patient account is in the context.
func (h *PatientHandler) Handle(c *gin.Context) {
	patient, ok := middleware.AccountFromContext(c)
	if !ok {
		utils.Unauthorized(c, "invalid token")
		return
	}

	action, ok := bindAction(c)
	if !ok {
		return
	}

	switch action {
	case "create_appointment":
		h.createAppointment(c, patient.ID)
	case "reschedule_appointment":
		h.rescheduleAppointment(c, patient.ID)
	case "cancel_appointment":
		h.cancelAppointment(c, patient.ID)
	case "appointments_data":
		h.appointmentsData(c, patient.ID)
	default:
		utils.NotFound(c, "unknown action")
	}
}

func (h *PatientHandler) createAppointment(c *gin.Context, patientID string) {
	var req struct {
		DepartmentID string `json:"department_id"`
		Description  string `json:"description"`
		AppointedAt  *int64 `json:"appointed_at"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.DepartmentID, "department id is required") {
		return
	}
	if !requireAppointedAt(c, req.AppointedAt) {
		return
	}

	appointment, err := h.Appointments.Create(c.Request.Context(), patientID, req.DepartmentID, req.Description, *req.AppointedAt)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "appointment created", gin.H{"appointment": appointmentResponse(appointment)})
}

func (h *PatientHandler) rescheduleAppointment(c *gin.Context, patientID string) {
	var req struct {
		AppointmentID string `json:"appointment_id"`
		AppointedAt   *int64 `json:"appointed_at"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.AppointmentID, "appointment id is required") {
		return
	}
	if !requireAppointedAt(c, req.AppointedAt) {
		return
	}

	appointment, err := h.Appointments.Reschedule(c.Request.Context(), patientID, req.AppointmentID, *req.AppointedAt)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "appointment rescheduled", gin.H{"appointment": appointmentResponse(appointment)})
}

func (h *PatientHandler) cancelAppointment(c *gin.Context, patientID string) {
	var req struct {
		AppointmentID string `json:"appointment_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.AppointmentID, "appointment id is required") {
		return
	}

	appointment, err := h.Appointments.Cancel(c.Request.Context(), patientID, req.AppointmentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "appointment cancelled", gin.H{"appointment": appointmentResponse(appointment)})
}

func (h *PatientHandler) appointmentsData(c *gin.Context, patientID string) {
	list, err := h.Appointments.PatientAppointments(c.Request.Context(), patientID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, listMessage("appointments", len(list)), gin.H{"appointments": appointmentListResponse(list)})
}
