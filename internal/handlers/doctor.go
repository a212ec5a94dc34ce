package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mussacharles60/hospital-booking/internal/appointments"
	"github.com/mussacharles60/hospital-booking/internal/middleware"
	"github.com/mussacharles60/hospital-booking/internal/utils"
)

// DoctorHandler serves the doctor side of the appointment lifecycle:
// department views, assignment (leaders only) and the ongoing/complete
// transitions.
type DoctorHandler struct {
	Appointments *appointments.Service
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(appointments *appointments.Service) *DoctorHandler {
	return &DoctorHandler{Appointments: appointments}
}

// Handle dispatches the doctor actions.
func (h *DoctorHandler) Handle(c *gin.Context) {
	doctor, ok := middleware.AccountFromContext(c)
	if !ok {
		utils.Unauthorized(c, "invalid token")
		return
	}

	action, ok := bindAction(c)
	if !ok {
		return
	}

	switch action {
	case "departments_data":
		h.departmentsData(c)
	case "department_appointments_data":
		h.departmentAppointmentsData(c, doctor.ID)
	case "assign_appointment":
		h.assignAppointment(c, doctor.ID)
	case "ongoing_appointment":
		h.ongoingAppointment(c, doctor.ID)
	case "complete_appointment":
		h.completeAppointment(c, doctor.ID)
	default:
		utils.NotFound(c, "unknown action")
	}
}

func (h *DoctorHandler) departmentsData(c *gin.Context) {
	list, err := h.Appointments.Departments(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, listMessage("departments", len(list)), gin.H{"departments": departmentListResponse(list)})
}

func (h *DoctorHandler) departmentAppointmentsData(c *gin.Context, doctorID string) {
	var req struct {
		DepartmentID string `json:"department_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.DepartmentID, "department id is required") {
		return
	}

	list, err := h.Appointments.DepartmentAppointments(c.Request.Context(), doctorID, req.DepartmentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, listMessage("appointments", len(list)), gin.H{"appointments": appointmentListResponse(list)})
}

func (h *DoctorHandler) assignAppointment(c *gin.Context, doctorID string) {
	var req struct {
		DepartmentID  string `json:"department_id"`
		AppointmentID string `json:"appointment_id"`
		DoctorID      string `json:"doctor_id"`
		AppointedAt   *int64 `json:"appointed_at"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.DepartmentID, "department id is required") {
		return
	}
	if !requireField(c, req.AppointmentID, "appointment id is required") {
		return
	}
	if !requireField(c, req.DoctorID, "doctor id is required") {
		return
	}
	if !requireAppointedAt(c, req.AppointedAt) {
		return
	}

	appointment, emailSent, err := h.Appointments.Assign(c.Request.Context(), doctorID, req.DepartmentID, req.AppointmentID, req.DoctorID, *req.AppointedAt)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	message := "appointment assigned and email was sent to patient"
	if !emailSent {
		message = "appointment assigned and email was not sent to patient"
	}
	utils.Success(c, message, gin.H{"appointment": appointmentResponse(appointment)})
}

func (h *DoctorHandler) ongoingAppointment(c *gin.Context, doctorID string) {
	var req struct {
		AppointmentID string `json:"appointment_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.AppointmentID, "appointment id is required") {
		return
	}

	appointment, err := h.Appointments.SetOngoing(c.Request.Context(), doctorID, req.AppointmentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "appointment updated", gin.H{"appointment": appointmentResponse(appointment)})
}

func (h *DoctorHandler) completeAppointment(c *gin.Context, doctorID string) {
	var req struct {
		AppointmentID string `json:"appointment_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.AppointmentID, "appointment id is required") {
		return
	}

	appointment, err := h.Appointments.SetComplete(c.Request.Context(), doctorID, req.AppointmentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "appointment completed", gin.H{"appointment": appointmentResponse(appointment)})
}
