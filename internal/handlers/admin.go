package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mussacharles60/hospital-booking/internal/auth"
	"github.com/mussacharles60/hospital-booking/internal/departments"
	"github.com/mussacharles60/hospital-booking/internal/utils"
)

// AdminHandler serves department administration and the doctor roster.
type AdminHandler struct {
	Departments *departments.Service
	Auth        *auth.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(departments *departments.Service, auth *auth.Service) *AdminHandler {
	return &AdminHandler{Departments: departments, Auth: auth}
}

// Handle dispatches the admin actions. The route is guarded by the admin
// auth middleware.
func (h *AdminHandler) Handle(c *gin.Context) {
	action, ok := bindAction(c)
	if !ok {
		return
	}

	switch action {
	case "doctors_signup_requests_data":
		h.doctorsData(c, false)
	case "verify_doctor_signup_request":
		h.verifyDoctorSignupRequest(c)
	case "doctors_data":
		h.doctorsData(c, true)
	case "create_department":
		h.createDepartment(c)
	case "update_department":
		h.updateDepartment(c)
	case "departments_data":
		h.departmentsData(c)
	case "remove_department":
		h.removeDepartment(c)
	case "add_department_doctor":
		h.addDepartmentDoctor(c)
	case "remove_department_doctor":
		h.removeDepartmentDoctor(c)
	default:
		utils.NotFound(c, "unknown action")
	}
}

func (h *AdminHandler) doctorsData(c *gin.Context, completed bool) {
	list, err := h.Departments.Doctors(c.Request.Context(), completed)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, listMessage("doctors", len(list)), gin.H{"doctors": doctorListResponse(list)})
}

func (h *AdminHandler) verifyDoctorSignupRequest(c *gin.Context) {
	var req struct {
		DoctorID string `json:"doctor_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.DoctorID, "doctor id is required") {
		return
	}

	mailSent, err := h.Auth.VerifyDoctorSignupRequest(c.Request.Context(), req.DoctorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	message := "doctor signup request mail sent"
	if !mailSent {
		message = "doctor signup request mail not sent"
	}
	utils.Success(c, message, gin.H{"doctor_signup_request_mail_sent": mailSent})
}

func (h *AdminHandler) createDepartment(c *gin.Context) {
	var req struct {
		DepartmentName string `json:"department_name"`
		DepartmentType string `json:"department_type"`
		Description    string `json:"description"`
		LeaderID       string `json:"leader_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.DepartmentName, "department name is required") {
		return
	}
	if !requireField(c, req.DepartmentType, "department type is required") {
		return
	}
	if !requireField(c, req.LeaderID, "leader id is required") {
		return
	}

	department, err := h.Departments.Create(c.Request.Context(), req.DepartmentName, req.DepartmentType, req.Description, req.LeaderID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "department created", gin.H{"department": departmentResponse(department)})
}

func (h *AdminHandler) updateDepartment(c *gin.Context) {
	var req struct {
		DepartmentID   string `json:"department_id"`
		DepartmentName string `json:"department_name"`
		DepartmentType string `json:"department_type"`
		Description    string `json:"description"`
		LeaderID       string `json:"leader_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.DepartmentID, "department id is required") {
		return
	}
	if !requireField(c, req.DepartmentName, "department name is required") {
		return
	}
	if !requireField(c, req.DepartmentType, "department type is required") {
		return
	}
	if !requireField(c, req.LeaderID, "leader id is required") {
		return
	}

	department, err := h.Departments.Update(c.Request.Context(), req.DepartmentID, req.DepartmentName, req.DepartmentType, req.Description, req.LeaderID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "department updated", gin.H{"department": departmentResponse(department)})
}

func (h *AdminHandler) departmentsData(c *gin.Context) {
	list, err := h.Departments.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, listMessage("departments", len(list)), gin.H{"departments": departmentListResponse(list)})
}

func (h *AdminHandler) removeDepartment(c *gin.Context) {
	var req struct {
		DepartmentID string `json:"department_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.DepartmentID, "department id is required") {
		return
	}

	if err := h.Departments.Remove(c.Request.Context(), req.DepartmentID); err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "department deleted", nil)
}

func (h *AdminHandler) addDepartmentDoctor(c *gin.Context) {
	var req struct {
		DepartmentID string `json:"department_id"`
		DoctorID     string `json:"doctor_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.DepartmentID, "department id is required") {
		return
	}
	if !requireField(c, req.DoctorID, "doctor id is required") {
		return
	}

	if err := h.Departments.AddMember(c.Request.Context(), req.DepartmentID, req.DoctorID); err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "doctor added to department", nil)
}

func (h *AdminHandler) removeDepartmentDoctor(c *gin.Context) {
	var req struct {
		DepartmentID string `json:"department_id"`
		DoctorID     string `json:"doctor_id"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.DepartmentID, "department id is required") {
		return
	}
	if !requireField(c, req.DoctorID, "doctor id is required") {
		return
	}

	if err := h.Departments.RemoveMember(c.Request.Context(), req.DepartmentID, req.DoctorID); err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "doctor removed from department", nil)
}
