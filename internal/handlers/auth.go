package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mussacharles60/hospital-booking/internal/auth"
	"github.com/mussacharles60/hospital-booking/internal/config"
	"github.com/mussacharles60/hospital-booking/internal/middleware"
	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/store"
	"github.com/mussacharles60/hospital-booking/internal/tokens"
	"github.com/mussacharles60/hospital-booking/internal/utils"
)

const refreshCookie = "refresh_token"

const minPasswordLength = 8

// AuthHandler serves login, signup, token refresh and the password flows.
type AuthHandler struct {
	Auth     *auth.Service
	Tokens   *tokens.Service
	Accounts store.Accounts
	Cfg      *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *auth.Service, tk *tokens.Service, accounts store.Accounts, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Auth: auth, Tokens: tk, Accounts: accounts, Cfg: cfg}
}

// Handle dispatches the auth actions.
func (h *AuthHandler) Handle(c *gin.Context) {
	action, ok := bindAction(c)
	if !ok {
		return
	}

	switch action {
	case "login":
		h.login(c)
	case "signup":
		h.signup(c)
	case "doctor_request_signup":
		h.doctorRequestSignup(c)
	case "doctor_signup":
		h.doctorSignup(c)
	case "refresh_token":
		h.refresh(c)
	case "logout":
		h.logout(c)
	case "forgot_password":
		h.forgotPassword(c)
	case "recover_password":
		h.recoverPassword(c)
	case "change_password":
		h.changePassword(c)
	default:
		utils.NotFound(c, "unknown action")
	}
}

func (h *AuthHandler) login(c *gin.Context) {
	var req struct {
		Role     string `json:"role"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bind(c, &req) {
		return
	}
	role, ok := h.requireRole(c, req.Role)
	if !ok {
		return
	}
	if !requireField(c, req.Email, "email is required") {
		return
	}
	if !utils.IsEmail(req.Email) {
		utils.Forbidden(c, "a valid email is required")
		return
	}
	if !requireField(c, req.Password, "password is required") {
		return
	}

	account, pair, err := h.Auth.Login(c.Request.Context(), role, req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.Refresh)
	utils.Success(c, "login successful", gin.H{
		string(role):   accountResponse(account),
		"access_token": pair.Access,
	})
}

func (h *AuthHandler) signup(c *gin.Context) {
	var req struct {
		Role     string `json:"role"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if !bind(c, &req) {
		return
	}
	role, ok := h.requireRole(c, req.Role)
	if !ok {
		return
	}
	if role != models.RoleAdmin && role != models.RolePatient {
		utils.Forbidden(c, "a valid role is required")
		return
	}
	if !requireField(c, req.Name, "name is required") {
		return
	}
	if !requireField(c, req.Email, "email is required") {
		return
	}
	if !utils.IsEmail(req.Email) {
		utils.Forbidden(c, "a valid email is required")
		return
	}
	if !requireField(c, req.Phone, "phone is required") {
		return
	}
	if !h.requirePassword(c, req.Password) {
		return
	}

	account, err := h.Auth.Signup(c.Request.Context(), role, req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "signup successful", gin.H{string(role): accountResponse(account)})
}

func (h *AuthHandler) doctorRequestSignup(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Certificate string `json:"certificate"`
		Identity    string `json:"identity"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.Name, "name is required") {
		return
	}
	if !requireField(c, req.Email, "email is required") {
		return
	}
	if !utils.IsEmail(req.Email) {
		utils.Forbidden(c, "a valid email is required")
		return
	}
	if !requireField(c, req.Phone, "phone is required") {
		return
	}
	if !requireField(c, req.Certificate, "certificate is required") {
		return
	}
	if !requireField(c, req.Identity, "identity is required") {
		return
	}

	doctor, err := h.Auth.RequestDoctorSignup(c.Request.Context(), req.Name, req.Email, req.Phone, req.Certificate, req.Identity)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "doctor signup request received", gin.H{"doctor": doctor.Sanitize()})
}

func (h *AuthHandler) doctorSignup(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.Token, "token is required") {
		return
	}
	if !h.requirePassword(c, req.Password) {
		return
	}

	doctor, err := h.Auth.CompleteDoctorSignup(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "doctor signup completed", gin.H{"doctor": doctor.Sanitize()})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		// Fall back to the body for clients that cannot carry cookies.
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if !bind(c, &req) {
			return
		}
		token = req.RefreshToken
	}
	if token == "" {
		utils.Unauthorized(c, "refresh token is required")
		return
	}

	account, pair, err := h.Auth.Refresh(c.Request.Context(), token)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.Refresh)
	utils.Success(c, "token refreshed", gin.H{
		string(account.Role): accountResponse(account),
		"access_token":       pair.Access,
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	c.SetCookie(refreshCookie, "", -1, "/", "", h.secureCookies(), true)
	utils.Success(c, "logout successful", nil)
}

func (h *AuthHandler) forgotPassword(c *gin.Context) {
	var req struct {
		Role  string `json:"role"`
		Email string `json:"email"`
	}
	if !bind(c, &req) {
		return
	}
	role, ok := h.requireRole(c, req.Role)
	if !ok {
		return
	}
	if !requireField(c, req.Email, "email is required") {
		return
	}
	if !utils.IsEmail(req.Email) {
		utils.Forbidden(c, "a valid email is required")
		return
	}

	mailSent, err := h.Auth.ForgotPassword(c.Request.Context(), role, req.Email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	message := "password recovery mail sent"
	if !mailSent {
		message = "password recovery mail not sent"
	}
	utils.Success(c, message, gin.H{"recovery_mail_sent": mailSent})
}

func (h *AuthHandler) recoverPassword(c *gin.Context) {
	var req struct {
		Role     string `json:"role"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !bind(c, &req) {
		return
	}
	role, ok := h.requireRole(c, req.Role)
	if !ok {
		return
	}
	if !requireField(c, req.Token, "token is required") {
		return
	}
	if !h.requirePassword(c, req.Password) {
		return
	}

	if err := h.Auth.RecoverPassword(c.Request.Context(), role, req.Token, req.Password); err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "password recovered", nil)
}

func (h *AuthHandler) changePassword(c *gin.Context) {
	var req struct {
		Role        string `json:"role"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if !bind(c, &req) {
		return
	}
	role, ok := h.requireRole(c, req.Role)
	if !ok {
		return
	}

	account, ok := middleware.GetUser(c, h.Tokens, h.Accounts, role)
	if !ok {
		return
	}

	if !requireField(c, req.OldPassword, "old password is required") {
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		utils.Forbidden(c, "a valid new password is required")
		return
	}

	if err := h.Auth.ChangePassword(c.Request.Context(), role, account.ID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "password changed", nil)
}

func (h *AuthHandler) requireRole(c *gin.Context, raw string) (models.Role, bool) {
	role := models.Role(raw)
	if !role.Valid() {
		utils.Forbidden(c, "a valid role is required")
		return "", false
	}
	return role, true
}

func (h *AuthHandler) requirePassword(c *gin.Context, password string) bool {
	if len(password) < minPasswordLength {
		utils.Forbidden(c, "a valid password is required")
		return false
	}
	return true
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(refreshCookie, token, int(h.Cfg.Tokens.RefreshTTL.Seconds()), "/", "", h.secureCookies(), true)
}

func (h *AuthHandler) secureCookies() bool {
	return h.Cfg.Environment != "development"
}
