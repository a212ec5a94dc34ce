package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mussacharles60/hospital-booking/internal/auth"
	"github.com/mussacharles60/hospital-booking/internal/middleware"
	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/store"
	"github.com/mussacharles60/hospital-booking/internal/tokens"
	"github.com/mussacharles60/hospital-booking/internal/utils"
)

// UserHandler serves profile edits for any account role. Each action
// authenticates the caller itself because the role is part of the action
// name rather than the route.
type UserHandler struct {
	Auth     *auth.Service
	Tokens   *tokens.Service
	Accounts store.Accounts
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *auth.Service, tk *tokens.Service, accounts store.Accounts) *UserHandler {
	return &UserHandler{Auth: auth, Tokens: tk, Accounts: accounts}
}

// Handle dispatches the account actions.
func (h *UserHandler) Handle(c *gin.Context) {
	action, ok := bindAction(c)
	if !ok {
		return
	}

	switch action {
	case "admin_account_edit":
		h.accountEdit(c, models.RoleAdmin)
	case "doctor_account_edit":
		h.accountEdit(c, models.RoleDoctor)
	case "patient_account_edit":
		h.accountEdit(c, models.RolePatient)
	default:
		utils.NotFound(c, "unknown action")
	}
}

func (h *UserHandler) accountEdit(c *gin.Context, role models.Role) {
	account, ok := middleware.GetUser(c, h.Tokens, h.Accounts, role)
	if !ok {
		return
	}

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if !bind(c, &req) {
		return
	}
	if !requireField(c, req.Name, "name is required") {
		return
	}
	if !requireField(c, req.Phone, "phone is required") {
		return
	}

	updated, err := h.Auth.UpdateProfile(c.Request.Context(), role, account.ID, req.Name, req.Phone)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.Success(c, "account updated", gin.H{string(role): accountResponse(updated)})
}
