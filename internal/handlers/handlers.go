package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/mussacharles60/hospital-booking/internal/utils"
)

// Each resource endpoint is a single POST taking {action: string, ...};
// the body is buffered so the action and the action-specific fields can be
// bound separately. Unknown actions are answered explicitly, never
// dropped.

func bindAction(c *gin.Context) (string, bool) {
	var req struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil || req.Action == "" {
		utils.Forbidden(c, "action is required")
		return "", false
	}
	return req.Action, true
}

func bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		utils.Forbidden(c, "invalid request body")
		return false
	}
	return true
}

// requireField enforces the wire convention that a missing required field
// is 403 with a field-specific message.
func requireField(c *gin.Context, value, message string) bool {
	if value == "" {
		utils.Forbidden(c, message)
		return false
	}
	return true
}

// requireAppointedAt validates the caller-supplied future-intent
// timestamp: present and strictly positive.
func requireAppointedAt(c *gin.Context, value *int64) bool {
	if value == nil || *value <= 0 {
		utils.Forbidden(c, "a valid appointment date is required")
		return false
	}
	return true
}
