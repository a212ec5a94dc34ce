package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/store"
	"github.com/mussacharles60/hospital-booking/internal/tokens"
	"github.com/mussacharles60/hospital-booking/internal/utils"
)

const accountKey = "account"

// GetUser resolves the live account behind the request's bearer token for
// the required role. The token only identifies the subject; the account is
// re-read so permission checks always see current state, never stale
// claims. On failure an unauthorized response is written and ok is false.
func GetUser(c *gin.Context, tk *tokens.Service, accounts store.Accounts, role models.Role) (*store.AccountRecord, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		utils.Unauthorized(c, "invalid token")
		return nil, false
	}

	claims, err := tk.Verify(tokens.KindAccess, parts[1])
	if err != nil || claims.Role != role {
		utils.Unauthorized(c, "invalid token")
		return nil, false
	}

	account, err := accounts.AccountByID(c.Request.Context(), role, claims.UserID)
	if err != nil {
		// A missing account and a store failure both end the request here,
		// but only the latter is a 500.
		if err == store.ErrNotFound {
			utils.Unauthorized(c, "invalid token")
		} else {
			utils.InternalServerError(c)
		}
		return nil, false
	}

	return account, true
}

// RequireRole creates a middleware that authenticates the request as the
// given account kind and stores the live account record in the context.
func RequireRole(tk *tokens.Service, accounts store.Accounts, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := GetUser(c, tk, accounts, role)
		if !ok {
			c.Abort()
			return
		}
		c.Set(accountKey, account)
		c.Next()
	}
}

// AccountFromContext returns the account set by RequireRole.
func AccountFromContext(c *gin.Context) (*store.AccountRecord, bool) {
	v, exists := c.Get(accountKey)
	if !exists {
		return nil, false
	}
	account, ok := v.(*store.AccountRecord)
	return account, ok
}
