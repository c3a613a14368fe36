package middlewares

import (
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const (
	CtxRequestID = "request_id"

	ctxUserKey = "auth.user"
)

// CurrentUser returns the identity the auth gate attached to the
// request. Handlers behind the gate can rely on ok being true.
func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return user.User{}, false
	}

	u, ok := v.(user.User)
	return u, ok
}

// SetCurrentUser attaches the resolved identity. The gate is the only
// production caller; tests use it to mount handlers behind a fake gate.
func SetCurrentUser(c *gin.Context, u user.User) {
	c.Set(ctxUserKey, u)
}
