package handlers

import (
	"net/http"
	"time"

	"github.com/geocoder89/taskhub/internal/cache"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const usersListCacheKey = "users:all"

type UsersHandler struct {
	users UserStore
	cache *cache.Cache
}

func NewUsersHandler(users UserStore, c *cache.Cache) *UsersHandler {
	return &UsersHandler{users: users, cache: c}
}

// ListUsers returns every registered user, password hash excluded by
// serialization. The listing is cached; registration invalidates it.
func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	if cached, ok := h.cache.Get(usersListCacheKey); ok {
		if users, ok := cached.([]user.User); ok {
			ctx.JSON(http.StatusOK, users)
			return
		}
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	users, err := h.users.List(cctx)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	h.cache.Set(usersListCacheKey, users)

	ctx.JSON(http.StatusOK, users)
}
