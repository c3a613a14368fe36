package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/taskhub/internal/cache"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string, age *int) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
	cache *cache.Cache
}

func NewAuthHandler(users UserStore, jwt TokenIssuer, c *cache.Cache) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
		cache: c,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Age      *int   `json:"age" binding:"omitempty,gte=0,lte=150"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	u, err := h.users.Create(cctx, req.Name, req.Email, hash, req.Age)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondBadRequest(ctx, "User with this email already exists.", nil)
			return
		}

		RespondInternal(ctx, err)
		return
	}

	token, err := h.jwt.Issue(u.ID)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	h.cache.Delete(usersListCacheKey)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    u,
		"token":   token,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		// same response as a bad password: no user-enumeration leakage
		RespondBadRequest(ctx, "Invalid login credentials.", nil)
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondBadRequest(ctx, "Invalid login credentials.", nil)
		return
	}

	token, err := h.jwt.Issue(foundUser.ID)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    foundUser,
	})
}

// Profile returns the identity the gate resolved for this request.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Please authenticate.")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
