// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/app/services"
	"github.com/yigit/topicreg/internal/middleware"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
)

// IdentityHeaders names the request headers in which the single sign-on
// gateway asserts the caller's identity.
type IdentityHeaders struct {
	UID           string
	FirstNames    string
	LastName      string
	Email         string
	StudentNumber string
}

// AuthController handles login and token checks
type AuthController struct {
	authService *services.AuthService
	headers     IdentityHeaders
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, headers IdentityHeaders, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		headers:     headers,
		logger:      logger,
	}
}

// identity reads the gateway headers. The student number falls back to the
// uid when the gateway does not send one.
func (c *AuthController) identity(ctx *gin.Context) services.Identity {
	id := services.Identity{
		UID:        ctx.GetHeader(c.headers.UID),
		FirstNames: ctx.GetHeader(c.headers.FirstNames),
		LastName:   ctx.GetHeader(c.headers.LastName),
		Email:      ctx.GetHeader(c.headers.Email),
	}
	if code := ctx.GetHeader(c.headers.StudentNumber); code != "" {
		id.StudentNumber = services.StudentNumberFromCode(code)
	}
	return id
}

// Login handles user login
// @Summary User login
// @Description Creates or refreshes the user asserted by the gateway headers and returns an access token. The admin flag is never changed by a login.
// @Tags auth
// @Produce json
// @Param uid header string true "Gateway user id"
// @Param givenname header string false "First names"
// @Param sn header string false "Last name"
// @Param mail header string false "Email"
// @Param schacpersonaluniquecode header string false "Personal unique code carrying the student number"
// @Success 200 {object} map[string]interface{} "token and user"
// @Failure 401 {object} dto.ErrorResponse "Missing identity"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	id := c.identity(ctx)

	token, user, err := c.authService.Login(ctx.Request.Context(), id)
	if err != nil {
		c.logger.Warn().Err(err).Str("uid", id.UID).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentNumber", user.StudentNumber).Bool("admin", user.Admin).Msg("User logged in")
	ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// claims answers with the caller's token claims.
func (c *AuthController) claims(ctx *gin.Context) {
	claims, ok := middleware.Claims(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError(dto.MessageUnauthorized))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": claims})
}

// CheckLogin confirms the caller holds a valid token
// @Summary Check a login token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /tokenCheck/login [get]
func (c *AuthController) CheckLogin(ctx *gin.Context) {
	c.claims(ctx)
}

// CheckAdmin confirms the caller holds a valid admin token
// @Summary Check an admin token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Router /tokenCheck/admin [get]
func (c *AuthController) CheckAdmin(ctx *gin.Context) {
	c.claims(ctx)
}
