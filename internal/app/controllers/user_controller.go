package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/app/services"
	"github.com/yigit/topicreg/internal/middleware"
	"github.com/yigit/topicreg/internal/pkg/validation"
)

// UserController handles user administration
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

// ListUsers returns every user
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.userService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// SetAdmin grants or revokes admin rights
// @Summary Change a user's admin flag
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentNumber path string true "Student number"
// @Param request body dto.UserAdminRequest true "Admin flag"
// @Success 200 {object} models.User
// @Failure 400 {object} dto.ErrorResponse "Admin undefined"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{studentNumber} [put]
func (c *UserController) SetAdmin(ctx *gin.Context) {
	var req dto.UserAdminRequest
	if err := middleware.BindAndValidate(ctx, &req, validation.Messages{"admin": "admin undefined"}); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	studentNumber := ctx.Param("studentNumber")
	user, err := c.userService.SetAdmin(ctx.Request.Context(), studentNumber, *req.Admin)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentNumber", studentNumber).Bool("admin", user.Admin).Msg("Admin flag changed")
	ctx.JSON(http.StatusOK, user)
}
