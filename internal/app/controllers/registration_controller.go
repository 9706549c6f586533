package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/app/repositories"
	"github.com/yigit/topicreg/internal/app/services"
	"github.com/yigit/topicreg/internal/middleware"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
	"github.com/yigit/topicreg/internal/pkg/validation"
)

var registrationMessages = validation.Messages{"preferred_topics": "preferred topics undefined"}

// RegistrationController handles student registrations and the
// configurations and instructor reviews around them
type RegistrationController struct {
	registrations     *services.RegistrationService
	configurationSvc  *services.CRUDService[models.Configuration]
	configurations    *Resource[models.Configuration, dto.ConfigurationRequest]
	instructorReviews *Resource[models.InstructorReview, dto.InstructorReviewRequest]
	logger            zerolog.Logger
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(
	registrations *services.RegistrationService,
	configurations *services.CRUDService[models.Configuration],
	instructorReviews *services.CRUDService[models.InstructorReview],
	logger zerolog.Logger,
) *RegistrationController {
	byID := repositories.Query{OrderBy: []repositories.Order{{Column: "id"}}}

	return &RegistrationController{
		registrations:    registrations,
		configurationSvc: configurations,
		configurations: &Resource[models.Configuration, dto.ConfigurationRequest]{
			Service: configurations,
			One:     "configuration",
			Many:    "configurations",
			Build: func(_ *gin.Context, req *dto.ConfigurationRequest) (*models.Configuration, error) {
				return &models.Configuration{
					Name:                      req.Name,
					Content:                   req.Content,
					Active:                    req.Active,
					ReviewQuestionSet1ID:      req.ReviewQuestionSet1ID,
					ReviewQuestionSet2ID:      req.ReviewQuestionSet2ID,
					RegistrationQuestionSetID: req.RegistrationQuestionSetID,
				}, nil
			},
			Apply: func(stored, candidate *models.Configuration) {
				stored.Name = candidate.Name
				stored.Content = candidate.Content
				stored.Active = candidate.Active
				stored.ReviewQuestionSet1ID = candidate.ReviewQuestionSet1ID
				stored.ReviewQuestionSet2ID = candidate.ReviewQuestionSet2ID
				stored.RegistrationQuestionSetID = candidate.RegistrationQuestionSetID
			},
			ListQuery: byID,
		},
		instructorReviews: &Resource[models.InstructorReview, dto.InstructorReviewRequest]{
			Service:  instructorReviews,
			One:      "instructorReview",
			Many:     "instructorReviews",
			Messages: validation.Messages{"answer_sheet": "answer sheet undefined"},
			Build: func(_ *gin.Context, req *dto.InstructorReviewRequest) (*models.InstructorReview, error) {
				return &models.InstructorReview{AnswerSheet: req.AnswerSheet}, nil
			},
			ListQuery: byID,
		},
		logger: logger,
	}
}

// student returns the caller's student number from the token claims.
func student(ctx *gin.Context) (string, error) {
	claims, ok := middleware.Claims(ctx)
	if !ok || claims == nil || claims.StudentNumber == "" {
		return "", apperrors.NewUnauthorizedError(dto.MessageUnauthorized)
	}
	return claims.StudentNumber, nil
}

// CreateRegistration records the caller's topic preferences
// @Summary Register for topics
// @Description The student is taken from the token. Without configuration_id the active configuration is used.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegistrationRequest true "Registration"
// @Success 200 {object} map[string]models.Registration
// @Failure 400 {object} dto.ErrorResponse "Preferred topics undefined"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /registrations [post]
func (c *RegistrationController) CreateRegistration(ctx *gin.Context) {
	studentNumber, err := student(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.RegistrationRequest
	if err := middleware.BindAndValidate(ctx, &req, registrationMessages); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	reg, err := c.registrations.Create(ctx.Request.Context(), studentNumber, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("studentNumber", studentNumber).Int64("registrationID", reg.ID).Msg("Registration stored")
	ctx.JSON(http.StatusOK, gin.H{"registration": reg})
}

// ListRegistrations returns every registration
// @Summary List registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.Registration
// @Router /registrations [get]
func (c *RegistrationController) ListRegistrations(ctx *gin.Context) {
	regs, err := c.registrations.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"registrations": regs})
}

// CurrentRegistration returns the caller's latest registration
// @Summary Get own latest registration
// @Description Answers {"registration": null} when the caller has not registered.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]models.Registration
// @Router /registrations/current [get]
func (c *RegistrationController) CurrentRegistration(ctx *gin.Context) {
	studentNumber, err := student(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	reg, err := c.registrations.Current(ctx.Request.Context(), studentNumber)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"registration": reg})
}

// CreateConfiguration stores a configuration
// @Summary Create a configuration
// @Tags configurations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConfigurationRequest true "Configuration"
// @Success 200 {object} map[string]models.Configuration
// @Failure 400 {object} dto.ErrorResponse "Name undefined"
// @Router /configurations [post]
func (c *RegistrationController) CreateConfiguration(ctx *gin.Context) {
	c.configurations.Create(ctx)
}

// UpdateConfiguration replaces a configuration
// @Summary Update a configuration
// @Tags configurations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Configuration ID"
// @Param request body dto.ConfigurationRequest true "Configuration"
// @Success 200 {object} map[string]models.Configuration
// @Failure 400 {object} dto.ErrorResponse
// @Router /configurations/{id} [put]
func (c *RegistrationController) UpdateConfiguration(ctx *gin.Context) {
	c.configurations.Update(ctx)
}

// ListConfigurations returns every configuration
// @Summary List configurations
// @Tags configurations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.Configuration
// @Router /configurations [get]
func (c *RegistrationController) ListConfigurations(ctx *gin.Context) {
	c.configurations.List(ctx)
}

// GetConfiguration returns one configuration, or null
// @Summary Get a configuration
// @Tags configurations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Configuration ID"
// @Success 200 {object} models.Configuration
// @Router /configurations/{id} [get]
func (c *RegistrationController) GetConfiguration(ctx *gin.Context) {
	c.configurations.Fetch(ctx)
}

// ActiveConfiguration returns the configuration open for registration
// @Summary Get the active configuration
// @Tags configurations
// @Produce json
// @Success 200 {object} map[string]models.Configuration
// @Router /configurations/active [get]
func (c *RegistrationController) ActiveConfiguration(ctx *gin.Context) {
	active, err := services.ActiveConfiguration(ctx.Request.Context(), c.configurationSvc)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"configuration": active})
}

// CreateInstructorReview stores an instructor's answer sheet
// @Summary Create an instructor review
// @Tags instructorReviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InstructorReviewRequest true "Answer sheet"
// @Success 200 {object} map[string]models.InstructorReview
// @Failure 400 {object} dto.ErrorResponse "Answer sheet undefined"
// @Router /instructorReviews [post]
func (c *RegistrationController) CreateInstructorReview(ctx *gin.Context) {
	c.instructorReviews.Create(ctx)
}

// ListInstructorReviews returns every instructor review
// @Summary List instructor reviews
// @Tags instructorReviews
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.InstructorReview
// @Router /instructorReviews [get]
func (c *RegistrationController) ListInstructorReviews(ctx *gin.Context) {
	c.instructorReviews.List(ctx)
}
