package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/app/repositories"
	"github.com/yigit/topicreg/internal/app/services"
	"github.com/yigit/topicreg/internal/pkg/validation"
)

var questionSetMessages = validation.Messages{"name": "name undefined"}

func questionSetResource[T any](svc *services.CRUDService[T], of func(*T) *models.QuestionSet) *Resource[T, dto.QuestionSetRequest] {
	return &Resource[T, dto.QuestionSetRequest]{
		Service:  svc,
		One:      "questionSet",
		Many:     "questionSets",
		Messages: questionSetMessages,
		Build: func(_ *gin.Context, req *dto.QuestionSetRequest) (*T, error) {
			rec := new(T)
			q := of(rec)
			q.Name = req.Name
			q.Questions = req.Questions
			return rec, nil
		},
		Apply: func(stored, candidate *T) {
			s, c := of(stored), of(candidate)
			s.Name = c.Name
			s.Questions = c.Questions
		},
		ListQuery: repositories.Query{OrderBy: []repositories.Order{{Column: "id"}}},
	}
}

// QuestionSetController serves review and registration question sets, which
// share one contract.
type QuestionSetController struct {
	review       *Resource[models.ReviewQuestionSet, dto.QuestionSetRequest]
	registration *Resource[models.RegistrationQuestionSet, dto.QuestionSetRequest]
}

// NewQuestionSetController creates a new QuestionSetController
func NewQuestionSetController(review *services.CRUDService[models.ReviewQuestionSet], registration *services.CRUDService[models.RegistrationQuestionSet]) *QuestionSetController {
	return &QuestionSetController{
		review: questionSetResource(review, func(r *models.ReviewQuestionSet) *models.QuestionSet {
			return &r.QuestionSet
		}),
		registration: questionSetResource(registration, func(r *models.RegistrationQuestionSet) *models.QuestionSet {
			return &r.QuestionSet
		}),
	}
}

// CreateReviewQuestionSet handles review question set creation
// @Summary Create a review question set
// @Tags reviewQuestionSets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.QuestionSetRequest true "Question set"
// @Success 200 {object} map[string]models.ReviewQuestionSet "Created set under the questionSet key"
// @Failure 400 {object} dto.ErrorResponse "Missing or duplicate name"
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Router /reviewQuestionSets [post]
func (c *QuestionSetController) CreateReviewQuestionSet(ctx *gin.Context) {
	c.review.Create(ctx)
}

// UpdateReviewQuestionSet replaces a review question set
// @Summary Update a review question set
// @Description A missing id answers 400, not 404.
// @Tags reviewQuestionSets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question set ID"
// @Param request body dto.QuestionSetRequest true "Question set"
// @Success 200 {object} map[string]models.ReviewQuestionSet
// @Failure 400 {object} dto.ErrorResponse "Invalid id, missing or duplicate name, or unknown set"
// @Router /reviewQuestionSets/{id} [put]
func (c *QuestionSetController) UpdateReviewQuestionSet(ctx *gin.Context) {
	c.review.Update(ctx)
}

// ListReviewQuestionSets returns every review question set
// @Summary List review question sets
// @Tags reviewQuestionSets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.ReviewQuestionSet
// @Router /reviewQuestionSets [get]
func (c *QuestionSetController) ListReviewQuestionSets(ctx *gin.Context) {
	c.review.List(ctx)
}

// GetReviewQuestionSet returns one review question set
// @Summary Get a review question set
// @Description Answers 200 with a null body when the set does not exist.
// @Tags reviewQuestionSets
// @Produce json
// @Param id path int true "Question set ID"
// @Success 200 {object} models.ReviewQuestionSet
// @Router /reviewQuestionSets/{id} [get]
func (c *QuestionSetController) GetReviewQuestionSet(ctx *gin.Context) {
	c.review.Fetch(ctx)
}

// DeleteReviewQuestionSet removes a review question set
// @Summary Delete a review question set
// @Description Deleting a set that does not exist also answers 204.
// @Tags reviewQuestionSets
// @Security BearerAuth
// @Param id path int true "Question set ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviewQuestionSets/{id} [delete]
func (c *QuestionSetController) DeleteReviewQuestionSet(ctx *gin.Context) {
	c.review.Delete(ctx)
}

// CreateRegistrationQuestionSet handles registration question set creation
// @Summary Create a registration question set
// @Tags registrationQuestionSets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.QuestionSetRequest true "Question set"
// @Success 200 {object} map[string]models.RegistrationQuestionSet
// @Failure 400 {object} dto.ErrorResponse "Missing or duplicate name"
// @Router /registrationQuestionSets [post]
func (c *QuestionSetController) CreateRegistrationQuestionSet(ctx *gin.Context) {
	c.registration.Create(ctx)
}

// UpdateRegistrationQuestionSet replaces a registration question set
// @Summary Update a registration question set
// @Tags registrationQuestionSets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question set ID"
// @Param request body dto.QuestionSetRequest true "Question set"
// @Success 200 {object} map[string]models.RegistrationQuestionSet
// @Failure 400 {object} dto.ErrorResponse
// @Router /registrationQuestionSets/{id} [put]
func (c *QuestionSetController) UpdateRegistrationQuestionSet(ctx *gin.Context) {
	c.registration.Update(ctx)
}

// ListRegistrationQuestionSets returns every registration question set
// @Summary List registration question sets
// @Tags registrationQuestionSets
// @Produce json
// @Success 200 {object} map[string][]models.RegistrationQuestionSet
// @Router /registrationQuestionSets [get]
func (c *QuestionSetController) ListRegistrationQuestionSets(ctx *gin.Context) {
	c.registration.List(ctx)
}

// GetRegistrationQuestionSet returns one registration question set, or null
// @Summary Get a registration question set
// @Tags registrationQuestionSets
// @Produce json
// @Param id path int true "Question set ID"
// @Success 200 {object} models.RegistrationQuestionSet
// @Router /registrationQuestionSets/{id} [get]
func (c *QuestionSetController) GetRegistrationQuestionSet(ctx *gin.Context) {
	c.registration.Fetch(ctx)
}

// DeleteRegistrationQuestionSet removes a registration question set
// @Summary Delete a registration question set
// @Tags registrationQuestionSets
// @Security BearerAuth
// @Param id path int true "Question set ID"
// @Success 204
// @Router /registrationQuestionSets/{id} [delete]
func (c *QuestionSetController) DeleteRegistrationQuestionSet(ctx *gin.Context) {
	c.registration.Delete(ctx)
}
