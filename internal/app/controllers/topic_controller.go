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

var (
	topicDateMessages = validation.Messages{"dates": "dates undefined"}
	topicMessages     = validation.Messages{"content": "content undefined"}
)

// TopicController handles topic proposals and registration windows
type TopicController struct {
	topics     *services.TopicService
	topicDates *services.TopicDateService
	logger     zerolog.Logger
}

// NewTopicController creates a new TopicController
func NewTopicController(topics *services.TopicService, topicDates *services.TopicDateService, logger zerolog.Logger) *TopicController {
	return &TopicController{topics: topics, topicDates: topicDates, logger: logger}
}

// CreateTopicDate appends a registration window entry
// @Summary Create a topic date entry
// @Tags topicDates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TopicDateRequest true "Dates document"
// @Success 200 {object} map[string]models.TopicDate "Created entry under the topicDate key"
// @Failure 400 {object} dto.ErrorResponse "Dates undefined"
// @Failure 500 {object} dto.ErrorResponse
// @Router /topicDates [post]
func (c *TopicController) CreateTopicDate(ctx *gin.Context) {
	var req dto.TopicDateRequest
	if err := middleware.BindAndValidate(ctx, &req, topicDateMessages); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	rec, err := c.topicDates.Create(ctx.Request.Context(), req.Dates)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"topicDate": rec})
}

// GetTopicDate returns the latest registration window entry
// @Summary Get the latest topic date entry
// @Description The entry is wrapped in a list of at most one element.
// @Tags topicDates
// @Produce json
// @Success 200 {object} map[string][]models.TopicDate
// @Failure 500 {object} dto.ErrorResponse
// @Router /topicDates [get]
func (c *TopicController) GetTopicDate(ctx *gin.Context) {
	recs, err := c.topicDates.Latest(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"topicDate": recs})
}

// CreateTopic stores a new topic proposal
// @Summary Propose a topic
// @Description Stores an inactive topic and returns it with its secret edit link.
// @Tags topics
// @Accept json
// @Produce json
// @Param request body dto.TopicRequest true "Topic"
// @Success 200 {object} models.Topic
// @Failure 400 {object} dto.ErrorResponse "Content undefined"
// @Router /topics [post]
func (c *TopicController) CreateTopic(ctx *gin.Context) {
	var req dto.TopicRequest
	if err := middleware.BindAndValidate(ctx, &req, topicMessages); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	topic, err := c.topics.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("topicID", topic.ID).Msg("Topic proposed")
	ctx.JSON(http.StatusOK, topic)
}

// ListTopics returns every topic
// @Summary List topics
// @Tags topics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Topic
// @Router /topics [get]
func (c *TopicController) ListTopics(ctx *gin.Context) {
	topics, err := c.topics.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topics)
}

// ListActiveTopics returns the topics open for registration
// @Summary List active topics
// @Tags topics
// @Produce json
// @Success 200 {array} models.Topic
// @Router /topics/active [get]
func (c *TopicController) ListActiveTopics(ctx *gin.Context) {
	topics, err := c.topics.Active(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topics)
}

// GetTopic returns one topic
// @Summary Get a topic
// @Tags topics
// @Produce json
// @Param id path int true "Topic ID"
// @Success 200 {object} models.Topic
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /topics/{id} [get]
func (c *TopicController) GetTopic(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	topic, err := c.topics.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}

// GetTopicBySecret returns the topic owning a secret edit link
// @Summary Get a topic by its secret link
// @Tags topics
// @Produce json
// @Param secret path string true "Secret link"
// @Success 200 {object} models.Topic
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /topics/secret/{secret} [get]
func (c *TopicController) GetTopicBySecret(ctx *gin.Context) {
	topic, err := c.topics.GetBySecret(ctx.Request.Context(), ctx.Param("secret"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}

// UpdateTopic applies an admin edit
// @Summary Update a topic
// @Tags topics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Param request body dto.TopicUpdateRequest true "Fields to change"
// @Success 200 {object} models.Topic
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /topics/{id} [put]
func (c *TopicController) UpdateTopic(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.TopicUpdateRequest
	if err := middleware.BindAndValidate(ctx, &req, nil); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	topic, err := c.topics.Update(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}

// UpdateTopicBySecret lets the proposer edit their topic
// @Summary Update a topic by its secret link
// @Tags topics
// @Accept json
// @Produce json
// @Param secret path string true "Secret link"
// @Param request body dto.TopicRequest true "Topic"
// @Success 200 {object} models.Topic
// @Failure 400 {object} dto.ErrorResponse "Content undefined"
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /topics/secret/{secret} [put]
func (c *TopicController) UpdateTopicBySecret(ctx *gin.Context) {
	var req dto.TopicRequest
	if err := middleware.BindAndValidate(ctx, &req, topicMessages); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	topic, err := c.topics.UpdateBySecret(ctx.Request.Context(), ctx.Param("secret"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}
