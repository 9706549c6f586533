package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/topicreg/internal/app/controllers"
	"github.com/yigit/topicreg/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter.
type Controllers struct {
	Auth          *controllers.AuthController
	Groups        *controllers.GroupController
	QuestionSets  *controllers.QuestionSetController
	Topics        *controllers.TopicController
	Registrations *controllers.RegistrationController
	Users         *controllers.UserController
	Health        *controllers.HealthController
}

// SetupRouter configures all application routes. Every /api route waits for
// the store through ready before it runs.
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware, ready gin.HandlerFunc) {
	router.GET("/ping", c.Health.Ping)
	router.GET("/health", c.Health.Health)

	api := router.Group("/api")
	api.Use(ready)

	login := authMiddleware.CheckLogin()
	admin := authMiddleware.CheckAdmin()

	api.POST("/login", c.Auth.Login)

	tokenCheck := api.Group("/tokenCheck")
	{
		tokenCheck.GET("/login", login, c.Auth.CheckLogin)
		tokenCheck.GET("/admin", admin, c.Auth.CheckAdmin)
	}

	groups := api.Group("/groups")
	{
		groups.POST("", login, c.Groups.CreateGroup)
		groups.GET("", admin, c.Groups.ListGroups)
		groups.DELETE("/:id", admin, c.Groups.DeleteGroup)
	}

	memberships := api.Group("/memberships")
	{
		memberships.POST("", admin, c.Groups.CreateMembership)
		memberships.GET("", admin, c.Groups.ListMemberships)
		memberships.GET("/group/:id", login, c.Groups.ListGroupMemberships)
		memberships.DELETE("/:id", admin, c.Groups.DeleteMembership)
	}

	topics := api.Group("/topics")
	{
		topics.POST("", c.Topics.CreateTopic)
		topics.GET("", admin, c.Topics.ListTopics)
		topics.GET("/active", c.Topics.ListActiveTopics)
		topics.GET("/secret/:secret", c.Topics.GetTopicBySecret)
		topics.PUT("/secret/:secret", c.Topics.UpdateTopicBySecret)
		topics.GET("/:id", c.Topics.GetTopic)
		topics.PUT("/:id", admin, c.Topics.UpdateTopic)
	}

	topicDates := api.Group("/topicDates")
	{
		topicDates.POST("", admin, c.Topics.CreateTopicDate)
		topicDates.GET("", c.Topics.GetTopicDate)
	}

	registrations := api.Group("/registrations")
	{
		registrations.POST("", login, c.Registrations.CreateRegistration)
		registrations.GET("", admin, c.Registrations.ListRegistrations)
		registrations.GET("/current", login, c.Registrations.CurrentRegistration)
	}

	configurations := api.Group("/configurations")
	{
		configurations.POST("", admin, c.Registrations.CreateConfiguration)
		configurations.GET("", admin, c.Registrations.ListConfigurations)
		configurations.GET("/active", c.Registrations.ActiveConfiguration)
		configurations.GET("/:id", admin, c.Registrations.GetConfiguration)
		configurations.PUT("/:id", admin, c.Registrations.UpdateConfiguration)
	}

	instructorReviews := api.Group("/instructorReviews", admin)
	{
		instructorReviews.POST("", c.Registrations.CreateInstructorReview)
		instructorReviews.GET("", c.Registrations.ListInstructorReviews)
	}

	reviewQuestionSets := api.Group("/reviewQuestionSets")
	{
		reviewQuestionSets.POST("", admin, c.QuestionSets.CreateReviewQuestionSet)
		reviewQuestionSets.GET("", admin, c.QuestionSets.ListReviewQuestionSets)
		reviewQuestionSets.GET("/:id", c.QuestionSets.GetReviewQuestionSet)
		reviewQuestionSets.PUT("/:id", admin, c.QuestionSets.UpdateReviewQuestionSet)
		reviewQuestionSets.DELETE("/:id", admin, c.QuestionSets.DeleteReviewQuestionSet)
	}

	registrationQuestionSets := api.Group("/registrationQuestionSets")
	{
		registrationQuestionSets.POST("", admin, c.QuestionSets.CreateRegistrationQuestionSet)
		registrationQuestionSets.GET("", c.QuestionSets.ListRegistrationQuestionSets)
		registrationQuestionSets.GET("/:id", c.QuestionSets.GetRegistrationQuestionSet)
		registrationQuestionSets.PUT("/:id", admin, c.QuestionSets.UpdateRegistrationQuestionSet)
		registrationQuestionSets.DELETE("/:id", admin, c.QuestionSets.DeleteRegistrationQuestionSet)
	}

	users := api.Group("/users", admin)
	{
		users.GET("", c.Users.ListUsers)
		users.PUT("/:studentNumber", c.Users.SetAdmin)
	}
}
