package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillcheck/handlers"
	"skillcheck/middleware"
)

func SetupRoutes(
	router *gin.Engine,
	auth *middleware.AuthMiddleware,
	quizHandler *handlers.QuizHandler,
	questionHandler *handlers.QuestionHandler,
	reportHandler *handlers.ReportHandler,
	activityHandler *handlers.ActivityHandler,
) {
	// API routes, all authenticated
	api := router.Group("/api")
	api.Use(auth.RequireAuth())
	{
		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("/start/:skillId", quizHandler.StartQuiz)
			quizzes.POST("/submit", quizHandler.SubmitQuiz)
			quizzes.GET("/history", quizHandler.GetHistory)
			quizzes.GET("/attempt/:attemptId", quizHandler.GetAttempt)
		}

		questions := api.Group("/questions")
		{
			questions.GET("/skills", questionHandler.ListSkills)

			admin := questions.Group("", auth.RequireAdmin())
			admin.GET("", questionHandler.ListQuestions)
			admin.POST("", questionHandler.CreateQuestion)
			admin.PUT("/:id", questionHandler.UpdateQuestion)
			admin.DELETE("/:id", questionHandler.DeleteQuestion)
			admin.POST("/skills", questionHandler.CreateSkill)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/user-performance", reportHandler.UserPerformance)

			admin := reports.Group("", auth.RequireAdmin())
			admin.GET("/admin-stats", reportHandler.AdminStats)
			admin.GET("/skill-gaps", reportHandler.SkillGaps)
			admin.GET("/users", reportHandler.UserStats)
			admin.GET("/time-analysis", reportHandler.TimeAnalysis)
		}
	}

	// Live feed of recorded attempts for administrators
	router.GET("/ws/activity", auth.RequireAuth(), auth.RequireAdmin(), activityHandler.Connect)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
