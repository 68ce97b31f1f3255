package main

import (
	"log"
	"time"

	"finquest-service/internal/adaptive"
	"finquest-service/internal/aicontent"
	"finquest-service/internal/config"
	"finquest-service/internal/db"
	"finquest-service/internal/event"
	"finquest-service/internal/handlers"
	"finquest-service/internal/repository"
	"finquest-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	db.InitMongo(cfg.MongoDB.URI)
	defer db.Disconnect()
	database := db.Client.Database(cfg.MongoDB.Database)

	var publisher *event.EventPublisher
	if cfg.RabbitMQ.URI != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, domain events will not be published")
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories
	armRepo := repository.NewArmRepository(database)
	masteryRepo := repository.NewMasteryRepository(database)
	statsRepo := repository.NewStatsRepository(database)
	badgeRepo := repository.NewBadgeRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	responseRepo := repository.NewResponseRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	topicRepo := repository.NewTopicRepository(database)
	userRepo := repository.NewUserRepository(database)
	challengeRepo := repository.NewChallengeRepository(database)
	analyticsRepo := repository.NewAnalyticsRepository(database)

	// Services
	selector := adaptive.NewSelector(armRepo, nil)
	generator := aicontent.NewGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	masteryService := service.NewMasteryService(masteryRepo)
	quizService := service.NewQuizService(sessionRepo, questionRepo, responseRepo, topicRepo, statsRepo, masteryService)
	badgeService := service.NewBadgeService(badgeRepo, statsRepo, sessionRepo, responseRepo, masteryRepo, topicRepo)
	leaderboardService := service.NewLeaderboardService(statsRepo, userRepo, responseRepo)
	gamificationService := service.NewGamificationService(statsRepo, sessionRepo, masteryRepo, challengeRepo, responseRepo, userRepo, badgeService, leaderboardService)
	adaptiveService := service.NewAdaptiveService(selector, masteryService, generator, userRepo, statsRepo, sessionRepo, responseRepo, questionRepo, topicRepo)
	usersService := service.NewUsersService(userRepo, statsRepo, masteryRepo, sessionRepo)
	curriculumService := service.NewCurriculumService(topicRepo, questionRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	// Handlers
	quizHandler := handlers.NewQuizHandler(quizService)
	adaptiveHandler := handlers.NewAdaptiveHandler(adaptiveService)
	gamificationHandler := handlers.NewGamificationHandler(gamificationService, badgeService, leaderboardService)
	userHandler := handlers.NewUserHandler(usersService)
	curriculumHandler := handlers.NewCurriculumHandler(curriculumService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	publish := func(eventType string, payload interface{}) {
		if publisher != nil {
			publisher.Publish(eventType, payload)
		}
	}

	quiz := r.Group("/quiz", handlers.RequireUserID())
	{
		quiz.POST("/sessions", func(c *gin.Context) {
			quizHandler.StartQuiz(c)
			publish(event.QuizStarted, gin.H{"user_id": c.GetString("userID")})
		})
		quiz.POST("/sessions/:id/answers", func(c *gin.Context) {
			quizHandler.SubmitAnswer(c)
			publish(event.QuizAnswered, gin.H{"user_id": c.GetString("userID"), "session_id": c.Param("id")})
		})
		quiz.POST("/sessions/:id/complete", func(c *gin.Context) {
			quizHandler.CompleteQuiz(c)
			publish(event.QuizCompleted, gin.H{"user_id": c.GetString("userID"), "session_id": c.Param("id")})
		})
		quiz.GET("/history", quizHandler.GetHistory)
	}

	adaptiveGroup := r.Group("/adaptive", handlers.RequireUserID())
	{
		adaptiveGroup.GET("/difficulty/:topicId", func(c *gin.Context) {
			adaptiveHandler.GetNextDifficulty(c)
			publish(event.DifficultyAdjusted, gin.H{"user_id": c.GetString("userID"), "topic_id": c.Param("topicId")})
		})
		adaptiveGroup.GET("/quiz/:topicId", adaptiveHandler.GenerateQuiz)
		adaptiveGroup.POST("/model", adaptiveHandler.UpdateModel)
		adaptiveGroup.GET("/learning-path", adaptiveHandler.GetLearningPath)
		adaptiveGroup.POST("/feedback", adaptiveHandler.GetFeedback)
	}

	gamificationGroup := r.Group("/gamification", handlers.RequireUserID())
	{
		gamificationGroup.POST("/events", func(c *gin.Context) {
			gamificationHandler.ProcessXPEvent(c)
			publish(event.XPAwarded, gin.H{"user_id": c.GetString("userID")})
		})
		gamificationGroup.GET("/stats", gamificationHandler.GetGameStats)
		gamificationGroup.GET("/motivation", gamificationHandler.GetMotivation)
		gamificationGroup.POST("/challenges", gamificationHandler.CreateChallenges)
		gamificationGroup.GET("/challenges", gamificationHandler.GetChallenges)
		gamificationGroup.GET("/badges/progress", gamificationHandler.GetBadgeProgress)
		gamificationGroup.GET("/leaderboard", gamificationHandler.GetLeaderboard)
		gamificationGroup.GET("/leaderboard/weekly", gamificationHandler.GetWeeklyLeaderboard)
		gamificationGroup.GET("/leaderboard/top-performers", gamificationHandler.GetTopPerformers)
		gamificationGroup.GET("/rank", gamificationHandler.GetRank)
	}

	users := r.Group("/users", handlers.RequireUserID())
	{
		users.GET("/stats", userHandler.GetStats)
		users.GET("/profile", userHandler.GetProfile)
		users.GET("/progress", userHandler.GetProgress)
	}

	curriculum := r.Group("/curriculum")
	{
		curriculum.GET("/subjects", curriculumHandler.ListSubjects)
		curriculum.GET("/topics", curriculumHandler.ListTopics)
		curriculum.GET("/topics/:id", curriculumHandler.GetTopic)
		curriculum.GET("/topics/:id/questions/random", curriculumHandler.GetRandomQuestions)
		curriculum.POST("/questions", handlers.RequireUserID(), curriculumHandler.CreateQuestion)
	}

	analytics := r.Group("/analytics", handlers.RequireUserID())
	{
		analytics.POST("/events", analyticsHandler.TrackEvent)
		analytics.GET("/events", analyticsHandler.GetUserEvents)
		analytics.GET("/system", analyticsHandler.GetSystemAnalytics)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Printf("finquest-service listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
