package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"safenest/internal/ai"
	appsvc "safenest/internal/app"
	"safenest/internal/bootstrap"
	"safenest/internal/cache"
	rabbitmqClient "safenest/internal/platform/rabbitmq"
	"safenest/internal/rag"
	"safenest/internal/repository"
	"safenest/internal/transport/http/handler"
	"safenest/internal/transport/http/response"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	cfg := app.Config
	llmClient := ai.NewClient(ai.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})

	ragService := appsvc.NewRAGService(
		llmClient,
		rag.ChunkParams{ChunkSize: cfg.RAG.ChunkSize, Overlap: cfg.RAG.ChunkOverlap},
		rag.RetrievalParams{
			TopK:         cfg.RAG.TopK,
			PhraseWeight: cfg.RAG.PhraseWeight,
			TokenWeight:  cfg.RAG.TokenWeight,
			MinTokenLen:  cfg.RAG.MinTokenLength,
		},
	)

	var historyCache appsvc.HistoryCache
	if app.Redis != nil {
		historyCache = cache.NewClinicHistoryCache(app.Redis, time.Duration(cfg.Clinic.HistoryTTLSeconds)*time.Second)
	}
	var publisher appsvc.AsyncMessagePublisher
	if app.MQConn != nil {
		publisher = rabbitmqClient.NewClinicMessagePublisher(app.MQConn, cfg.Clinic.PersistQueue)
	}
	clinicService := appsvc.NewClinicService(
		llmClient,
		historyCache,
		publisher,
		cfg.Clinic.DefaultLocation,
		cfg.Clinic.MaxHistory,
	)

	var commentStore appsvc.CommentStore
	if app.MySQL != nil {
		commentStore = repository.NewCommentRepository(app.MySQL)
	} else {
		commentStore = repository.NewMemoryCommentStore()
	}
	communityService := appsvc.NewCommunityService(commentStore)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/health", healthHandler.Check)
	router.GET("/healthz", healthHandler.Readiness)

	ragHandler := handler.NewRAGHandler(ragService)
	docHandler := handler.NewDocumentHandler(ragService)
	clinicHandler := handler.NewClinicHandler(clinicService)
	communityHandler := handler.NewCommunityHandler(communityService)

	api := router.Group("/api")
	api.POST("/rag", ragHandler.Ask)
	api.POST("/documents", docHandler.Upload)

	api.POST("/clinic-chat", clinicHandler.Chat)
	api.GET("/clinic-chat/history", clinicHandler.History)
	api.POST("/clinic-chat/reset", clinicHandler.Reset)

	community := api.Group("/community")
	community.GET("/comments", communityHandler.ListComments)
	community.POST("/comments", communityHandler.CreateComment)
	community.DELETE("/comments", communityHandler.ClearComments)
	community.DELETE("/comments/:id", communityHandler.DeleteComment)

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, 404, "not found")
	})

	return router
}
