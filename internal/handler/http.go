package handler

import (
	"survival-server/internal/middleware"
	"survival-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GameHandler exposes the session progression API over HTTP.
type GameHandler struct {
	sessionService service.SessionService
	gameService    service.GameService
	reportService  service.ReportService
	logger         *zap.Logger
	jwtSecret      string
}

func NewGameHandler(
	sessionService service.SessionService,
	gameService service.GameService,
	reportService service.ReportService,
	jwtSecret string,
	logger *zap.Logger,
) *GameHandler {
	return &GameHandler{
		sessionService: sessionService,
		gameService:    gameService,
		reportService:  reportService,
		logger:         logger.Named("GameHandler"),
		jwtSecret:      jwtSecret,
	}
}

// RegisterRoutes wires the API routes. All routes require a user token.
func (h *GameHandler) RegisterRoutes(router *gin.Engine) {
	authMiddleware := middleware.Auth(h.jwtSecret, h.logger)

	sessionsGroup := router.Group("/sessions", authMiddleware)
	{
		sessionsGroup.POST("/intro", h.playIntro)
		sessionsGroup.POST("/active/next", h.nextAct)
		sessionsGroup.GET("/:sessionId/report", h.getSessionReport)
		sessionsGroup.GET("/ranking", h.getRanking)
		sessionsGroup.GET("/collection", h.getEndingCollection)
		sessionsGroup.GET("/history", h.getHistory)
	}

	gameGroup := router.Group("/game", authMiddleware)
	{
		gameGroup.GET("/session", h.getSession)
		gameGroup.POST("/session", h.createOrResetSession)
		gameGroup.GET("/character-groups", h.listCharacterGroups)
		gameGroup.POST("/session/character-set", h.selectCharacterSet)
		gameGroup.GET("/setup-info", h.getSetupInfo)
		gameGroup.POST("/session/inventory", h.confirmInventory)
	}
}
