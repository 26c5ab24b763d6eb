package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/d-osc/game-rpg-world-sub001/internal/api/handlers"
	"github.com/d-osc/game-rpg-world-sub001/internal/api/middleware"
	"github.com/d-osc/game-rpg-world-sub001/internal/config"
	"github.com/d-osc/game-rpg-world-sub001/internal/repository"
	"github.com/d-osc/game-rpg-world-sub001/internal/service"
	"github.com/d-osc/game-rpg-world-sub001/internal/websocket"
	"github.com/d-osc/game-rpg-world-sub001/pkg/database"
	"github.com/d-osc/game-rpg-world-sub001/pkg/distributed"
	"github.com/d-osc/game-rpg-world-sub001/pkg/logger"
	"github.com/d-osc/game-rpg-world-sub001/pkg/ratelimit"
)

// SetupRouter wires repositories, services and handlers, and starts the
// matchmaking loop. The returned MatchmakingService must be stopped on
// shutdown. redisClient may be nil; the scheduler lock and distributed
// rate limiting then degrade to their in-process equivalents.
func SetupRouter(cfg *config.Config, db *database.DB, redisClient *redis.Client) (*gin.Engine, *service.MatchmakingService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Repositories
	playerRepo := repository.NewPlayerRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	// In-memory state, owned by this process
	queueStore := service.NewQueueStore()
	matchRegistry := service.NewMatchRegistry()

	// WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Redis-backed pieces (optional)
	var lockMgr *distributed.RedisLockManager
	var joinLimiter *ratelimit.RedisRateLimiter
	if redisClient != nil {
		lockMgr = distributed.NewRedisLockManager(redisClient)
		joinLimiter = ratelimit.NewRedisRateLimiter(redisClient, ratelimit.RedisRateLimiterConfig{
			KeyPrefix: "pvp:ratelimit:",
		})
	}

	// Services
	eloService := service.NewELOService(cfg.EloKFactor)
	playerService := service.NewPlayerService(playerRepo, cfg.LeaderboardMinMatches)
	matchService := service.NewMatchService(matchRepo, matchRegistry, eloService, wsHub)
	matchmakingService := service.NewMatchmakingService(
		queueStore,
		matchRegistry,
		playerRepo,
		matchRepo,
		wsHub,
		lockMgr,
		service.MatchmakingOptions{
			Interval:     cfg.MatchmakingInterval,
			QueueTimeout: cfg.QueueTimeout,
			EloRange:     cfg.EloRange,
		},
	)
	matchmakingService.Start()
	logger.Info("MatchmakingService started", "interval", cfg.MatchmakingInterval)

	// Handlers
	queueHandler := handlers.NewQueueHandler(matchmakingService)
	matchHandler := handlers.NewMatchHandler(matchService)
	playerHandler := handlers.NewPlayerHandler(playerService, matchService)
	leaderboardHandler := handlers.NewLeaderboardHandler(playerService)
	wsHandler := handlers.NewWebSocketHandler(wsHub)

	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/ws", middleware.Auth(cfg), wsHandler.HandleWebSocket)

		queue := v1.Group("/queue")
		{
			queue.POST("/join", middleware.Auth(cfg), middleware.QueueJoinRateLimit(joinLimiter), queueHandler.JoinQueue)
			queue.POST("/leave", middleware.Auth(cfg), queueHandler.LeaveQueue)
			queue.GET("/status", queueHandler.GetQueueStatus)
		}

		matches := v1.Group("/matches")
		{
			matches.GET("/active", middleware.Auth(cfg), matchHandler.GetActiveMatch)
			matches.POST("/:id/start", middleware.Auth(cfg), matchHandler.StartMatch)
			matches.POST("/:id/complete", middleware.Auth(cfg), matchHandler.CompleteMatch)
			matches.POST("/:id/cancel", middleware.Auth(cfg), matchHandler.CancelMatch)
		}

		players := v1.Group("/players")
		{
			players.GET("/:id/stats", playerHandler.GetStats)
			players.GET("/:id/rank", playerHandler.GetRank)
			players.GET("/:id/matches", playerHandler.GetMatchHistory)
		}

		v1.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(cfg), middleware.RequireAdmin())
		{
			admin.POST("/players/:id/reset", playerHandler.ResetPlayer)
		}
	}

	return router, matchmakingService
}
