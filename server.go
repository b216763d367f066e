package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/codecravings/game-builder/assets"
	"github.com/codecravings/game-builder/config"
	"github.com/codecravings/game-builder/prefabs"
)

// server carries everything the transport layer needs: configuration,
// the asset cache and generator shared across games, the chat client
// for game improvement, and the single simulation session.
type server struct {
	cfg      *config.Config
	log      zerolog.Logger
	cache    *assets.Cache
	gen      assets.Generator
	chat     *openai.Client
	defaults prefabs.Defaults
	sess     *session
}

func newServer(cfg *config.Config, cache *assets.Cache, gen assets.Generator, defaults prefabs.Defaults, log zerolog.Logger) *server {
	chatCfg := openai.DefaultConfig(cfg.Chat.APIKey)
	if cfg.Chat.BaseURL != "" {
		chatCfg.BaseURL = cfg.Chat.BaseURL
	}

	return &server{
		cfg:      cfg,
		log:      log,
		cache:    cache,
		gen:      gen,
		chat:     openai.NewClientWithConfig(chatCfg),
		defaults: defaults,
		sess:     &session{},
	}
}

// router builds the gin engine with CORS, request logging, metrics and
// every route the frontend talks to.
func (s *server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(s.requestLogger())
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.cfg.Server.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	r.GET("/", s.handleRoot)
	r.GET("/ws/game", s.handleStream)

	api := r.Group("/api")
	{
		api.POST("/game/initialize", s.handleInitialize)
		api.POST("/game/input", s.handleInput)
		api.GET("/game/state", s.handleState)
		api.GET("/game/frame", s.handleFrame)
		api.GET("/game/frame/base64", s.handleFrameBase64)
		api.POST("/game/reset", s.handleReset)
		api.POST("/game/improve", s.handleImprove)

		api.POST("/game/save", s.handleSaveGame)
		api.GET("/game/load/:id", s.handleLoadGame)
		api.GET("/game/saves", s.handleListSaves)
		api.DELETE("/game/save/:id", s.handleDeleteSave)

		api.GET("/assets/cache/info", s.handleCacheInfo)
		api.DELETE("/assets/cache/clear", s.handleCacheClear)
	}

	p := ginprometheus.NewPrometheus("gin")
	p.Use(r)

	return r
}

func (s *server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Game Builder Backend", "status": "running"})
}

// requestLogger logs one line per request at debug level, errors at
// warn. Metrics carry the aggregate picture; logs stay quiet.
func (s *server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := s.log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = s.log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
