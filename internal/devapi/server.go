package devapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/mailforward/pkg/middleware"
)

// Server は開発用管理APIのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// store はデータの保存先。
	store *Store
	// cfg はサーバー設定。
	cfg Config
	// limiter はログイン試行の回数制限。
	limiter *middleware.RateLimiter
}

// NewServer は設定に従ってDBを開き、Serverを生成する。
// cfg.Seedが真でDBが空の場合はサンプルデータを投入する。
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	store, err := OpenStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if cfg.Seed {
		if err := Seed(ctx, store); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("サンプルデータの投入に失敗: %w", err)
		}
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	return newServer(router, store, cfg), nil
}

// newServer はルーターとStoreからServerを組み立てる。
func newServer(router *gin.Engine, store *Store, cfg Config) *Server {
	s := &Server{
		router:  router,
		store:   store,
		cfg:     cfg,
		limiter: middleware.NewRateLimiter(cfg.LoginLimit, cfg.LoginWindow),
	}
	s.setupRoutes()
	return s
}

// Handler はテストや埋め込み用にHTTPハンドラーを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.cfg.Port))
}

// Close はDB接続を閉じる。
func (s *Server) Close() error {
	return s.store.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// ログイン（認証不要、クライアントIPごとに回数制限）
	s.router.POST("/api/login", s.limiter.Middleware(), s.handleLogin())

	api := s.router.Group("/api")
	api.Use(middleware.JWTAuth(s.cfg.JWTSecret))
	{
		api.GET("/domains", s.handleListDomains())
		api.POST("/domains", s.handleCreateDomain())
		api.DELETE("/domains/:id", s.handleDeleteDomain())

		api.GET("/accounts", s.handleListAccounts())
		api.POST("/accounts", s.handleCreateAccount())
		api.PUT("/accounts/:id", s.handleUpdateAccount())
		api.DELETE("/accounts/:id", s.handleDeleteAccount())

		api.GET("/logs", s.handleListLogs())
	}

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "devapi"})
	})
}

// internalError は500を返し、原因をログに残す。
func internalError(c *gin.Context, err error) {
	middleware.AbortInternal(c, "[DevAPI]", err)
}
