package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hupe1980/chainrag/logging"
	"github.com/hupe1980/chainrag/recommend"
)

// Options configures a Server instance.
type Options struct {
	// Logger provides structured logging. Defaults to NoOp logger if nil.
	Logger logging.Logger
}

// Server is the HTTP front of a Recommender. It owns routing and request
// plumbing only; all domain behavior lives behind the recommender.
type Server struct {
	recommender *recommend.Recommender
	logger      logging.Logger
	engine      *gin.Engine
}

// New creates a Server around a recommender and registers all routes.
func New(recommender *recommend.Recommender, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		recommender: recommender,
		logger:      opts.Logger,
		engine:      gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestID(), s.accessLog(), s.cors())
	s.routes()

	return s
}

// Handler returns the underlying http.Handler, mainly for tests and for
// embedding into an existing mux.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown error", "error", err)
		}
	}()

	s.logger.Info("serving", "addr", addr)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleRoot)

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/query", s.handleQuery)
		v1.POST("/chains", s.handleAddChain)
		v1.GET("/chains/search", s.handleSearchChains)
		v1.GET("/health", s.handleHealth)
		v1.POST("/initialize", s.handleInitialize)
	}
}

// requestID stamps every request with a uuid, echoed in the response header
// and attached to the access log.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", float64(time.Since(start))/float64(time.Millisecond),
			"request_id", c.GetString("request_id"),
		)
	}
}

// cors allows all origins, mirroring the open development posture of the
// API. Lock this down at the deployment edge when exposure matters.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
