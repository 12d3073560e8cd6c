// Package server exposes a loaded model over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gtkrshnaaa/cevia/api"
	"github.com/gtkrshnaaa/cevia/envconfig"
	"github.com/gtkrshnaaa/cevia/lm"
	"github.com/gtkrshnaaa/cevia/version"
)

const (
	defaultTopK        = 5
	maxTopK            = 64
	defaultMaxTokens   = 20
	defaultTemperature = 0.7
)

// Server serves inference requests against one read-only model. Training
// and serving never overlap: the model is loaded before Serve starts.
type Server struct {
	model *lm.Model
}

func NewServer(model *lm.Model) *Server {
	return &Server{model: model}
}

// GenerateRoutes builds the gin handler tree.
func (s *Server) GenerateRoutes() http.Handler {
	if !envconfig.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	config := cors.DefaultConfig()
	config.AllowWildcard = true
	config.AllowOrigins = envconfig.AllowOrigins
	if len(config.AllowOrigins) == 0 {
		config.AllowAllOrigins = true
	}

	r := gin.New()
	r.Use(gin.Recovery(), cors.New(config), requestLogger())

	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Cevia is running") })

	r.POST("/api/predict", s.PredictHandler)
	r.POST("/api/generate", s.GenerateHandler)
	r.GET("/api/show", s.ShowHandler)
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.VersionResponse{Version: version.Version})
	})

	return r
}

// requestLogger tags each request with an id and logs it at debug level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Header("X-Request-Id", id)

		start := time.Now()
		c.Next()

		slog.Debug("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) PredictHandler(c *gin.Context) {
	var req api.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if req.Context == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "context is required"})
		return
	}

	topK := req.TopK
	if topK < 1 {
		topK = defaultTopK
	}
	topK = min(topK, maxTopK)

	resp := api.PredictResponse{Context: req.Context}
	for _, p := range s.model.Predict(req.Context, topK) {
		if p.Score <= 0 {
			break
		}
		resp.Predictions = append(resp.Predictions, api.TokenPrediction{Token: p.Token, Score: p.Score})
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GenerateHandler(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if req.Prompt == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "prompt is required"})
		return
	}

	maxTokens := req.MaxTokens
	if maxTokens < 1 {
		maxTokens = defaultMaxTokens
	}

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	if req.Seed != nil {
		s.model.SetSeed(*req.Seed)
	}

	response := s.model.Generate(req.Prompt, maxTokens, temperature)

	c.JSON(http.StatusOK, api.GenerateResponse{Response: response, Done: true})
}

func (s *Server) ShowHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.ShowResponse{
		VocabSize:   s.model.VocabSize(),
		TotalTokens: s.model.TotalTokens(),
		MaxN:        s.model.MaxN(),
	})
}

// Serve runs the HTTP server on ln until ctx is cancelled.
func Serve(ctx context.Context, ln net.Listener, model *lm.Model) error {
	srv := &http.Server{Handler: NewServer(model).GenerateRoutes()}

	slog.Info("listening", "addr", ln.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
