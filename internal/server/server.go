// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the question page and a JSON answer endpoint.
// Every request is an independent question cycle; no view state is
// shared between clients.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/studyweb/internal/render"
	"github.com/pdiddy/studyweb/internal/view"
	"github.com/pdiddy/studyweb/pkg/types"
)

//go:embed templates/index.html
var templateFS embed.FS

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 5 * time.Second
)

// Server wires the gin engine to an answer runner.
type Server struct {
	addr   string
	runner view.Runner
	log    logrus.FieldLogger
	engine *gin.Engine
}

// AskRequest is the POST /api/answer body.
type AskRequest struct {
	Query string `json:"query"`
}

// New builds a Server for cfg. The runner answers each question.
func New(cfg types.ServeConfig, r view.Runner, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}

	s := &Server{addr: addr, runner: r, log: log}

	e := gin.New()
	e.Use(gin.Recovery(), requestID(), accessLog(log))
	e.Use(cors.New(corsConfig(cfg.AllowOrigins)))
	e.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/index.html")))

	e.GET("/", s.page)
	e.GET("/api/answer", s.answerGet)
	e.POST("/api/answer", s.answerPost)
	e.GET("/healthz", s.health)

	s.engine = e
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// ask runs one question cycle and returns the resulting document.
func (s *Server) ask(ctx context.Context, q string) render.Document {
	v := view.New(s.runner, true, s.log)
	st, _ := v.Ask(ctx, q)
	return render.FromState(st)
}

func (s *Server) page(c *gin.Context) {
	q := c.Query("q")
	doc := render.Document{Query: q, Phase: view.Idle.String()}
	if q != "" {
		doc = s.ask(c.Request.Context(), q)
	}
	c.HTML(http.StatusOK, "index.html", doc)
}

func (s *Server) answerGet(c *gin.Context) {
	s.answer(c, c.Query("q"))
}

func (s *Server) answerPost(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	s.answer(c, req.Query)
}

func (s *Server) answer(c *gin.Context, q string) {
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	c.JSON(http.StatusOK, s.ask(c.Request.Context(), q))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", RequestIDHeader},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
