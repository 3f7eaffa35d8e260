// Package server serves the portfolio: the page itself, the contact form,
// the choreography API and live stage sessions, and the admin area.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/motion"
	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Options are the collaborators a Server is built from.
type Options struct {
	Config *config.Config
	Page   *page.Page
	Store  *store.Store
	Relay  contact.Relay
	// RelayName is recorded with every logged message.
	RelayName string
}

// Server is the HTTP front of the portfolio.
type Server struct {
	cfg        *config.Config
	page       *page.Page
	store      *store.Store
	relay      contact.Relay
	relayName  string
	adminToken string

	engine  *gin.Engine
	handler http.Handler

	tracking sync.WaitGroup
	sessions atomic.Int64
	forms    sync.Map // hashed address -> *contact.Form

	stages     sync.WaitGroup
	stopStages context.CancelFunc
	stagesDone <-chan struct{}
	now      func() time.Time
}

// New builds the server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Page == nil || opts.Store == nil || opts.Relay == nil {
		return nil, errors.New("server: config, page, store and relay are required")
	}
	s := &Server{
		cfg:        opts.Config,
		page:       opts.Page,
		store:      opts.Store,
		relay:      opts.Relay,
		relayName:  opts.RelayName,
		adminToken: store.NewToken(),
		now:        time.Now,
	}
	stages, stop := context.WithCancel(context.Background())
	s.stagesDone, s.stopStages = stages.Done(), stop

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	assets, err := fs.Sub(assetFS, "assets")
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/assets", http.FS(assets))
	if dir := s.cfg.Content.StaticDir; dir != "" {
		r.Static("/static", dir)
	}
	r.Use(s.visitorTracking())

	s.routes(r)
	s.engine = r
	s.handler = cors.Handler(s.corsOptions())(r)

	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", s.adminToken)
	}
	return s, nil
}

func (s *Server) corsOptions() cors.Options {
	origins := s.cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/", s.handleIndex)
	r.GET("/cv", s.handleCV)
	r.GET("/qr.png", s.handleQR)
	r.POST("/contact", s.handleContact)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Load()})
	})

	api := r.Group("/api")
	api.GET("/sections", s.handleSections)
	api.GET("/layout", s.handleLayout)
	api.GET("/plan/:section", s.handlePlan)
	api.GET("/content", s.handleContent)

	r.GET("/ws/stage", s.handleStage)

	s.adminRoutes(r)
}

// Router returns the gin engine without the CORS wrapper.
func (s *Server) Router() *gin.Engine { return s.engine }

// Handler returns the complete HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// thresholds returns the configured mode breakpoints.
func (s *Server) thresholds() motion.Thresholds {
	return motion.Thresholds{Tablet: s.cfg.Motion.Tablet, Desktop: s.cfg.Motion.Desktop}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Shutdown does not track hijacked websocket connections.
	srv.RegisterOnShutdown(s.closeStages)
	errc := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.stages.Wait()
	s.tracking.Wait()
	log.Printf("server: stopped")
	return nil
}

// RunRetention deletes records older than the retention window once at
// start and then every interval until ctx is cancelled.
func (s *Server) RunRetention(ctx context.Context) error {
	every := s.cfg.Retention.Every
	if every <= 0 {
		every = 24 * time.Hour
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		s.cleanup(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Server) cleanup(ctx context.Context) {
	cutoff := store.RetentionCutoff(s.now(), s.cfg.Retention.Months)
	visitors, messages, err := s.store.Cleanup(ctx, cutoff)
	if err != nil {
		log.Printf("Error cleaning up old data: %v", err)
		return
	}
	if visitors > 0 || messages > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records and %d messages older than %d months",
			visitors, messages, s.cfg.Retention.Months)
	}
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
	"mul":  func(a, b int) int { return a * b },
}
