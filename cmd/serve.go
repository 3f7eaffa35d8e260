package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/server"
	"github.com/Zachkp/portfolio/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		gin.SetMode(cfg.Server.Mode)

		p, err := loadPage(cfg)
		if err != nil {
			return err
		}

		db, err := store.Open(cfg.DB.Path, cfg.DB.Salt)
		if err != nil {
			return err
		}
		defer db.Close()

		relay, relayName := newRelay(cfg)
		srv, err := server.New(server.Options{
			Config:    cfg,
			Page:      p,
			Store:     db,
			Relay:     relay,
			RelayName: relayName,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf("portfolio: database %s, relay %s", db.Path(), relayName)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(ctx) })
		g.Go(func() error { return srv.RunRetention(ctx) })
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// loadPage reads the content, resolves its images against the static
// directory and builds the page.
func loadPage(cfg *config.Config) (*page.Page, error) {
	c, err := content.Load(cfg.Content.Path)
	if err != nil {
		return nil, err
	}
	images, err := content.IndexImages(cfg.Content.StaticDir, "/static")
	if err != nil {
		return nil, err
	}
	images.Apply(c)
	log.Printf("content: %d projects, %d images indexed", len(c.Projects), images.Len())
	return page.New(c), nil
}

// newRelay builds the configured mail relay.
func newRelay(cfg *config.Config) (contact.Relay, string) {
	switch cfg.Relay.Kind {
	case config.RelayForm:
		return contact.NewFormRelay(cfg.Relay.Endpoint, cfg.Relay.Timeout), config.RelayForm
	default:
		if cfg.SMTP.User == "" || cfg.SMTP.Pass == "" {
			log.Println("contact: WARNING: SMTP credentials not set; messages will fail")
		}
		return &contact.SMTPRelay{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			To:   cfg.SMTP.To,
		}, config.RelaySMTP
	}
}
