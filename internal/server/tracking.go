package server

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var untrackedPrefixes = []string{
	"/static/",
	"/assets/",
	"/admin/",
	"/api/",
	"/ws/",
	"/favicon",
	"/privacy",
	"/healthz",
}

// visitorTracking records page views with hashed addresses. Requests with
// Do Not Track set are never recorded.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, agent, at := c.ClientIP(), c.GetHeader("User-Agent"), s.now()
		s.tracking.Add(1)
		go func() {
			defer s.tracking.Done()
			if err := s.store.RecordVisit(context.Background(), ip, agent, path, at); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}
