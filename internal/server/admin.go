package server

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/store"
)

const adminCookie = "admin_token"

// adminAuth redirects requests without a valid admin cookie to the login
// page.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) adminRoutes(r *gin.Engine) {
	r.GET("/privacy", s.handlePrivacy)
	r.POST("/privacy/forget", s.handleForget)

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})
	r.POST("/admin/login", s.handleLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", s.store.HashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.now())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"system":   systemInfo(c.Request.Context()),
			"sessions": s.sessions.Load(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/api/system", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"system":   systemInfo(c.Request.Context()),
			"sessions": s.sessions.Load(),
		})
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.Visitors(c.Request.Context(), 200)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load visitors"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"visitors": visitors})
	})

	admin.GET("/messages", func(c *gin.Context) {
		messages, err := s.store.Messages(c.Request.Context(), 200)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	})

	admin.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := s.store.DeleteMessage(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		if err != nil {
			log.Printf("Error deleting message %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		log.Printf("Message %s deleted by admin from %s", id, s.store.HashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		s.cleanup(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup completed"})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", s.store.HashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	username, password := s.cfg.AdminCredentials()
	userOK := subtle.ConstantTimeCompare([]byte(c.PostForm("username")), []byte(username)) == 1
	passOK := password != "" && subtle.ConstantTimeCompare([]byte(c.PostForm("password")), []byte(password)) == 1
	if !userOK || !passOK {
		log.Printf("Failed admin login attempt from %s", s.store.HashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
		return
	}
	c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
	log.Printf("Admin login successful from %s", s.store.HashIP(c.ClientIP()))
	c.Redirect(http.StatusFound, "/admin/dashboard")
}
