package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/motion"
	"github.com/Zachkp/portfolio/internal/page"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
)

type sectionInfo struct {
	ID       string   `json:"id"`
	Elements []string `json:"elements"`
	Group    string   `json:"group,omitempty"`
	Count    int      `json:"count,omitempty"`
}

func (s *Server) handleSections(c *gin.Context) {
	var out []sectionInfo
	for _, sec := range s.page.Sections() {
		out = append(out, sectionInfo{ID: sec.ID, Elements: sec.Elements, Group: sec.Group, Count: sec.Count})
	}
	c.JSON(http.StatusOK, gin.H{"sections": out, "nav": page.NavItems()})
}

// viewport reads width and height query parameters, falling back to a
// desktop window.
func viewport(c *gin.Context) (width, height float64, err error) {
	width, height = defaultWidth, defaultHeight
	if v := c.Query("width"); v != "" {
		if width, err = strconv.ParseFloat(v, 64); err != nil || width <= 0 {
			return 0, 0, errors.New("width must be a positive number")
		}
	}
	if v := c.Query("height"); v != "" {
		if height, err = strconv.ParseFloat(v, 64); err != nil || height <= 0 {
			return 0, 0, errors.New("height must be a positive number")
		}
	}
	return width, height, nil
}

func (s *Server) handleLayout(c *gin.Context) {
	width, height, err := viewport(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := s.thresholds().ModeFor(width)
	c.JSON(http.StatusOK, s.page.Layout(mode, height))
}

// handlePlan reports a section's resolved entrance for a viewport width.
func (s *Server) handlePlan(c *gin.Context) {
	width, _, err := viewport(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := s.thresholds().ModeFor(width)
	if m := c.Query("mode"); m != "" {
		if mode, err = motion.ParseMode(m); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	section := c.Param("section")
	plan, err := s.page.Plan(section, mode)
	if errors.Is(err, page.ErrUnknownSection) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sec, _ := s.page.Section(section)
	c.JSON(http.StatusOK, gin.H{
		"section": section,
		"mode":    mode.String(),
		"variant": sec.Variant(mode),
		"steps":   plan,
	})
}

func (s *Server) handleContent(c *gin.Context) {
	c.JSON(http.StatusOK, s.page.Content())
}
