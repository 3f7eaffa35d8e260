package server

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/store"
)

type projectView struct {
	content.Project
	Body template.HTML
}

type indexData struct {
	*content.Content
	AboutHTML template.HTML
	Cards     []projectView
	Nav       []page.NavItem
	Particles []int
	FrameRate int

	ContactForm contactView
}

// contactView renders the contact form. Status is the contact.Status name.
type contactView struct {
	Fields contact.Message
	Status string
	Notice string
}

func (s *Server) handleIndex(c *gin.Context) {
	ct := s.page.Content()
	about, err := content.Markdown(ct.About)
	if err != nil {
		log.Printf("Error rendering about: %v", err)
		about = template.HTML(template.HTMLEscapeString(ct.About))
	}

	data := indexData{
		Content:   ct,
		AboutHTML: about,
		Nav:       page.NavItems(),
		Particles: make([]int, page.Particles),
		FrameRate: s.cfg.Motion.FrameRate,

		ContactForm: contactView{Status: contact.Idle.String()},
	}
	for i := range data.Particles {
		data.Particles[i] = i
	}
	for _, p := range ct.FeaturedProjects() {
		body, err := content.Markdown(p.Description)
		if err != nil {
			body = template.HTML(template.HTMLEscapeString(p.Description))
		}
		data.Cards = append(data.Cards, projectView{Project: p, Body: body})
	}
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) handlePrivacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title":  "Privacy Policy",
		"months": s.cfg.Retention.Months,
	})
}

// handleForget deletes the page views recorded for the caller's address.
func (s *Server) handleForget(c *gin.Context) {
	n, err := s.store.ForgetVisitor(c.Request.Context(), c.ClientIP())
	if err != nil {
		log.Printf("Error forgetting visitor: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete visitor data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visitor data deleted", "deleted": n})
}

// handleCV serves the configured CV below the static directory as a
// download.
func (s *Server) handleCV(c *gin.Context) {
	ref := s.page.Content().CV
	if ref == "" || s.cfg.Content.StaticDir == "" {
		c.String(http.StatusNotFound, "CV not available")
		return
	}
	rel := strings.TrimPrefix(path.Clean("/"+ref), "/static/")
	file := filepath.Join(s.cfg.Content.StaticDir, filepath.FromSlash(rel))
	if _, err := os.Stat(file); err != nil {
		log.Printf("CV %s not found: %v", file, err)
		c.String(http.StatusNotFound, "CV not available")
		return
	}
	c.FileAttachment(file, path.Base(rel))
}

// handleQR renders a QR code pointing at the site.
func (s *Server) handleQR(c *gin.Context) {
	png, err := qrcode.Encode(s.cfg.Site.URL, qrcode.Medium, 256)
	if err != nil {
		log.Printf("Error encoding QR code: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

// handleContact relays the contact form and answers with the re-rendered
// form: emptied on success, keeping the visitor's input on failure. One
// submission per visitor address may be in flight.
func (s *Server) handleContact(c *gin.Context) {
	var m contact.Message
	if err := c.ShouldBind(&m); err != nil {
		log.Printf("Error binding contact form: %v", err)
	}
	if m.Name == "" {
		m.Name = c.PostForm("fullName")
	}

	key := s.store.HashIP(c.ClientIP())
	v, _ := s.forms.LoadOrStore(key, contact.NewForm(s.relay))
	form := v.(*contact.Form)

	err := form.Send(c.Request.Context(), m)
	if errors.Is(err, contact.ErrAlreadySubmitting) {
		c.HTML(http.StatusConflict, "contact-form.html", contactView{
			Fields: m,
			Status: contact.Submitting.String(),
			Notice: "Your message is already being sent.",
		})
		return
	}
	if form.Status() != contact.Submitting {
		s.forms.CompareAndDelete(key, form)
	}
	s.logMessage(c.Request.Context(), m, err)

	// htmx only swaps 2xx responses, so failures are 200 with an event.
	status, event := contact.Success, "contact-sent"
	if err != nil {
		status, event = contact.Failed, "contact-failed"
	}
	view := contactView{Status: status.String(), Notice: status.Notice()}
	if err != nil {
		view.Fields = m
	}
	c.Header("HX-Trigger", event)
	c.HTML(http.StatusOK, "contact-form.html", view)
}

func (s *Server) logMessage(ctx context.Context, m contact.Message, sendErr error) {
	if errors.Is(sendErr, contact.ErrInvalidMessage) {
		return
	}
	rec := store.Message{
		Name:      m.Name,
		Email:     m.Email,
		Body:      m.Message,
		Relay:     s.relayName,
		Delivered: sendErr == nil,
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
		log.Printf("Error sending contact message: %v", sendErr)
	}
	if _, err := s.store.SaveMessage(ctx, rec); err != nil {
		log.Printf("Error logging contact message: %v", err)
	}
}
