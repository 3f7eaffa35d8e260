package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/motion"
	"github.com/Zachkp/portfolio/internal/page"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeWait = 5 * time.Second

// clientMessage is what the browser sends over the stage socket.
type clientMessage struct {
	Type    string  `json:"type"` // resize, scroll, mount, unmount, navigate, hire, restore, skip, menu
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Section string  `json:"section,omitempty"`
}

// serverMessage is what the stage socket sends back.
type serverMessage struct {
	Type    string                  `json:"type"` // hello, patch, state, nav, scroll, layout, mode, loading, error
	Session string                  `json:"session,omitempty"`
	Mode    string                  `json:"mode,omitempty"`
	Layout  *page.Layout            `json:"layout,omitempty"`
	Patch   map[string]motion.Props `json:"patch,omitempty"`
	Section string                  `json:"section,omitempty"`
	State   string                  `json:"state,omitempty"`
	Nav     *page.NavState          `json:"nav,omitempty"`
	Y       *float64                `json:"y,omitempty"`
	Percent *int                    `json:"percent,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

// session is one live page: its stage, viewport and director. It is owned
// by the goroutine that runs the socket loop.
type session struct {
	id       string
	page     *page.Page
	stage    *motion.Stage
	vp       *motion.Viewport
	director *motion.Director
	layout   page.Layout
	nav      page.NavState
	loader   *page.LoadingScreen
	percent  int
	restore  *float64
	out      []serverMessage
	unsub    []func()
}

func newSession(p *page.Page, mc config.MotionConfig, width, height float64) *session {
	s := &session{
		id:    uuid.NewString(),
		page:  p,
		stage: motion.NewStage(),
		vp:    motion.NewViewport(width, height),
	}
	p.Register(s.stage)

	opts := motion.DirectorOptions{
		Thresholds: motion.Thresholds{Tablet: mc.Tablet, Desktop: mc.Desktop},
		Debounce:   mc.Debounce,
	}
	if mc.SmoothLerp > 0 {
		opts.Smooth = &motion.SmoothOptions{Lerp: mc.SmoothLerp, Multiplier: mc.SmoothMultiplier}
	}
	// Runs before the director's own resize handling.
	s.unsub = append(s.unsub, s.vp.OnResize(func(motion.Size) { s.relayout() }))
	s.director = motion.NewDirector(s.stage, s.vp, opts)
	s.relayout()
	for _, ch := range p.Choreographies(func() page.Layout { return s.layout }) {
		s.director.Register(ch)
	}

	s.director.OnState = func(section string, st motion.State) {
		s.send(serverMessage{Type: "state", Section: section, State: st.String()})
	}
	s.unsub = append(s.unsub,
		s.director.Modes().Subscribe(func(m motion.Mode) {
			s.relayout()
			s.send(serverMessage{Type: "mode", Mode: m.String(), Layout: s.currentLayout()})
		}),
		s.director.Scroll().OnScroll(func(y float64) {
			if s.nav.Update(s.layout, y) {
				s.sendNav()
			}
		}),
	)

	s.loader = page.NewLoadingScreen(s.loaded)
	s.loader.Start(s.stage)

	s.send(serverMessage{
		Type:    "hello",
		Session: s.id,
		Mode:    s.director.Mode().String(),
		Layout:  s.currentLayout(),
		Nav:     &page.NavState{},
	})
	return s
}

func (s *session) relayout() {
	s.layout = s.page.Layout(s.director.Mode(), s.vp.Size().Height)
	s.vp.SetContentHeight(s.layout.Height)
}

func (s *session) currentLayout() *page.Layout {
	l := s.layout
	return &l
}

func (s *session) send(m serverMessage) { s.out = append(s.out, m) }

func (s *session) sendNav() {
	nav := s.nav
	s.send(serverMessage{Type: "nav", Nav: &nav})
}

func (s *session) sendError(err error) {
	s.send(serverMessage{Type: "error", Error: err.Error()})
}

// loaded reveals the main content and applies a pending restore.
func (s *session) loaded() {
	if _, err := s.director.Mount(page.Main); err != nil {
		log.Printf("stage: session %s: %v", s.id, err)
	}
	if s.restore != nil {
		y := *s.restore
		s.restore = nil
		s.jump(y)
	}
}

// jump moves the page to y without easing.
func (s *session) jump(y float64) {
	s.vp.ScrollTo(y)
	if smooth := s.director.Smooth(); smooth != nil {
		smooth.Jump(s.vp.ScrollY())
	}
	y = s.vp.ScrollY()
	s.send(serverMessage{Type: "scroll", Y: &y})
}

// scrollTo moves the native position and lets the smooth scroller ease
// toward it.
func (s *session) scrollTo(y float64) {
	s.vp.ScrollTo(y)
	y = s.vp.ScrollY()
	s.send(serverMessage{Type: "scroll", Y: &y})
}

var errUnknownMessage = errors.New("unknown message type")

func (s *session) handle(m clientMessage) {
	switch m.Type {
	case "resize":
		if m.Width <= 0 || m.Height <= 0 {
			s.sendError(errors.New("resize needs a positive width and height"))
			return
		}
		s.vp.Resize(m.Width, m.Height)
		s.send(serverMessage{Type: "layout", Layout: s.currentLayout()})
	case "scroll":
		s.vp.ScrollTo(m.Y)
	case "mount":
		if _, err := s.director.Mount(m.Section); err != nil {
			s.sendError(err)
		}
	case "unmount":
		s.director.Unmount(m.Section)
	case "navigate", "hire":
		var (
			y   float64
			err error
		)
		if m.Type == "hire" {
			y, err = s.nav.Hire(s.layout)
		} else {
			y, err = s.nav.Navigate(s.layout, m.Section)
		}
		if err != nil {
			s.sendError(err)
			return
		}
		s.scrollTo(y)
		s.sendNav()
	case "restore":
		if s.loader.Done() {
			s.jump(m.Y)
			return
		}
		y := m.Y
		s.restore = &y
	case "skip":
		s.loader.Skip()
	case "menu":
		s.nav.ToggleMenu()
		s.sendNav()
	default:
		s.sendError(fmt.Errorf("%w: %q", errUnknownMessage, m.Type))
	}
}

// tick advances one frame and queues the resulting patches.
func (s *session) tick(dt time.Duration) {
	if !s.loader.Done() {
		s.loader.Tick(dt)
	}
	s.director.Tick(dt)
	if p := s.loader.Percent(); p != s.percent {
		s.percent = p
		s.send(serverMessage{Type: "loading", Percent: &p})
	}
	if patch := s.stage.Flush(); len(patch) > 0 {
		s.send(serverMessage{Type: "patch", Patch: patch})
	}
}

// drain returns and clears the queued messages.
func (s *session) drain() []serverMessage {
	out := s.out
	s.out = nil
	return out
}

func (s *session) close() {
	for _, fn := range s.unsub {
		fn()
	}
	s.unsub = nil
	s.director.Close()
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// handleStage runs a live stage session over a websocket. Client messages
// and frame ticks are serialized through one loop.
func (s *Server) handleStage(c *gin.Context) {
	width, height, err := viewport(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("stage: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	s.stages.Add(1)
	defer s.stages.Done()
	s.sessions.Add(1)
	defer s.sessions.Add(-1)

	sess := newSession(s.page, s.cfg.Motion, width, height)
	defer sess.close()
	log.Printf("stage: session %s opened (%s)", sess.id, sess.director.Mode())

	done := make(chan struct{})
	defer close(done)
	in := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				errc <- err
				return
			}
			select {
			case in <- raw:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval(s.cfg.Motion.FrameRate))
	defer ticker.Stop()
	last := time.Now()
	ctx := c.Request.Context()

	for {
		if !s.flush(conn, sess) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-s.stagesDone:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			log.Printf("stage: session %s closed on shutdown", sess.id)
			return
		case err := <-errc:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("stage: session %s read: %v", sess.id, err)
			}
			log.Printf("stage: session %s closed", sess.id)
			return
		case raw := <-in:
			var m clientMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				sess.sendError(errors.New("invalid message format"))
				continue
			}
			sess.handle(m)
		case now := <-ticker.C:
			sess.tick(now.Sub(last))
			last = now
		}
	}
}

// closeStages ends every live stage session.
func (s *Server) closeStages() { s.stopStages() }

func (s *Server) flush(conn *websocket.Conn, sess *session) bool {
	for _, m := range sess.drain() {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return false
		}
		if err := conn.WriteJSON(m); err != nil {
			log.Printf("stage: session %s write: %v", sess.id, err)
			return false
		}
	}
	return true
}
