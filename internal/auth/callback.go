package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

// OriginOf returns scheme://host[:port] of rawURL, or "" if it does not
// parse as an absolute URL.
func OriginOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// CallbackServer receives login messages on a loopback address. The login
// page served by the backend POSTs {type, data} to /callback; the request's
// Origin header is the message origin. Messages are relayed to whoever is
// listening through Listen.
type CallbackServer struct {
	relay     *Relay
	allowed   string
	router    *gin.Engine
	server    *http.Server
	listener  net.Listener
	serveDone chan error
}

// NewCallbackServer builds a server that answers CORS preflights for
// allowedOrigin. It does not listen until Start.
func NewCallbackServer(allowedOrigin string) *CallbackServer {
	s := &CallbackServer{
		relay:   NewRelay(),
		allowed: allowedOrigin,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.cors())
	router.POST("/callback", s.handleCallback)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router = router
	return s
}

// Handler exposes the router, mainly for tests.
func (s *CallbackServer) Handler() http.Handler {
	return s.router
}

// Listen implements MessageSource.
func (s *CallbackServer) Listen() (<-chan Message, func()) {
	return s.relay.Listen()
}

// Start listens on addr (host:port; port 0 picks a free one) and serves in
// the background.
func (s *CallbackServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.serveDone = make(chan error, 1)

	go func() {
		err := s.server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.serveDone <- err
	}()

	log.Printf("[auth] callback server listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address once started.
func (s *CallbackServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server gracefully.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down callback server: %w", err)
	}
	return <-s.serveDone
}

func (s *CallbackServer) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", s.allowed)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type")
		c.Writer.Header().Set("Vary", "Origin")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *CallbackServer) handleCallback(c *gin.Context) {
	var m Message
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message body"})
		return
	}
	m.Origin = c.GetHeader("Origin")

	if s.relay.Publish(m) == 0 {
		c.JSON(http.StatusGone, gin.H{"error": "no login in progress"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "received"})
}
