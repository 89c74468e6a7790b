// Package webhost serves the embedded player page and relays playback
// commands to it over Server-Sent Events.
//
// The browser page owns the actual iframe; this server only tracks which
// surface is live. Commands addressed to a surface that has since been
// replaced are dropped.
package webhost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"focusloop/internal/logging"
	"focusloop/internal/playback"
)

const subscriberBuffer = 32

type message struct {
	Type    string            `json:"type"`
	Surface uint64            `json:"surface"`
	Src     string            `json:"src,omitempty"`
	Command *playback.Command `json:"command,omitempty"`
}

// SurfaceStatus describes the live surface.
type SurfaceStatus struct {
	Surface     uint64 `json:"surface"`
	Src         string `json:"src"`
	Subscribers int    `json:"subscribers"`
	Dropped     int    `json:"dropped"`
}

// Server is the player page host. It implements playback.Host.
type Server struct {
	router *gin.Engine
	logger *slog.Logger

	mu          sync.Mutex
	subscribers map[chan message]struct{}
	nextID      uint64
	current     uint64
	currentSrc  string
	dropped     int
}

// NewServer creates the player host and its routes.
func NewServer(logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:      router,
		logger:      logging.OrDiscard(logger).With("component", "webhost"),
		subscribers: make(map[chan message]struct{}),
	}

	router.GET("/", server.handleIndex)
	router.GET("/events", server.handleEvents)

	api := router.Group("/api")
	{
		api.GET("/surface", server.handleSurface)
	}

	return server
}

// Handler exposes the router, mainly for tests.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Run serves on addr until ctx is cancelled.
func (server *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			server.logger.Warn("player host shutdown", "error", err)
		}
	}()

	server.logger.Info("player host listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve player host: %w", err)
	}
	return nil
}

// Mount makes src the live surface, replacing any previous one.
func (server *Server) Mount(src string) playback.Surface {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.nextID++
	server.current = server.nextID
	server.currentSrc = src
	server.publishLocked(message{Type: "mount", Surface: server.current, Src: src})
	return &surface{server: server, id: server.current}
}

// Status returns the live surface.
func (server *Server) Status() SurfaceStatus {
	server.mu.Lock()
	defer server.mu.Unlock()
	return SurfaceStatus{
		Surface:     server.current,
		Src:         server.currentSrc,
		Subscribers: len(server.subscribers),
		Dropped:     server.dropped,
	}
}

type surface struct {
	server *Server
	id     uint64
}

func (s *surface) Post(command playback.Command) {
	s.server.post(s.id, command)
}

func (s *surface) Close() {
	s.server.unmount(s.id)
}

func (server *Server) post(id uint64, command playback.Command) {
	server.mu.Lock()
	defer server.mu.Unlock()
	if id != server.current {
		server.dropped++
		server.logger.Debug("dropped command for replaced surface", "surface", id, "func", command.Func)
		return
	}
	server.publishLocked(message{Type: "command", Surface: id, Command: &command})
}

func (server *Server) unmount(id uint64) {
	server.mu.Lock()
	defer server.mu.Unlock()
	if id != server.current {
		return
	}
	server.current = 0
	server.currentSrc = ""
	server.publishLocked(message{Type: "unmount", Surface: id})
}

func (server *Server) publishLocked(msg message) {
	for ch := range server.subscribers {
		select {
		case ch <- msg:
		default:
			server.logger.Warn("player page is not keeping up", "type", msg.Type)
		}
	}
}

func (server *Server) subscribe() (chan message, func()) {
	ch := make(chan message, subscriberBuffer)
	server.mu.Lock()
	server.subscribers[ch] = struct{}{}
	if server.current != 0 {
		ch <- message{Type: "mount", Surface: server.current, Src: server.currentSrc}
	}
	server.mu.Unlock()

	return ch, func() {
		server.mu.Lock()
		delete(server.subscribers, ch)
		server.mu.Unlock()
	}
}

func (server *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(playerPage))
}

func (server *Server) handleSurface(c *gin.Context) {
	c.JSON(http.StatusOK, server.Status())
}

func (server *Server) handleEvents(c *gin.Context) {
	ch, unsubscribe := server.subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg := <-ch:
			c.SSEvent(msg.Type, msg)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
