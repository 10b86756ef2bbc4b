// Package apitest hosts an in-process stub of the chess server's HTTP API
// for tests: bearer-authenticated unary endpoints plus an NDJSON event
// stream with keep-alive heartbeats and per-line flushing.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kyllingene/liclient/pkg/model"
)

// Server is a stub chess server. Configure the exported fields before
// issuing requests; one Server supports one event stream at a time.
type Server struct {
	Token   string
	Account model.Account
	GameID  string

	mutex            sync.Mutex
	streamFrames     []string
	streamClosed     chan struct{}
	streamClosedOnce sync.Once

	httpServer *httptest.Server
}

// NewServer starts a stub server that requires the given bearer token.
func NewServer(token string) *Server {
	server := &Server{
		Token: token,
		Account: model.Account{
			ID:       "kyllingene",
			Username: "Kyllingene",
			Online:   true,
		},
		GameID:       "abcdefgh",
		streamClosed: make(chan struct{}),
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api", requireBearer(token))
	api.GET("/account", server.handleAccount)
	api.GET("/account/email", server.handleEmail)
	api.POST("/challenge/ai", server.handleChallengeAI)
	api.POST("/board/seek", server.handleSeek)
	api.POST("/board/game/:id/move/:move", server.handleOK)
	api.POST("/board/game/:id/resign", server.handleOK)
	api.GET("/stream/event", server.handleEventStream)
	api.GET("/missing", server.handleMissing)
	api.POST("/echo", server.handleEcho)

	server.httpServer = httptest.NewServer(engine)
	return server
}

// URL is the stub server's base URL.
func (server *Server) URL() string {
	return server.httpServer.URL
}

// Close shuts the stub server down.
func (server *Server) Close() {
	server.httpServer.Close()
}

// SetStreamFrames queues the NDJSON records the event stream will emit,
// interleaved with heartbeat blank lines.
func (server *Server) SetStreamFrames(frames []string) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	server.streamFrames = frames
}

// WaitStreamClosed asserts the stream handler observed the client
// disconnect within the timeout, i.e. the connection was actually released.
func (server *Server) WaitStreamClosed(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case <-server.streamClosed:
	case <-time.After(timeout):
		t.Fatalf("stream connection was not released within %v", timeout)
	}
}

// signalStreamClosed records that a stream connection was released. It is
// idempotent so a test that opens more than one stream cannot panic the
// handler on the second disconnect.
func (server *Server) signalStreamClosed() {
	server.streamClosedOnce.Do(func() {
		close(server.streamClosed)
	})
}

// requireBearer rejects any request whose Authorization header does not
// carry the expected bearer token.
func requireBearer(requiredToken string) gin.HandlerFunc {
	return func(ginContext *gin.Context) {
		authHeader := ginContext.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") ||
			strings.TrimPrefix(authHeader, "Bearer ") != requiredToken {
			ginContext.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		ginContext.Next()
	}
}

func (server *Server) handleAccount(ginContext *gin.Context) {
	ginContext.JSON(http.StatusOK, server.Account)
}

func (server *Server) handleEmail(ginContext *gin.Context) {
	ginContext.JSON(http.StatusOK, gin.H{"email": server.Account.ID + "@example.com"})
}

func (server *Server) handleChallengeAI(ginContext *gin.Context) {
	if ginContext.PostForm("level") == "" {
		ginContext.JSON(http.StatusBadRequest, gin.H{"error": "level is required"})
		return
	}
	ginContext.JSON(http.StatusCreated, gin.H{"id": server.GameID})
}

func (server *Server) handleSeek(ginContext *gin.Context) {
	ginContext.Status(http.StatusOK)
}

func (server *Server) handleOK(ginContext *gin.Context) {
	ginContext.JSON(http.StatusOK, gin.H{"ok": true})
}

func (server *Server) handleMissing(ginContext *gin.Context) {
	ginContext.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// handleEcho returns the raw request body unchanged, for round-trip tests.
func (server *Server) handleEcho(ginContext *gin.Context) {
	body, readError := ginContext.GetRawData()
	if readError != nil {
		ginContext.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	ginContext.Data(http.StatusOK, ginContext.ContentType(), body)
}

// handleEventStream writes the queued frames as NDJSON, bracketed by
// heartbeat blank lines, then idles emitting heartbeats until the client
// goes away.
func (server *Server) handleEventStream(ginContext *gin.Context) {
	writer := ginContext.Writer
	writer.Header().Set("Content-Type", "application/x-ndjson")
	writer.WriteHeader(http.StatusOK)

	writeLine := func(line string) {
		_, _ = writer.WriteString(line + "\n")
		writer.Flush()
	}

	writeLine("")
	server.mutex.Lock()
	frames := server.streamFrames
	server.mutex.Unlock()
	for _, frame := range frames {
		writeLine(frame)
		writeLine("")
	}

	heartbeat := time.NewTicker(25 * time.Millisecond)
	defer heartbeat.Stop()
	for {
		select {
		case <-ginContext.Request.Context().Done():
			server.signalStreamClosed()
			return
		case <-heartbeat.C:
			writeLine("")
		}
	}
}
