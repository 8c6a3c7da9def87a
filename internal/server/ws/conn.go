package ws

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/olmmcc/union/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// same-origin policy is not enforced here; the service fronts its own UI
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server upgrades incoming requests and serves command connections.
type Server struct {
	auth      service.AuthService
	galleries service.GalleryService
	log       *zap.Logger
}

func NewServer(auth service.AuthService, galleries service.GalleryService, log *zap.Logger) *Server {
	return &Server{auth: auth, galleries: galleries, log: log}
}

// Handle is the gin handler for GET /ws/:name. The path segment names the
// operation the connection is bound to; unknown names still get a
// connection, which answers every frame with an operation-not-found
// response.
func (s *Server) Handle(c *gin.Context) {
	op := ParseOp(c.Param("name"))
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	ip, _, _ := net.SplitHostPort(c.Request.RemoteAddr)
	d := NewDispatcher(op, s.auth, s.galleries, ip)
	// serve on the handler goroutine: returning would cancel the request
	// context while the hijacked connection is still alive
	s.serve(c.Request.Context(), conn, d)
}

// serve owns one connection: reads frames, dispatches them in order and
// writes exactly one response per frame. Any exit path closes only this
// connection.
func (s *Server) serve(ctx context.Context, conn *websocket.Conn, d *Dispatcher) {
	defer conn.Close()

	log := s.log.With(zap.String("op", d.Op().String()), zap.String("remote", conn.RemoteAddr().String()))
	log.Info("connection open")

	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("connection closed", zap.Error(err))
			} else {
				log.Info("connection closed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		resp, err := d.Handle(ctx, raw)
		if err != nil {
			if errors.Is(err, ErrProtocol) {
				log.Warn("undecodable message, dropping connection", zap.Error(err))
			} else {
				log.Error("command failed", zap.Error(err))
			}
			return
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Warn("write failed", zap.Error(err))
			return
		}
	}
}
