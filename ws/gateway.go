// Package ws exposes the conversational endpoint over websockets. Each
// connection carries one conversation: the client sends plain-text
// messages and receives the agent's plain-text replies in order.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/voyago/voyago/config"
	"github.com/voyago/voyago/logging"
)

// MessageHandler produces the agent reply for one user message. It must
// not return an error; failures surface as reply text.
type MessageHandler interface {
	HandleMessage(ctx context.Context, conversationID, userText string) string
}

// Gateway is the websocket front of the service.
type Gateway struct {
	echo     *echo.Echo
	handler  MessageHandler
	cfg      config.WSConfig
	log      logging.Logger
	upgrader websocket.Upgrader
}

// NewGateway creates the gateway and registers its routes.
func NewGateway(handler MessageHandler, cfg config.WSConfig, log logging.Logger) *Gateway {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	g := &Gateway{
		echo:    e,
		handler: handler,
		cfg:     cfg,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	e.GET("/healthz", g.handleHealth)
	e.GET("/ws/:client_id", g.handleConversation)

	return g
}

// Start listens on addr and blocks until the server stops.
func (g *Gateway) Start(addr string) error {
	return g.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.echo.Shutdown(ctx)
}

func (g *Gateway) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleConversation upgrades the connection and runs the message loop.
// Messages within a conversation are processed strictly in order, so a
// reply always answers the most recent message.
func (g *Gateway) handleConversation(c echo.Context) error {
	clientID := c.Param("client_id")
	if clientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "client_id is required")
	}

	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		g.log.Error("websocket upgrade failed", "client_id", clientID, "error", err.Error())
		return err
	}
	defer conn.Close()

	g.log.Info("conversation opened", "client_id", clientID)
	conn.SetReadLimit(g.cfg.MaxMessageSize)

	ctx := c.Request().Context()
	for {
		conn.SetReadDeadline(time.Now().Add(g.cfg.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Warn("websocket read failed", "client_id", clientID, "error", err.Error())
			}
			break
		}

		reply := g.handler.HandleMessage(ctx, clientID, string(message))

		conn.SetWriteDeadline(time.Now().Add(g.cfg.WriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			g.log.Warn("websocket write failed", "client_id", clientID, "error", err.Error())
			break
		}
	}

	g.log.Info("conversation closed", "client_id", clientID)
	return nil
}
