package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/xiangqi-backend/internal/model"
	"github.com/benbeisheim/xiangqi-backend/internal/service"
	"github.com/benbeisheim/xiangqi-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves one player's (or spectator's) game socket until
// it closes.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)
	// broadcasts and error replies share the connection
	conn := model.NewSyncConn(c)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warnf("game %s: register connection for %s: %v", gameID, playerID, err)
		wsc.sendError(conn, err.Error())
		conn.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read from %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, "malformed message")
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(conn, err.Error())
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("malformed move: %w", err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)
	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking queues the player and holds the socket open until a
// match is found, then sends it and closes.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("playerID").(string)
	ch := make(chan string, 1)

	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		wsc.sendError(c, err.Error())
		c.Close()
		return
	}
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil {
		wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)
		wsc.sendError(c, err.Error())
		c.Close()
		return
	}

	// The read loop only notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if ok {
			c.WriteJSON(ws.Message{
				Type:    ws.MessageTypeMatchFound,
				Payload: json.RawMessage(event),
			})
		}
	case <-closed:
		wsc.gameService.LeaveMatchmaking(playerID)
		wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)
	}
	c.Close()
}

func (wsc *WebSocketController) sendError(c model.Conn, errorMsg string) {
	if err := c.WriteJSON(ws.ErrorMessage(errorMsg)); err != nil {
		log.Debugf("send error message: %v", err)
	}
}
