package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"bizkash/internal/assistant"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is served to the local app shell, not third-party pages
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsReadLimit    = 4 * 1024

	// Short pause before each reply so the client can show a typing
	// indicator, standing in for a real assistant's thinking time.
	typingDelay = 400 * time.Millisecond
)

type wsMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// handleAssistantWS runs one chat session per connection. The assistant
// greets first, then answers each client message in turn until the peer
// hangs up.
func (s *Server) handleAssistantWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)

	if err := s.writeAssistant(conn, assistant.Greeting); err != nil {
		return
	}

	for {
		var in wsMessage
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("Websocket read failed", "error", err)
			}
			return
		}

		s.assistantMessages.Add(1)
		reply := s.deps.Assistant.Reply(in.Text)

		select {
		case <-r.Context().Done():
			return
		case <-time.After(typingDelay):
		}
		if err := s.writeAssistant(conn, reply); err != nil {
			return
		}
	}
}

func (s *Server) writeAssistant(conn *websocket.Conn, text string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(wsMessage{Role: "assistant", Text: text}); err != nil {
		s.logger.Warn("Websocket write failed", "error", err)
		return err
	}
	return nil
}
