// internal/httpserver/ws.go
//
// Websocket presentation adapter: GET /api/game/ws upgrades the connection
// and pushes every display update of the player's live session.
//
// Protocol (JSON text frames):
//   - server → client: {"type":"snapshot","state":{...}} once on connect,
//     then {"type":"slot","slot":"timer","text":"Time: 29s"},
//     {"type":"completed","result":{...},"navigate":"/results"} or
//     {"type":"failed","error":"..."}; replies to actions carry "outcome".
//   - client → server: {"action":"guess","guess":"cat"}, or "retry", "hint",
//     "shuffle", "boost".
//
// Only the writer loop writes to the connection; the reader hands replies
// to it over a channel.

package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/internal/game"
	"github.com/robalobadob/twistle/internal/store"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// wsMessage is a server → client frame.
type wsMessage struct {
	Type     string         `json:"type"`
	Slot     game.Slot      `json:"slot,omitempty"`
	Text     string         `json:"text,omitempty"`
	Outcome  game.Outcome   `json:"outcome,omitempty"`
	Hint     string         `json:"hint,omitempty"`
	Result   *game.Result   `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
	Navigate string         `json:"navigate,omitempty"`
	State    *game.Snapshot `json:"state,omitempty"`
}

// wsAction is a client → server frame.
type wsAction struct {
	Action string `json:"action"`
	Guess  string `json:"guess"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.ClientOrigin || strings.HasSuffix(origin, "://"+r.Host)
		},
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	events, cancel := sess.Feed.Subscribe(64)
	defer cancel()

	replies := make(chan wsMessage, 8)
	quit := make(chan struct{})
	readDone := make(chan struct{})
	defer close(quit)

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	go func() {
		defer close(readDone)
		for {
			var in wsAction
			if err := conn.ReadJSON(&in); err != nil {
				return
			}
			select {
			case replies <- applyAction(sess, in):
			case <-quit:
				return
			}
		}
	}()

	snap := sess.Machine.Snapshot()
	if err := s.wsWrite(conn, wsMessage{Type: "snapshot", State: &snap}); err != nil {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		var msg wsMessage
		select {
		case e, open := <-events:
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session replaced"),
					time.Now().Add(wsWriteWait))
				return
			}
			msg = fromEvent(e)
		case msg = <-replies:
		case <-readDone:
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			continue
		}
		if err := s.wsWrite(conn, msg); err != nil {
			log.Debug().Err(err).Str("player", sess.PlayerID).Msg("websocket write")
			return
		}
	}
}

func (s *Server) wsWrite(conn *websocket.Conn, msg wsMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}

func fromEvent(e store.Event) wsMessage {
	msg := wsMessage{Type: e.Type, Slot: e.Slot, Text: e.Text, Result: e.Result, Error: e.Error}
	if e.Type == "completed" {
		msg.Navigate = resultsPath
	}
	return msg
}

// applyAction runs one client action against the machine and builds the reply.
// Slot changes reach the client separately through the feed.
func applyAction(sess *store.Session, in wsAction) wsMessage {
	m := sess.Machine
	reply := wsMessage{Type: "reply"}
	var err error
	switch in.Action {
	case "guess":
		reply.Outcome, err = m.Submit(in.Guess)
	case "retry":
		err = m.Retry()
	case "hint":
		reply.Hint, err = m.RevealHint()
	case "shuffle":
		_, err = m.Shuffle()
	case "boost":
		_, err = m.Boost()
	default:
		return wsMessage{Type: "error", Error: "unknown_action"}
	}
	if err != nil {
		return wsMessage{Type: "error", Error: err.Error()}
	}
	snap := m.Snapshot()
	reply.State = &snap
	if snap.State == game.StateFinished {
		reply.Navigate = resultsPath
	}
	return reply
}
