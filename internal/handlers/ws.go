// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/duelyard/duelyard/internal/auth"
	"github.com/duelyard/duelyard/internal/game"
)

// handshakeToken pulls the session token out of the upgrade request: the
// "token" query parameter first, the auth_token cookie as a fallback.
func handshakeToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if c, err := r.Cookie("auth_token"); err == nil {
		return c.Value
	}
	return ""
}

// DuelWSHandler upgrades the connection, authenticates the handshake token
// and runs the session's read pump. Authentication failures close the
// channel before any event is accepted.
func DuelWSHandler(logger *logrus.Logger, hub *game.Hub, store *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		token := handshakeToken(r)
		if token == "" {
			c.Close(AuthMissingError, "AUTH_MISSING")
			return
		}
		identity, err := auth.AuthenticateJWT(token)
		if err != nil {
			logger.Warnf("handshake auth failed for %s: %v", remoteAddr, err)
			c.Close(AuthInvalidError, "AUTH_INVALID")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		sess := NewSession(identity.UserID, identity.Email, cancel, logger)
		store.Add(sess)

		logger.WithFields(logrus.Fields{
			"session": sess.ID,
			"user":    sess.UserID,
			"remote":  remoteAddr,
		}).Info("session connected")

		go writePump(ctx, c, sess, logger)

		d := &Dispatcher{Hub: hub, Log: logger}
		readPump(ctx, c, sess, d, logger)

		// Cleanup runs regardless of how the read pump exited, so a room is
		// never left behind by a dead connection.
		store.Remove(sess.ID)
		hub.RemoveSession(sess.ID)
		logger.WithFields(logrus.Fields{
			"session": sess.ID,
			"user":    sess.UserID,
		}).Info("session disconnected")
	}
}

// readPump processes inbound frames in arrival order until the connection
// closes. Malformed frames produce error events, never a teardown.
func readPump(ctx context.Context, c *websocket.Conn, sess *Session, d *Dispatcher, logger *logrus.Logger) {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for session %v", sess.ID)
			} else if !strings.Contains(err.Error(), "context canceled") {
				logger.Warnf("read error for session %v: %v", sess.ID, err)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Warnf("ignoring non-text message type %d from session %v", typ, sess.ID)
			continue
		}

		d.Handle(ctx, sess, msg)
	}
}

// writePump drains the session's outbound channel onto the wire and keeps
// the connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, sess *Session, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sess.OutChan:
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("failed to marshal outbound %s for session %v: %v", msg.Event, sess.ID, err)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("write failed for session %v: %v", sess.ID, err)
				sess.Cancel()
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("ping failed for session %v, assuming disconnect: %v", sess.ID, err)
				sess.Cancel()
				return
			}
		}
	}
}
