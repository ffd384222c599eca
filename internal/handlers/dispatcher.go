// internal/handlers/dispatcher.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/duelyard/duelyard/internal/game"
)

// envelope is one inbound frame: a named event with a single JSON payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ErrorPayload is the body of an error event sent back to the offending
// session. Event names the inbound event that failed.
type ErrorPayload struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

// flexInt accepts a JSON number or a string numeral, rejecting anything
// that is not a finite integer. JSON clients routinely send ids as strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = str
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(v)
		return nil
	}
	// Tolerate integer-valued floats like 3.0; reject everything else.
	fv, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(fv) || math.IsInf(fv, 0) || fv != math.Trunc(fv) {
		return fmt.Errorf("not a finite integer: %q", s)
	}
	*f = flexInt(int64(fv))
	return nil
}

// Inbound payload shapes. Required fields are pointers so a missing field
// is distinguishable from zero.
type createRoomPayload struct {
	DeckID *flexInt `json:"deckId"`
}

type joinRoomPayload struct {
	RoomID *flexInt `json:"roomId"`
	DeckID *flexInt `json:"deckId"`
}

type roomActionPayload struct {
	RoomID *flexInt `json:"roomId"`
}

type playCardPayload struct {
	RoomID    *flexInt `json:"roomId"`
	CardIndex *flexInt `json:"cardIndex"`
}

// Dispatcher binds inbound event names to hub operations for one session.
type Dispatcher struct {
	Hub *game.Hub
	Log *logrus.Logger
}

// Handle decodes and routes one inbound frame. Every failure path replies
// to the sender with a single error event and leaves all state untouched;
// a panic inside a handler is reported as INTERNAL.
func (d *Dispatcher) Handle(ctx context.Context, sess *Session, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.sendError(sess, "", game.ErrBadRequest)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.Log.WithFields(logrus.Fields{
				"session": sess.ID,
				"event":   env.Event,
				"panic":   r,
			}).Error("handler panicked")
			d.sendError(sess, env.Event, game.ErrInternal)
		}
	}()

	if err := d.dispatch(ctx, sess, env); err != nil {
		d.sendError(sess, env.Event, err)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, sess *Session, env envelope) error {
	client := game.Client{SessionID: sess.ID, UserID: sess.UserID, Email: sess.Email}

	switch env.Event {
	case "getRooms":
		return d.Hub.GetRooms(client)

	case "createRoom":
		var p createRoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.DeckID == nil {
			return game.ErrBadRequest
		}
		return d.Hub.CreateRoom(ctx, client, int64(*p.DeckID))

	case "joinRoom":
		var p joinRoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.RoomID == nil || p.DeckID == nil {
			return game.ErrBadRequest
		}
		return d.Hub.JoinRoom(ctx, client, int64(*p.RoomID), int64(*p.DeckID))

	case "drawCards":
		roomID, err := roomIDFrom(env.Data)
		if err != nil {
			return err
		}
		return d.Hub.DrawCards(client, roomID)

	case "playCard":
		var p playCardPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.RoomID == nil || p.CardIndex == nil {
			return game.ErrBadRequest
		}
		if *p.CardIndex < 0 {
			return game.ErrBadRequest
		}
		return d.Hub.PlayCard(client, int64(*p.RoomID), int(*p.CardIndex))

	case "attack":
		roomID, err := roomIDFrom(env.Data)
		if err != nil {
			return err
		}
		return d.Hub.Attack(client, roomID)

	case "endTurn":
		roomID, err := roomIDFrom(env.Data)
		if err != nil {
			return err
		}
		return d.Hub.EndTurn(client, roomID)

	default:
		return game.ErrBadRequest
	}
}

func roomIDFrom(data json.RawMessage) (int64, error) {
	var p roomActionPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == nil {
		return 0, game.ErrBadRequest
	}
	return int64(*p.RoomID), nil
}

func (d *Dispatcher) sendError(sess *Session, event string, err error) {
	sess.Send(game.EventError, ErrorPayload{Event: event, Message: game.Code(err)})
}
