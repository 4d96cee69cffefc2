package broadcast

import (
	"encoding/json"

	"github.com/wfunc/colorparty/logger"
	"github.com/wfunc/colorparty/session"
)

// Sender fans JSON payloads out to sessions. A failed send to one session is
// logged and skipped so a dead connection never blocks the rest of a room.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Broadcast(sessions []*session.Session, msgID uint16, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	for _, sess := range sessions {
		if err := sess.Send(msgID, data); err != nil {
			logger.Log.Warnf("Broadcast to session %s failed: %v", sess.GetID(), err)
			continue
		}
	}
	return nil
}

func (s *Sender) Unicast(sess *session.Session, msgID uint16, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return sess.Send(msgID, data)
}
