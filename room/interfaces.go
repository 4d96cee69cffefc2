package room

import (
	"github.com/wfunc/colorparty/session"
)

// Broadcaster fans a payload out to a fixed set of sessions. Defined here to
// break the import cycle between room and broadcast. Implementations must not
// call back into the room, because rooms broadcast while holding their lock
// to keep every participant observing transitions in the same order.
type Broadcaster interface {
	Broadcast(sessions []*session.Session, msgID uint16, payload interface{}) error
	Unicast(sess *session.Session, msgID uint16, payload interface{}) error
}
