package room

// Error is a rejected-event reason. The code travels to the originating
// client in the error broadcast; a rejection never partially mutates room
// state.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrRoomNotFound     = &Error{Code: "roomNotFound", Message: "room not found"}
	ErrRoomFull         = &Error{Code: "roomFull", Message: "room is full"}
	ErrNotDenner        = &Error{Code: "notDenner", Message: "only the denner can perform this action"}
	ErrNotInRoom        = &Error{Code: "notInRoom", Message: "player is not in this room"}
	ErrWrongState       = &Error{Code: "wrongState", Message: "action not allowed in the current game state"}
	ErrAlreadySubmitted = &Error{Code: "alreadySubmitted", Message: "score already submitted for this round"}
	ErrInvalidPayload   = &Error{Code: "invalidPayload", Message: "malformed event payload"}
	ErrInvalidGameType  = &Error{Code: "invalidPayload", Message: "unknown game type"}
	ErrInvalidColor     = &Error{Code: "invalidPayload", Message: "invalid target color"}
)
