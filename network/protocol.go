package network

// Message ids. 1xx are room lifecycle intents, 2xx in-round intents,
// 3xx server broadcasts, 4xx errors.
const (
	MsgTypeHeartbeat = 1

	MsgTypeCreateRoom  = 101
	MsgTypeJoinRoom    = 102
	MsgTypeLeaveRoom   = 103
	MsgTypeGetRoomInfo = 104

	MsgTypeSelectGameType  = 201
	MsgTypeStartRound      = 202
	MsgTypeSubmitScore     = 203
	MsgTypeEndRound        = 204
	MsgTypeContinueSession = 205
	MsgTypeEndSession      = 206
	MsgTypeSetTargetColor  = 207
	MsgTypeExtendTime      = 208

	MsgTypeRoomCreated        = 301
	MsgTypeRoomJoined         = 302
	MsgTypeRoomInfo           = 303
	MsgTypePlayerJoined       = 304
	MsgTypePlayerLeft         = 305
	MsgTypeGameTypeSelected   = 306
	MsgTypeRoundStarted       = 307
	MsgTypeScoreSubmitted     = 308
	MsgTypeRoundFinished      = 309
	MsgTypeDennerChanged      = 310
	MsgTypeSessionEnded       = 311
	MsgTypeTargetColorChanged = 312
	MsgTypeTimeExtended       = 313

	MsgTypeError = 400
)
