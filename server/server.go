package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/colorparty/broadcast"
	"github.com/wfunc/colorparty/config"
	"github.com/wfunc/colorparty/logger"
	"github.com/wfunc/colorparty/mixer"
	"github.com/wfunc/colorparty/models"
	"github.com/wfunc/colorparty/monitor"
	"github.com/wfunc/colorparty/network"
	"github.com/wfunc/colorparty/persistence"
	"github.com/wfunc/colorparty/room"
	colorparty_rpc "github.com/wfunc/colorparty/rpc"
	"github.com/wfunc/colorparty/services"
	"github.com/wfunc/colorparty/session"
)

// GameServer routes client events to room coordinators and hosts the
// leaderboard/stats HTTP endpoints.
type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	sender         *broadcast.Sender
	leaderboard    *services.LeaderboardService
	reporter       services.StatsReporter
	mon            *monitor.Monitor
	rpcServer      *colorparty_rpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database, mon *monitor.Monitor) *GameServer {
	sender := broadcast.NewSender()
	solver := mixer.NewSolver(cfg.Game.SolvableThreshold)
	defaults := room.Settings{
		MaxPlayers: cfg.Game.MaxPlayers,
		MaxRounds:  cfg.Game.MaxRounds,
		GuessTime:  cfg.Game.GuessTime,
	}

	var reporter services.StatsReporter = services.NopStatsReporter{}
	if cfg.Stats.BaseURL != "" {
		reporter = services.NewHTTPStatsReporter(cfg.Stats.BaseURL, cfg.Stats.Timeout)
	}

	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		roomManager:    room.NewManager(cfg.Game.RoomCodeLength, defaults, sender, solver),
		sessionManager: session.NewManager(),
		sender:         sender,
		leaderboard:    services.NewLeaderboardService(db),
		reporter:       reporter,
		mon:            mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	rpcServer, err := colorparty_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	statsService := colorparty_rpc.NewStatsService(s.leaderboard)
	rpc.Register(statsService)

	return s
}

// RoomManager exposes the session registry for the idle sweep.
func (s *GameServer) RoomManager() *room.Manager {
	return s.roomManager
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.registerHTTPHandlers(mux)

	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.mon.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		if code := sess.Room(); code != "" {
			if r, exists := s.roomManager.GetRoom(code); exists {
				r.Leave(sess.GetID(), true)
			}
		}
		s.sessionManager.Remove(sess.GetID())
		s.mon.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	s.mon.IncEventsReceived()
	start := time.Now()
	defer func() {
		s.mon.ObserveEventLatency(time.Since(start))
	}()

	var err error
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Touch()
	case network.MsgTypeCreateRoom:
		err = s.handleCreateRoom(sess, packet)
	case network.MsgTypeJoinRoom:
		err = s.handleJoinRoom(sess, packet)
	case network.MsgTypeLeaveRoom:
		err = s.handleLeaveRoom(sess)
	case network.MsgTypeGetRoomInfo:
		err = s.handleGetRoomInfo(sess, packet)
	case network.MsgTypeSelectGameType:
		err = s.handleSelectGameType(sess, packet)
	case network.MsgTypeStartRound:
		err = s.handleStartRound(sess, packet)
	case network.MsgTypeSubmitScore:
		err = s.handleSubmitScore(sess, packet)
	case network.MsgTypeEndRound:
		err = s.handleEndRound(sess, packet)
	case network.MsgTypeContinueSession:
		err = s.handleContinueSession(sess, packet)
	case network.MsgTypeEndSession:
		err = s.handleEndSession(sess, packet)
	case network.MsgTypeSetTargetColor:
		err = s.handleSetTargetColor(sess, packet)
	case network.MsgTypeExtendTime:
		err = s.handleExtendTime(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}

	if err != nil {
		s.sendError(sess, err)
	}
}

func (s *GameServer) sendError(sess *session.Session, err error) {
	msg := models.ErrorMessage{Code: "internalError", Message: err.Error()}
	if re, ok := err.(*room.Error); ok {
		msg.Code = re.Code
	}
	if uerr := s.sender.Unicast(sess, network.MsgTypeError, msg); uerr != nil {
		logger.Log.Warnf("Failed to send error to session %s: %v", sess.GetID(), uerr)
	}
}

// roomFor resolves the target room of an event, falling back to the
// session's own room when the payload omits the code.
func (s *GameServer) roomFor(sess *session.Session, roomID string) (*room.Room, error) {
	if roomID == "" {
		roomID = sess.Room()
	}
	r, exists := s.roomManager.GetRoom(roomID)
	if !exists {
		return nil, room.ErrRoomNotFound
	}
	return r, nil
}

func (s *GameServer) handleCreateRoom(sess *session.Session, packet *network.Packet) error {
	var req models.CreateRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil || req.PlayerName == "" {
		return room.ErrInvalidPayload
	}
	if sess.Room() != "" {
		return room.ErrInvalidPayload
	}

	r := s.roomManager.CreateRoom(sess, req.PlayerName, req.TargetColor, req.Settings)
	r.AnnounceCreated()
	s.mon.SetActiveRooms(s.roomManager.Count())
	return nil
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) error {
	var req models.JoinRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil || req.PlayerName == "" {
		return room.ErrInvalidPayload
	}
	if sess.Room() != "" {
		return room.ErrInvalidPayload
	}

	r, exists := s.roomManager.GetRoom(req.RoomID)
	if !exists {
		return room.ErrRoomNotFound
	}
	return r.Join(sess, req.PlayerName)
}

func (s *GameServer) handleLeaveRoom(sess *session.Session) error {
	r, err := s.roomFor(sess, "")
	if err != nil {
		return err
	}
	r.Leave(sess.GetID(), false)
	return nil
}

func (s *GameServer) handleGetRoomInfo(sess *session.Session, packet *network.Packet) error {
	var req models.RoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return room.ErrInvalidPayload
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	r.SendInfo(sess)
	return nil
}

func (s *GameServer) handleSelectGameType(sess *session.Session, packet *network.Packet) error {
	var req models.SelectGameTypeRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return room.ErrInvalidPayload
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	return r.SelectGameType(sess.GetID(), req.GameType)
}

func (s *GameServer) handleStartRound(sess *session.Session, packet *network.Packet) error {
	var req models.RoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return room.ErrInvalidPayload
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	if err := r.StartRound(sess.GetID()); err != nil {
		return err
	}
	s.mon.IncRoundsPlayed()
	return nil
}

func (s *GameServer) handleSubmitScore(sess *session.Session, packet *network.Packet) error {
	var req models.SubmitScoreRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return room.ErrInvalidPayload
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}

	attempt, err := r.SubmitScore(sess.GetID(), req.Score, req.TimeTaken)
	if err != nil {
		return err
	}
	s.mon.IncScoresSubmitted()

	// Best-effort side channel; never blocks or fails the transition.
	s.reporter.ReportAttempt(attempt)
	return nil
}

func (s *GameServer) handleEndRound(sess *session.Session, packet *network.Packet) error {
	var req models.RoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return room.ErrInvalidPayload
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	return r.EndRound(sess.GetID())
}

func (s *GameServer) handleContinueSession(sess *session.Session, packet *network.Packet) error {
	var req models.RoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return room.ErrInvalidPayload
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	return r.ContinueSession(sess.GetID())
}

func (s *GameServer) handleEndSession(sess *session.Session, packet *network.Packet) error {
	var req models.RoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return room.ErrInvalidPayload
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}

	rows, err := r.EndSession(sess.GetID())
	if err != nil {
		return err
	}

	date := time.Now().Format("2006-01-02")
	for _, row := range rows {
		s.reporter.ReportLeaderboard(&models.LeaderboardEntry{
			Name:      row.Name,
			Score:     row.SessionScore,
			Date:      date,
			Timestamp: time.Now(),
		})
	}
	return nil
}

func (s *GameServer) handleSetTargetColor(sess *session.Session, packet *network.Packet) error {
	var req models.SetTargetColorRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return room.ErrInvalidPayload
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	return r.SetTargetColor(sess.GetID(), req.TargetColor)
}

func (s *GameServer) handleExtendTime(sess *session.Session, packet *network.Packet) error {
	var req models.ExtendTimeRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return room.ErrInvalidPayload
	}
	r, err := s.roomFor(sess, req.RoomID)
	if err != nil {
		return err
	}
	return r.ExtendTime(sess.GetID(), req.AdditionalSeconds)
}
