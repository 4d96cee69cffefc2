package room

import (
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/colorparty/color"
	"github.com/wfunc/colorparty/logger"
	"github.com/wfunc/colorparty/mixer"
	"github.com/wfunc/colorparty/models"
	"github.com/wfunc/colorparty/network"
	"github.com/wfunc/colorparty/rotation"
	"github.com/wfunc/colorparty/session"
	"github.com/wfunc/colorparty/state"
)

// Settings are the per-room knobs fixed at creation time.
type Settings struct {
	MaxPlayers int
	MaxRounds  int
	GuessTime  int // seconds per round, advisory
}

// Room owns one party session: its players, denner rotation, round lifecycle
// and score history. Every event is serialized behind one mutex; a mutation
// either transitions the state machine and broadcasts a full snapshot, or is
// rejected with a typed error leaving state untouched.
type Room struct {
	code     string
	hostID   string
	settings Settings

	machine         *state.Machine
	gameType        models.GameType
	targetColor     string
	currentRound    int
	roundStartedAt  time.Time
	roundEndedAt    time.Time
	extendedSeconds int
	submitted       map[string]bool

	registry    *Registry
	rot         *rotation.Rotation
	results     []models.RoundResult
	leaderboard []models.LeaderboardRow

	createdAt  time.Time
	emptySince time.Time

	broadcaster Broadcaster
	solver      *mixer.Solver
	rng         *rand.Rand
	mutex       sync.Mutex
}

// NewRoom creates a room with the creator as sole player, host and initial
// denner, in the lobby state.
func NewRoom(code string, creator *session.Session, creatorName, targetColor string, settings Settings, b Broadcaster, solver *mixer.Solver) *Room {
	r := &Room{
		code:        code,
		hostID:      creator.GetID(),
		settings:    settings,
		machine:     state.NewMachine(),
		targetColor: targetColor,
		submitted:   make(map[string]bool),
		registry:    NewRegistry(),
		rot:         rotation.New(),
		createdAt:   time.Now(),
		broadcaster: b,
		solver:      solver,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	r.registry.Add(creator, creatorName)
	r.rot.Add(creator.GetID())
	creator.SetRoom(code)
	return r
}

func (r *Room) Code() string {
	return r.code
}

// AnnounceCreated broadcasts the initial snapshot to the creator.
func (r *Room) AnnounceCreated() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.broadcastLocked(network.MsgTypeRoomCreated, r.snapshotLocked())
}

// Join adds a player. Late joins to in-progress sessions are rejected to keep
// round fairness well-defined.
func (r *Room) Join(sess *session.Session, name string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.machine.Is(state.Lobby) {
		return ErrWrongState
	}
	if r.registry.Len() >= r.settings.MaxPlayers {
		return ErrRoomFull
	}

	r.registry.Add(sess, name)
	r.rot.Add(sess.GetID())
	sess.SetRoom(r.code)
	r.emptySince = time.Time{}

	info := r.snapshotLocked()
	r.broadcaster.Unicast(sess, network.MsgTypeRoomJoined, info)
	r.broadcastLocked(network.MsgTypePlayerJoined, info)
	return nil
}

// Leave removes a player after an explicit leave or a disconnect. If the
// leaver was host or denner, the next player in rotation takes over and a
// dennerChanged broadcast carries the reason.
func (r *Room) Leave(sessionID string, disconnected bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p := r.registry.Remove(sessionID)
	if p == nil {
		return
	}
	p.Session.SetRoom("")
	delete(r.submitted, sessionID)

	dennerChanged := r.rot.Remove(sessionID)

	if r.registry.Len() == 0 {
		r.emptySince = time.Now()
		return
	}

	if r.hostID == sessionID {
		r.hostID = r.rot.Current()
	}

	r.broadcastLocked(network.MsgTypePlayerLeft, r.snapshotLocked())

	if dennerChanged {
		reason := models.ReasonHostLeft
		if disconnected {
			reason = models.ReasonHostDisconnected
		}
		newDenner := r.rot.Current()
		name := ""
		if np, ok := r.registry.Get(newDenner); ok {
			name = np.Name
		}
		logger.Log.Infof("Room %s denner reassigned to %s (%s)", r.code, newDenner, reason)
		r.broadcastLocked(network.MsgTypeDennerChanged, models.DennerChanged{
			NewDenner:  newDenner,
			DennerName: name,
			Reason:     reason,
			GameInfo:   r.snapshotLocked(),
		})
	}
}

// SelectGameType sets the mini-game for the next round. Denner only, from the
// lobby or between rounds.
func (r *Room) SelectGameType(callerID string, gameType models.GameType) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.requireDennerLocked(callerID); err != nil {
		return err
	}
	if !r.machine.Is(state.Lobby, state.GameSelection) {
		return ErrWrongState
	}
	if !gameType.Valid() {
		return ErrInvalidGameType
	}

	r.gameType = gameType
	if r.machine.Is(state.Lobby) {
		if err := r.machine.Transition(state.GameSelection); err != nil {
			return ErrWrongState
		}
	}

	r.broadcastLocked(network.MsgTypeGameTypeSelected, r.snapshotLocked())
	return nil
}

// StartRound begins the next round: assigns the target color (generating a
// solvable one for mixing rounds), resets round scores and moves to playing.
func (r *Room) StartRound(callerID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.requireDennerLocked(callerID); err != nil {
		return err
	}
	if !r.machine.Is(state.GameSelection) {
		return ErrWrongState
	}
	if r.gameType == "" {
		return ErrWrongState
	}
	if r.currentRound >= r.settings.MaxRounds {
		return ErrWrongState
	}

	target := r.targetColor
	if target == "" {
		target = r.solver.GenerateTarget(r.rng, r.gameType == models.GameTypeMixColor).Hex()
	}

	if err := r.machine.Transition(state.Playing); err != nil {
		return ErrWrongState
	}

	r.targetColor = target
	r.currentRound++
	r.registry.ResetRound()
	r.submitted = make(map[string]bool)
	r.roundStartedAt = time.Now()
	r.roundEndedAt = time.Time{}
	r.extendedSeconds = 0

	logger.Log.Infof("Room %s started round %d (%s, target %s)", r.code, r.currentRound, r.gameType, target)
	r.broadcastLocked(network.MsgTypeRoundStarted, r.snapshotLocked())
	return nil
}

// SubmitScore records a player's score for the active round. The first
// submission wins; later ones from the same player are rejected and do not
// alter the recorded score. Returns the attempt record for best-effort stats
// reporting.
func (r *Room) SubmitScore(callerID string, score float64, timeTakenMs int64) (*models.GameAttempt, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.machine.Is(state.Playing) {
		return nil, ErrWrongState
	}
	p, ok := r.registry.Get(callerID)
	if !ok {
		return nil, ErrNotInRoom
	}
	if r.submitted[callerID] {
		return nil, ErrAlreadySubmitted
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	p.Score = score
	p.Attempts++
	r.submitted[callerID] = true

	r.broadcastLocked(network.MsgTypeScoreSubmitted, r.snapshotLocked())

	return &models.GameAttempt{
		UserID:      p.ID,
		Name:        p.Name,
		GameType:    r.gameType,
		TargetColor: r.targetColor,
		Score:       score,
		TimeTakenMs: timeTakenMs,
		Date:        time.Now().Format("2006-01-02"),
	}, nil
}

// EndRound freezes the round: folds scores into the session totals, appends
// the immutable RoundResult and rotates the denner. Ending a round is a
// denner action, never automatic on "all submitted" or on timeout.
func (r *Room) EndRound(callerID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.requireDennerLocked(callerID); err != nil {
		return err
	}
	if !r.machine.Is(state.Playing) {
		return ErrWrongState
	}

	dennerName := r.dennerNameLocked()
	if err := r.machine.Transition(state.RoundFinished); err != nil {
		return ErrWrongState
	}

	r.roundEndedAt = time.Now()
	scores := r.registry.FoldRound()
	r.results = append(r.results, models.RoundResult{
		Round:    r.currentRound - 1,
		GameType: r.gameType,
		Denner:   dennerName,
		Scores:   scores,
	})
	r.submitted = make(map[string]bool)
	r.targetColor = ""
	r.rot.Advance()

	logger.Log.Infof("Room %s finished round %d, denner now %s", r.code, r.currentRound, r.rot.Current())
	r.broadcastLocked(network.MsgTypeRoundFinished, r.snapshotLocked())
	return nil
}

// ContinueSession re-enters game selection for the next round.
func (r *Room) ContinueSession(callerID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.requireDennerLocked(callerID); err != nil {
		return err
	}
	if !r.machine.Is(state.RoundFinished) {
		return ErrWrongState
	}
	if r.currentRound >= r.settings.MaxRounds {
		return ErrWrongState
	}

	if err := r.machine.Transition(state.GameSelection); err != nil {
		return ErrWrongState
	}

	r.broadcastLocked(network.MsgTypeRoomInfo, r.snapshotLocked())
	return nil
}

// EndSession closes the session, possibly before maxRounds is reached, and
// publishes the final leaderboard.
func (r *Room) EndSession(callerID string) ([]models.LeaderboardRow, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.requireDennerLocked(callerID); err != nil {
		return nil, err
	}
	if !r.machine.Is(state.RoundFinished) {
		return nil, ErrWrongState
	}

	if err := r.machine.Transition(state.SessionFinished); err != nil {
		return nil, ErrWrongState
	}

	r.leaderboard = r.registry.Leaderboard()
	logger.Log.Infof("Room %s session finished after %d rounds", r.code, r.currentRound)
	r.broadcastLocked(network.MsgTypeSessionEnded, r.snapshotLocked())
	return append([]models.LeaderboardRow(nil), r.leaderboard...), nil
}

// SetTargetColor lets the denner pin the next round's target before it
// starts.
func (r *Room) SetTargetColor(callerID, targetColor string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.requireDennerLocked(callerID); err != nil {
		return err
	}
	if !r.machine.Is(state.Lobby, state.GameSelection) {
		return ErrWrongState
	}
	c, err := color.Parse(targetColor)
	if err != nil {
		return ErrInvalidColor
	}

	r.targetColor = c.Hex()
	r.broadcastLocked(network.MsgTypeTargetColorChanged, r.snapshotLocked())
	return nil
}

// ExtendTime widens the advisory round time budget. There is no server-side
// cutoff; the countdown is client-facing only.
func (r *Room) ExtendTime(callerID string, additionalSeconds int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.requireDennerLocked(callerID); err != nil {
		return err
	}
	if !r.machine.Is(state.Playing) {
		return ErrWrongState
	}
	if additionalSeconds <= 0 {
		return ErrInvalidPayload
	}

	r.extendedSeconds += additionalSeconds
	r.broadcastLocked(network.MsgTypeTimeExtended, models.TimeExtended{
		AdditionalSeconds: additionalSeconds,
		GameInfo:          r.snapshotLocked(),
	})
	return nil
}

// SendInfo unicasts the current snapshot to one session.
func (r *Room) SendInfo(sess *session.Session) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.broadcaster.Unicast(sess, network.MsgTypeRoomInfo, r.snapshotLocked())
}

// Snapshot returns the full GameInfo view of the room.
func (r *Room) Snapshot() models.GameInfo {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.snapshotLocked()
}

// EmptyFor reports whether the room has had zero connected players for longer
// than the grace period.
func (r *Room) EmptyFor(grace time.Duration) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.registry.Len() == 0 && !r.emptySince.IsZero() && time.Since(r.emptySince) > grace
}

func (r *Room) requireDennerLocked(callerID string) error {
	if _, ok := r.registry.Get(callerID); !ok {
		return ErrNotInRoom
	}
	if r.rot.Current() != callerID {
		return ErrNotDenner
	}
	return nil
}

func (r *Room) dennerNameLocked() string {
	if p, ok := r.registry.Get(r.rot.Current()); ok {
		return p.Name
	}
	return ""
}

func (r *Room) remainingTimeLocked() int {
	if !r.machine.Is(state.Playing) || r.roundStartedAt.IsZero() {
		return 0
	}
	budget := r.settings.GuessTime + r.extendedSeconds
	remaining := budget - int(time.Since(r.roundStartedAt).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (r *Room) snapshotLocked() models.GameInfo {
	info := models.GameInfo{
		RoomID:             r.code,
		HostID:             r.hostID,
		GameState:          string(r.machine.Current()),
		GameType:           r.gameType,
		TargetColor:        r.targetColor,
		CurrentRound:       r.currentRound,
		MaxRounds:          r.settings.MaxRounds,
		MaxPlayers:         r.settings.MaxPlayers,
		GuessTime:          r.settings.GuessTime,
		RemainingTime:      r.remainingTimeLocked(),
		Denner:             r.rot.Current(),
		DennerName:         r.dennerNameLocked(),
		Players:            r.registry.Infos(),
		RoundResults:       append([]models.RoundResult(nil), r.results...),
		SessionLeaderboard: append([]models.LeaderboardRow(nil), r.leaderboard...),
	}
	if !r.roundStartedAt.IsZero() {
		info.RoundStartedAt = r.roundStartedAt.UnixMilli()
	}
	if !r.roundEndedAt.IsZero() {
		info.RoundEndedAt = r.roundEndedAt.UnixMilli()
	}
	return info
}

func (r *Room) broadcastLocked(msgID uint16, payload interface{}) {
	if err := r.broadcaster.Broadcast(r.registry.Sessions(), msgID, payload); err != nil {
		logger.Log.Warnf("Room %s broadcast %d failed: %v", r.code, msgID, err)
	}
}
