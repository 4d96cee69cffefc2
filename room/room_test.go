package room

import (
	"net"
	"os"
	"testing"
	"time"

	"github.com/wfunc/colorparty/logger"
	"github.com/wfunc/colorparty/mixer"
	"github.com/wfunc/colorparty/models"
	"github.com/wfunc/colorparty/network"
	"github.com/wfunc/colorparty/session"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockBroadcaster records the message ids it was asked to send.
type MockBroadcaster struct {
	Broadcasts []uint16
	Unicasts   []uint16
}

func (m *MockBroadcaster) Broadcast(sessions []*session.Session, msgID uint16, payload interface{}) error {
	m.Broadcasts = append(m.Broadcasts, msgID)
	return nil
}

func (m *MockBroadcaster) Unicast(sess *session.Session, msgID uint16, payload interface{}) error {
	m.Unicasts = append(m.Unicasts, msgID)
	return nil
}

func (m *MockBroadcaster) lastBroadcast() uint16 {
	if len(m.Broadcasts) == 0 {
		return 0
	}
	return m.Broadcasts[len(m.Broadcasts)-1]
}

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func newTestSession(id string) *session.Session {
	return session.NewSession(id, &MockConnection{})
}

func testSettings() Settings {
	return Settings{MaxPlayers: 4, MaxRounds: 5, GuessTime: 30}
}

func newTestRoom(t *testing.T, b Broadcaster) (*Room, *session.Session) {
	t.Helper()
	alice := newTestSession("alice")
	r := NewRoom("ABC123", alice, "Alice", "", testSettings(), b, mixer.NewSolver(95))
	return r, alice
}

func TestRoom_CreatorIsHostAndDenner(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})

	info := r.Snapshot()
	if info.HostID != alice.GetID() {
		t.Errorf("expected host %q, got %q", alice.GetID(), info.HostID)
	}
	if info.Denner != alice.GetID() {
		t.Errorf("expected initial denner %q, got %q", alice.GetID(), info.Denner)
	}
	if info.GameState != "lobby" {
		t.Errorf("expected lobby state, got %q", info.GameState)
	}
	if alice.Room() != "ABC123" {
		t.Errorf("creator session should be bound to the room, got %q", alice.Room())
	}
}

func TestRoom_JoinFullRoomRejected(t *testing.T) {
	alice := newTestSession("alice")
	r := NewRoom("FULL01", alice, "Alice", "", Settings{MaxPlayers: 2, MaxRounds: 3, GuessTime: 30}, &MockBroadcaster{}, mixer.NewSolver(95))

	if err := r.Join(newTestSession("bob"), "Bob"); err != nil {
		t.Fatalf("second player should be able to join: %v", err)
	}
	if err := r.Join(newTestSession("carol"), "Carol"); err != ErrRoomFull {
		t.Errorf("expected ErrRoomFull, got %v", err)
	}
	if len(r.Snapshot().Players) != 2 {
		t.Errorf("rejected join must not change the player list")
	}
}

func TestRoom_JoinAfterLobbyRejected(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})

	if err := r.SelectGameType(alice.GetID(), models.GameTypeFindColor); err != nil {
		t.Fatalf("SelectGameType: %v", err)
	}
	if err := r.Join(newTestSession("late"), "Late"); err != ErrWrongState {
		t.Errorf("late join should be rejected with ErrWrongState, got %v", err)
	}
}

func TestRoom_DennerOnlyActions(t *testing.T) {
	r, _ := newTestRoom(t, &MockBroadcaster{})
	bob := newTestSession("bob")
	if err := r.Join(bob, "Bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	before := r.Snapshot()

	if err := r.SelectGameType(bob.GetID(), models.GameTypeFindColor); err != ErrNotDenner {
		t.Errorf("SelectGameType by non-denner: expected ErrNotDenner, got %v", err)
	}
	if err := r.StartRound(bob.GetID()); err != ErrNotDenner {
		t.Errorf("StartRound by non-denner: expected ErrNotDenner, got %v", err)
	}
	if err := r.EndRound(bob.GetID()); err != ErrNotDenner {
		t.Errorf("EndRound by non-denner: expected ErrNotDenner, got %v", err)
	}
	if err := r.SelectGameType("stranger", models.GameTypeFindColor); err != ErrNotInRoom {
		t.Errorf("action by unknown caller: expected ErrNotInRoom, got %v", err)
	}

	after := r.Snapshot()
	if before.GameState != after.GameState || before.CurrentRound != after.CurrentRound || before.GameType != after.GameType {
		t.Error("rejected denner-only actions must leave room state unchanged")
	}
}

// The worked scenario from the design notes: Alice creates, Bob joins, one
// findColor round is played and ended, then the session continues.
func TestRoom_FullRoundScenario(t *testing.T) {
	b := &MockBroadcaster{}
	r, alice := newTestRoom(t, b)
	bob := newTestSession("bob")
	if err := r.Join(bob, "Bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	if err := r.SelectGameType(alice.GetID(), models.GameTypeFindColor); err != nil {
		t.Fatalf("SelectGameType: %v", err)
	}
	if err := r.StartRound(alice.GetID()); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	info := r.Snapshot()
	if info.GameState != "playing" || info.CurrentRound != 1 {
		t.Fatalf("expected playing round 1, got %q round %d", info.GameState, info.CurrentRound)
	}
	if info.TargetColor == "" {
		t.Fatal("StartRound should assign a target color")
	}

	if _, err := r.SubmitScore(bob.GetID(), 72, 12000); err != nil {
		t.Fatalf("Bob SubmitScore: %v", err)
	}
	if _, err := r.SubmitScore(alice.GetID(), 85, 8000); err != nil {
		t.Fatalf("Alice SubmitScore: %v", err)
	}

	if err := r.EndRound(alice.GetID()); err != nil {
		t.Fatalf("EndRound: %v", err)
	}

	info = r.Snapshot()
	if info.GameState != "roundFinished" {
		t.Fatalf("expected roundFinished, got %q", info.GameState)
	}
	if len(info.RoundResults) != 1 {
		t.Fatalf("expected 1 round result, got %d", len(info.RoundResults))
	}
	result := info.RoundResults[0]
	if result.Round != 0 || result.GameType != models.GameTypeFindColor || result.Denner != "Alice" {
		t.Errorf("unexpected round result header: %+v", result)
	}
	if len(result.Scores) != 2 {
		t.Fatalf("round result should record both players, got %d", len(result.Scores))
	}

	sessionScores := map[string]float64{}
	for _, p := range info.Players {
		sessionScores[p.Name] = p.SessionScore
		if p.Score != 0 || p.Attempts != 0 {
			t.Errorf("player %s round score/attempts should reset after fold, got %f/%d", p.Name, p.Score, p.Attempts)
		}
		if len(p.RoundScores) != 1 {
			t.Errorf("player %s should have one round score entry, got %d", p.Name, len(p.RoundScores))
		}
	}
	if sessionScores["Alice"] != 85 || sessionScores["Bob"] != 72 {
		t.Errorf("session scores = %v, want Alice:85 Bob:72", sessionScores)
	}

	if info.Denner != bob.GetID() {
		t.Errorf("denner should rotate to Bob, got %q", info.Denner)
	}

	if err := r.ContinueSession(bob.GetID()); err != nil {
		t.Fatalf("ContinueSession by new denner: %v", err)
	}
	info = r.Snapshot()
	if info.GameState != "gameSelection" || info.CurrentRound != 1 {
		t.Errorf("expected gameSelection with currentRound=1, got %q round %d", info.GameState, info.CurrentRound)
	}
}

func TestRoom_DuplicateSubmitRejected(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})
	if err := r.SelectGameType(alice.GetID(), models.GameTypeFindColor); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRound(alice.GetID()); err != nil {
		t.Fatal(err)
	}

	if _, err := r.SubmitScore(alice.GetID(), 60, 5000); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := r.SubmitScore(alice.GetID(), 99, 6000); err != ErrAlreadySubmitted {
		t.Fatalf("second submit: expected ErrAlreadySubmitted, got %v", err)
	}

	if got := r.Snapshot().Players[0].Score; got != 60 {
		t.Errorf("first-recorded score must stand, got %f", got)
	}
}

func TestRoom_SubmitOutsidePlayingRejected(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})
	if _, err := r.SubmitScore(alice.GetID(), 50, 1000); err != ErrWrongState {
		t.Errorf("submit in lobby: expected ErrWrongState, got %v", err)
	}
}

func TestRoom_NonSubmitterGetsZeroAppended(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})
	bob := newTestSession("bob")
	if err := r.Join(bob, "Bob"); err != nil {
		t.Fatal(err)
	}
	if err := r.SelectGameType(alice.GetID(), models.GameTypeFindColor); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRound(alice.GetID()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SubmitScore(alice.GetID(), 90, 4000); err != nil {
		t.Fatal(err)
	}
	if err := r.EndRound(alice.GetID()); err != nil {
		t.Fatal(err)
	}

	for _, p := range r.Snapshot().Players {
		if p.ID == bob.GetID() {
			if len(p.RoundScores) != 1 || p.RoundScores[0] != 0 {
				t.Errorf("non-submitter should get 0 appended, got %v", p.RoundScores)
			}
		}
	}
}

func TestRoom_DennerRotatesRoundRobin(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})
	bob := newTestSession("bob")
	carol := newTestSession("carol")
	if err := r.Join(bob, "Bob"); err != nil {
		t.Fatal(err)
	}
	if err := r.Join(carol, "Carol"); err != nil {
		t.Fatal(err)
	}

	dennerCount := map[string]int{}
	denner := alice.GetID()
	for i := 0; i < 3; i++ {
		dennerCount[denner]++
		if err := r.SelectGameType(denner, models.GameTypeFindColor); err != nil {
			t.Fatalf("round %d SelectGameType: %v", i+1, err)
		}
		if err := r.StartRound(denner); err != nil {
			t.Fatalf("round %d StartRound: %v", i+1, err)
		}
		if err := r.EndRound(denner); err != nil {
			t.Fatalf("round %d EndRound: %v", i+1, err)
		}
		denner = r.Snapshot().Denner
		if i < 2 {
			if err := r.ContinueSession(denner); err != nil {
				t.Fatalf("round %d ContinueSession: %v", i+1, err)
			}
		}
	}

	for _, id := range []string{alice.GetID(), bob.GetID(), carol.GetID()} {
		if dennerCount[id] != 1 {
			t.Errorf("player %s was denner %d times over 3 rounds, want exactly once", id, dennerCount[id])
		}
	}
}

func TestRoom_MaxRoundsReached(t *testing.T) {
	alice := newTestSession("alice")
	r := NewRoom("ONE001", alice, "Alice", "", Settings{MaxPlayers: 4, MaxRounds: 1, GuessTime: 30}, &MockBroadcaster{}, mixer.NewSolver(95))

	if err := r.SelectGameType(alice.GetID(), models.GameTypeFindColor); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRound(alice.GetID()); err != nil {
		t.Fatal(err)
	}
	if err := r.EndRound(alice.GetID()); err != nil {
		t.Fatal(err)
	}

	if err := r.ContinueSession(alice.GetID()); err != ErrWrongState {
		t.Errorf("ContinueSession at maxRounds: expected ErrWrongState, got %v", err)
	}

	rows, err := r.EndSession(alice.GetID())
	if err != nil {
		t.Fatalf("EndSession should be valid at maxRounds: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected a 1-row final leaderboard, got %d", len(rows))
	}
	if r.Snapshot().GameState != "sessionFinished" {
		t.Errorf("expected sessionFinished, got %q", r.Snapshot().GameState)
	}
}

func TestRoom_LeaderboardOrderAndTieBreak(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})
	bob := newTestSession("bob")
	carol := newTestSession("carol")
	if err := r.Join(bob, "Bob"); err != nil {
		t.Fatal(err)
	}
	if err := r.Join(carol, "Carol"); err != nil {
		t.Fatal(err)
	}

	if err := r.SelectGameType(alice.GetID(), models.GameTypeFindColor); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRound(alice.GetID()); err != nil {
		t.Fatal(err)
	}
	// Alice and Bob tie; Carol wins. Join order breaks the tie.
	if _, err := r.SubmitScore(alice.GetID(), 50, 1000); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SubmitScore(bob.GetID(), 50, 1000); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SubmitScore(carol.GetID(), 80, 1000); err != nil {
		t.Fatal(err)
	}
	if err := r.EndRound(alice.GetID()); err != nil {
		t.Fatal(err)
	}

	rows, err := r.EndSession(r.Snapshot().Denner)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Carol", "Alice", "Bob"}
	for i, name := range want {
		if rows[i].Name != name {
			t.Errorf("leaderboard[%d] = %q, want %q", i, rows[i].Name, name)
		}
	}
}

func TestRoom_DennerLeaveReassigns(t *testing.T) {
	b := &MockBroadcaster{}
	r, alice := newTestRoom(t, b)
	bob := newTestSession("bob")
	if err := r.Join(bob, "Bob"); err != nil {
		t.Fatal(err)
	}

	r.Leave(alice.GetID(), false)

	info := r.Snapshot()
	if info.Denner != bob.GetID() {
		t.Errorf("denner should pass to Bob, got %q", info.Denner)
	}
	if info.HostID != bob.GetID() {
		t.Errorf("host should pass to Bob, got %q", info.HostID)
	}
	if b.lastBroadcast() != network.MsgTypeDennerChanged {
		t.Errorf("expected a dennerChanged broadcast, last msg id was %d", b.lastBroadcast())
	}
	if alice.Room() != "" {
		t.Error("leaver's session should be unbound from the room")
	}
}

func TestRoom_EmptyRoomMarkedForExpiry(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})
	r.Leave(alice.GetID(), true)

	if !r.EmptyFor(0) {
		t.Error("a room emptied by the last leave should be expirable")
	}
	if r.EmptyFor(time.Hour) {
		t.Error("grace period should hold back expiry")
	}
}

func TestRoom_SetTargetColorAndExtendTime(t *testing.T) {
	b := &MockBroadcaster{}
	r, alice := newTestRoom(t, b)

	if err := r.SetTargetColor(alice.GetID(), "#3A7BD5"); err != nil {
		t.Fatalf("SetTargetColor: %v", err)
	}
	if got := r.Snapshot().TargetColor; got != "#3a7bd5" {
		t.Errorf("target color = %q, want normalized #3a7bd5", got)
	}
	if err := r.SetTargetColor(alice.GetID(), "chartreuse-ish"); err != ErrInvalidColor {
		t.Errorf("invalid color: expected ErrInvalidColor, got %v", err)
	}

	if err := r.ExtendTime(alice.GetID(), 15); err != ErrWrongState {
		t.Errorf("ExtendTime outside playing: expected ErrWrongState, got %v", err)
	}

	if err := r.SelectGameType(alice.GetID(), models.GameTypeFindColor); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRound(alice.GetID()); err != nil {
		t.Fatal(err)
	}
	// The pinned target is used for the round.
	if got := r.Snapshot().TargetColor; got != "#3a7bd5" {
		t.Errorf("round target = %q, want pinned #3a7bd5", got)
	}

	if err := r.ExtendTime(alice.GetID(), 15); err != nil {
		t.Fatalf("ExtendTime: %v", err)
	}
	if err := r.ExtendTime(alice.GetID(), 0); err != ErrInvalidPayload {
		t.Errorf("ExtendTime(0): expected ErrInvalidPayload, got %v", err)
	}
	if got := r.Snapshot().RemainingTime; got < 40 || got > 45 {
		t.Errorf("remaining time = %d, want ~45 after extension", got)
	}
	if b.lastBroadcast() != network.MsgTypeTimeExtended {
		t.Errorf("expected a timeExtended broadcast, last msg id was %d", b.lastBroadcast())
	}
}

func TestRoom_StartRoundRequiresGameType(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})
	if err := r.StartRound(alice.GetID()); err != ErrWrongState {
		t.Errorf("StartRound from lobby without game type: expected ErrWrongState, got %v", err)
	}
}

func TestRoom_ScoreClampedToRange(t *testing.T) {
	r, alice := newTestRoom(t, &MockBroadcaster{})
	if err := r.SelectGameType(alice.GetID(), models.GameTypeFindColor); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRound(alice.GetID()); err != nil {
		t.Fatal(err)
	}

	attempt, err := r.SubmitScore(alice.GetID(), 250, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if attempt.Score != 100 {
		t.Errorf("submitted score should clamp to 100, got %f", attempt.Score)
	}
}
