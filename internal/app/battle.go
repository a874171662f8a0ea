package app

import (
	"sort"
	"sync"
	"time"

	"exam-battle-service/internal/domain"
)

const pointsPerCorrect = 10

// Battle wraps one room as an in-process aggregate. Every mutation is a
// read-modify-write under the battle mutex, so the duplicate-answer check,
// capacity check and team-balance read are atomic with their writes. Rooms
// never share a lock, so contention on one room cannot block another.
type Battle struct {
	mu   sync.Mutex
	now  func() time.Time
	room domain.Room
}

// NewBattle is exported for registries that rebuild aggregates from storage.
func NewBattle(room domain.Room) *Battle {
	return newBattleWithClock(room, time.Now)
}

// NewBattleWithClock is test-only for deterministic timestamps.
func NewBattleWithClock(room domain.Room, now func() time.Time) *Battle {
	return newBattleWithClock(room, now)
}

func newBattleWithClock(room domain.Room, now func() time.Time) *Battle {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now()
	}
	return &Battle{now: now, room: room}
}

// RoomID is stable for the battle's lifetime and safe to read without the lock.
func (b *Battle) RoomID() string {
	return b.room.RoomID
}

// PlayerProfile carries the caller-supplied identity for a joining player.
type PlayerProfile struct {
	UID     string
	Name    string
	Avatar  string
	College string
}

// Join adds a player during WAITING. Re-joining with a known uid is a no-op
// success so clients can safely retry. In 2v2 the player lands on the team
// with fewer members, ties going to team A.
func (b *Battle) Join(p PlayerProfile) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := &b.room
	if r.FindPlayer(p.UID) != nil {
		return nil
	}
	if r.Status != domain.StatusWaiting {
		return domain.ErrInvalidState
	}
	if len(r.Players) >= r.Config.Mode.Capacity() {
		return domain.ErrRoomFull
	}

	team := domain.TeamNone
	if r.Config.Mode.Teamed() {
		team = domain.TeamA
		if a, bc := r.TeamCounts(); bc < a {
			team = domain.TeamB
		}
	}

	r.Players = append(r.Players, domain.Player{
		UID:     p.UID,
		Name:    p.Name,
		Avatar:  p.Avatar,
		College: p.College,
		Team:    team,
	})
	return nil
}

// Start transitions WAITING -> ACTIVE and arms the first question's timer.
// Only the host may start; a second start is rejected rather than re-armed.
func (b *Battle) Start(callerID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := &b.room
	if callerID != r.HostID {
		return domain.ErrForbidden
	}
	if r.Status != domain.StatusWaiting {
		return domain.ErrInvalidState
	}

	r.Status = domain.StatusActive
	r.CurrentQuestionIndex = 0
	r.StartTime = b.now()
	return nil
}

// SubmitAnswer records one answer per (player, question) pair, scores it
// against the snapshot question and updates the player's accumulators.
// The per-question time limit is advisory; late answers are not rejected.
func (b *Battle) SubmitAnswer(uid string, questionIndex, selectedOption int, timeTaken float64) (domain.Answer, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := &b.room
	if r.Status != domain.StatusActive {
		return domain.Answer{}, 0, domain.ErrInvalidState
	}
	if questionIndex < 0 || questionIndex >= len(r.Questions) {
		return domain.Answer{}, 0, domain.ErrInvalidIndex
	}
	p := r.FindPlayer(uid)
	if p == nil {
		return domain.Answer{}, 0, domain.ErrPlayerNotFound
	}
	if r.HasAnswer(uid, questionIndex) {
		return domain.Answer{}, 0, domain.ErrDuplicateAnswer
	}

	q := r.Questions[questionIndex]
	answer := domain.Answer{
		UserID:         uid,
		QuestionIndex:  questionIndex,
		SelectedOption: selectedOption,
		IsCorrect:      selectedOption == q.CorrectAnswerIndex,
		TimeTaken:      timeTaken,
		Timestamp:      b.now(),
	}
	r.Answers = append(r.Answers, answer)

	if answer.IsCorrect {
		p.Score += pointsPerCorrect
	}
	p.TotalTime += timeTaken

	if p.Stats == nil {
		p.Stats = make(map[string]domain.TopicStat)
	}
	st := p.Stats[q.Subject]
	st.Total++
	if answer.IsCorrect {
		st.Correct++
	}
	p.Stats[q.Subject] = st

	return answer, p.Score, nil
}

// Advance moves the question cursor forward and restarts the per-question
// timer, or finishes the room once the snapshot is exhausted. The cursor
// never moves backwards and FINISHED is terminal.
func (b *Battle) Advance(nextIndex int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := &b.room
	if r.Status != domain.StatusActive {
		return domain.ErrInvalidState
	}
	if nextIndex < r.CurrentQuestionIndex {
		return domain.ErrInvalidIndex
	}
	if nextIndex >= len(r.Questions) {
		r.Status = domain.StatusFinished
		return nil
	}

	r.CurrentQuestionIndex = nextIndex
	r.StartTime = b.now()
	return nil
}

// RoomState is the poll payload: the full room plus derived readiness fields
// clients use to decide when to call advance.
type RoomState struct {
	domain.Room
	AnsweredCurrent int  `json:"answeredCurrent"`
	AllAnswered     bool `json:"allAnswered"`
}

// Snapshot returns a deep copy; a fresh snapshot after any mutation observes
// that mutation.
func (b *Battle) Snapshot() RoomState {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.room.Clone()
	answered := room.AnsweredCount(room.CurrentQuestionIndex)
	return RoomState{
		Room:            room,
		AnsweredCurrent: answered,
		AllAnswered:     len(room.Players) > 0 && answered >= len(room.Players),
	}
}

// Room returns a deep copy of the bare room, the form registries persist.
func (b *Battle) Room() domain.Room {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.room.Clone()
}

// StandingEntry is one row of the ranked scoreboard.
type StandingEntry struct {
	Rank      int         `json:"rank"`
	UID       string      `json:"uid"`
	Name      string      `json:"name"`
	College   string      `json:"college"`
	Team      domain.Team `json:"team"`
	Score     int         `json:"score"`
	TotalTime float64     `json:"totalTime"`
}

// Standings ranks players by score descending, then cumulative answer time
// ascending, then name. A convenience view; clients may rank themselves
// from the raw snapshot instead.
func (b *Battle) Standings() []StandingEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := make([]StandingEntry, 0, len(b.room.Players))
	for i := range b.room.Players {
		p := &b.room.Players[i]
		entries = append(entries, StandingEntry{
			UID:       p.UID,
			Name:      p.Name,
			College:   p.College,
			Team:      p.Team,
			Score:     p.Score,
			TotalTime: p.TotalTime,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].TotalTime != entries[j].TotalTime {
			return entries[i].TotalTime < entries[j].TotalTime
		}
		return entries[i].Name < entries[j].Name
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
