package domain

import "time"

// Status is the room lifecycle state. Transitions only move forward:
// WAITING -> ACTIVE -> FINISHED.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
)

// Mode determines the room capacity and whether teams are assigned.
type Mode string

const (
	Mode1v1 Mode = "1v1"
	Mode2v2 Mode = "2v2"
	ModeFFA Mode = "FFA"
)

// Capacity returns the maximum player count for the mode, 0 for unknown modes.
func (m Mode) Capacity() int {
	switch m {
	case Mode1v1:
		return 2
	case Mode2v2:
		return 4
	case ModeFFA:
		return 5
	}
	return 0
}

// Teamed reports whether the mode assigns players to teams.
func (m Mode) Teamed() bool {
	return m == Mode2v2
}

// Team identifies a player's side in teamed modes.
type Team string

const (
	TeamA    Team = "A"
	TeamB    Team = "B"
	TeamNone Team = "NONE"
)

// BattleConfig is fixed at room creation and never mutated afterwards.
type BattleConfig struct {
	Subject         string `json:"subject" bson:"subject"`
	Mode            Mode   `json:"mode" bson:"mode"`
	QuestionCount   int    `json:"questionCount" bson:"questionCount"`
	TimePerQuestion int    `json:"timePerQuestion" bson:"timePerQuestion"` // seconds, advisory
}

// TopicStat accumulates per-subject correctness for a player. Keys in the
// owning map are created lazily on the first answer touching that subject.
type TopicStat struct {
	Correct int `json:"correct" bson:"correct"`
	Total   int `json:"total" bson:"total"`
}

// Player is embedded in a Room. Score and TotalTime are pure accumulators;
// TotalTime breaks ties in final standings (lower is better).
type Player struct {
	UID       string               `json:"uid" bson:"uid"`
	Name      string               `json:"name" bson:"name"`
	Avatar    string               `json:"avatar" bson:"avatar"`
	College   string               `json:"college" bson:"college"`
	Score     int                  `json:"score" bson:"score"`
	TotalTime float64              `json:"totalTime" bson:"totalTime"`
	Team      Team                 `json:"team" bson:"team"`
	Stats     map[string]TopicStat `json:"stats,omitempty" bson:"stats,omitempty"`
}

// Answer is one entry in the append-only ledger. IsCorrect is computed once
// at submission time from the snapshot question and never recomputed.
type Answer struct {
	UserID         string    `json:"userId" bson:"userId"`
	QuestionIndex  int       `json:"questionIndex" bson:"questionIndex"`
	SelectedOption int       `json:"selectedOption" bson:"selectedOption"`
	IsCorrect      bool      `json:"isCorrect" bson:"isCorrect"`
	TimeTaken      float64   `json:"timeTaken" bson:"timeTaken"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
}

// Room is the aggregate root of a battle session. Questions are snapshotted
// at creation so every player sees identical content and order.
type Room struct {
	RoomID               string       `json:"roomId" bson:"_id"`
	HostID               string       `json:"hostId" bson:"hostId"`
	Status               Status       `json:"status" bson:"status"`
	Config               BattleConfig `json:"config" bson:"config"`
	Questions            []Question   `json:"questions" bson:"questions"`
	CurrentQuestionIndex int          `json:"currentQuestionIndex" bson:"currentQuestionIndex"`
	StartTime            time.Time    `json:"startTime" bson:"startTime"`
	Players              []Player     `json:"players" bson:"players"`
	Answers              []Answer     `json:"answers" bson:"answers"`
	CreatedAt            time.Time    `json:"createdAt" bson:"createdAt"`
}

// FindPlayer returns a pointer into Players for uid, or nil.
func (r *Room) FindPlayer(uid string) *Player {
	for i := range r.Players {
		if r.Players[i].UID == uid {
			return &r.Players[i]
		}
	}
	return nil
}

// HasAnswer reports whether the ledger already holds an answer for the
// (uid, questionIndex) pair.
func (r *Room) HasAnswer(uid string, questionIndex int) bool {
	for i := range r.Answers {
		if r.Answers[i].UserID == uid && r.Answers[i].QuestionIndex == questionIndex {
			return true
		}
	}
	return false
}

// AnsweredCount counts ledger entries for one question index.
func (r *Room) AnsweredCount(questionIndex int) int {
	n := 0
	for i := range r.Answers {
		if r.Answers[i].QuestionIndex == questionIndex {
			n++
		}
	}
	return n
}

// TeamCounts returns the current sizes of team A and team B.
func (r *Room) TeamCounts() (a, b int) {
	for i := range r.Players {
		switch r.Players[i].Team {
		case TeamA:
			a++
		case TeamB:
			b++
		}
	}
	return a, b
}

// Clone returns a deep copy safe to hand outside the aggregate lock.
func (r *Room) Clone() Room {
	out := *r
	out.Questions = append([]Question(nil), r.Questions...)
	out.Answers = append([]Answer(nil), r.Answers...)
	out.Players = make([]Player, len(r.Players))
	for i := range r.Players {
		out.Players[i] = r.Players[i]
		if r.Players[i].Stats != nil {
			stats := make(map[string]TopicStat, len(r.Players[i].Stats))
			for k, v := range r.Players[i].Stats {
				stats[k] = v
			}
			out.Players[i].Stats = stats
		}
	}
	return out
}
