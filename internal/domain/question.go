package domain

// Question is the snapshot form embedded into a Room at creation time.
// Later edits to the source bank never reach an existing room.
type Question struct {
	Question           string   `json:"question" bson:"question"`
	Options            []string `json:"options" bson:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex" bson:"correctAnswerIndex"`
	Subject            string   `json:"subject" bson:"subject"`
}
