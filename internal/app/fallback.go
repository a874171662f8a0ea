package app

import "exam-battle-service/internal/domain"

// FallbackPool returns a copy of the built-in question pool used when the
// bank cannot serve a full sample. Kept deliberately small; rooms asking for
// more questions than the pool holds get a short list.
func FallbackPool() []domain.Question {
	return append([]domain.Question(nil), fallbackPool...)
}

var fallbackPool = []domain.Question{
	{
		Question:           "What is the SI unit of force?",
		Options:            []string{"Joule", "Newton", "Pascal", "Watt"},
		CorrectAnswerIndex: 1,
		Subject:            "Physics",
	},
	{
		Question:           "A body moving with constant velocity has:",
		Options:            []string{"Zero acceleration", "Constant acceleration", "Increasing acceleration", "Variable acceleration"},
		CorrectAnswerIndex: 0,
		Subject:            "Physics",
	},
	{
		Question:           "What is the atomic number of carbon?",
		Options:            []string{"4", "6", "8", "12"},
		CorrectAnswerIndex: 1,
		Subject:            "Chemistry",
	},
	{
		Question:           "Which gas is produced when zinc reacts with dilute hydrochloric acid?",
		Options:            []string{"Oxygen", "Chlorine", "Hydrogen", "Carbon dioxide"},
		CorrectAnswerIndex: 2,
		Subject:            "Chemistry",
	},
	{
		Question:           "What is the derivative of sin(x)?",
		Options:            []string{"cos(x)", "-cos(x)", "tan(x)", "-sin(x)"},
		CorrectAnswerIndex: 0,
		Subject:            "Math",
	},
	{
		Question:           "The value of log10(1000) is:",
		Options:            []string{"2", "3", "10", "100"},
		CorrectAnswerIndex: 1,
		Subject:            "Math",
	},
	{
		Question:           "Which organelle is known as the powerhouse of the cell?",
		Options:            []string{"Nucleus", "Ribosome", "Mitochondrion", "Golgi body"},
		CorrectAnswerIndex: 2,
		Subject:            "Biology",
	},
	{
		Question:           "Blood is pumped from the heart's left ventricle into the:",
		Options:            []string{"Pulmonary artery", "Aorta", "Vena cava", "Pulmonary vein"},
		CorrectAnswerIndex: 1,
		Subject:            "Biology",
	},
	{
		Question:           "Choose the correctly spelt word:",
		Options:            []string{"Occassion", "Ocassion", "Occasion", "Occasionn"},
		CorrectAnswerIndex: 2,
		Subject:            "English",
	},
	{
		Question:           "Which planet is closest to the sun?",
		Options:            []string{"Venus", "Earth", "Mercury", "Mars"},
		CorrectAnswerIndex: 2,
		Subject:            "General Knowledge",
	},
}
