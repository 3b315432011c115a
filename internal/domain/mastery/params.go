package mastery

// Params defines all configurable parameters for the mastery score update rule.
type Params struct {
	// CorrectGain is the fraction of the remaining distance to 100 gained on
	// a correct answer. 0 < CorrectGain <= 1.
	CorrectGain float64

	// IncorrectRetention is the fraction of the current score kept on an
	// incorrect answer. 0 <= IncorrectRetention < 1.
	IncorrectRetention float64

	// MasteryStreak is how many consecutive correct answers (with no
	// incorrect in between) it takes to flag a point as mastered.
	MasteryStreak int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	CorrectGain        float64
	IncorrectRetention float64
	MasteryStreak      int
}

// NewDefaultParams creates a new Params instance with default values.
//
// The defaults give a score trajectory consistent with the status thresholds:
// three straight correct answers from zero land at 65.7 (review band), five at
// 83.2 (mastered band), and a single incorrect answer from 80 drops to 56
// (back into the weak band).
func NewDefaultParams() *Params {
	return &Params{
		CorrectGain:        0.30,
		IncorrectRetention: 0.70,
		MasteryStreak:      3,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.CorrectGain > 0 && config.CorrectGain <= 1 {
		params.CorrectGain = config.CorrectGain
	}
	if config.IncorrectRetention > 0 && config.IncorrectRetention < 1 {
		params.IncorrectRetention = config.IncorrectRetention
	}
	if config.MasteryStreak > 0 {
		params.MasteryStreak = config.MasteryStreak
	}

	return params
}
