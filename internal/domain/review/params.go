package review

// IntervalBand maps a score floor to a review interval. A point whose score
// falls in [MinScore, nextBand.MinScore) waits Days before its next review.
type IntervalBand struct {
	MinScore float64
	Days     int
}

// Params defines the configurable forgetting-curve shape: an ascending list
// of score bands with never-decreasing interval lengths. Low scores reinforce
// soon; near-mastered points wait much longer.
type Params struct {
	// Bands must be sorted ascending by MinScore, with the first band at 0,
	// and Days never decreasing. NewParams enforces both.
	Bands []IntervalBand
}

// NewDefaultParams creates a new Params instance with default values.
//
// The spread follows the classic Ebbinghaus staircase: 1, 2, 4, 7, 15, 30
// days. The top interval is 30x the bottom one, comfortably above the
// required 5x ratio between a fresh point and a near-mastered one.
func NewDefaultParams() *Params {
	return &Params{
		Bands: []IntervalBand{
			{MinScore: 0, Days: 1},
			{MinScore: 20, Days: 2},
			{MinScore: 40, Days: 4},
			{MinScore: 60, Days: 7},
			{MinScore: 80, Days: 15},
			{MinScore: 90, Days: 30},
		},
	}
}

// NewParams creates a Params instance from custom bands, falling back to the
// defaults when the band list is empty or not monotone.
func NewParams(bands []IntervalBand) *Params {
	if len(bands) == 0 || bands[0].MinScore != 0 {
		return NewDefaultParams()
	}

	for i := 1; i < len(bands); i++ {
		if bands[i].MinScore <= bands[i-1].MinScore || bands[i].Days < bands[i-1].Days {
			return NewDefaultParams()
		}
	}

	return &Params{Bands: bands}
}

// intervalDays returns the review interval for a score. Monotone in score by
// construction of the band list.
func (p *Params) intervalDays(score float64) int {
	days := p.Bands[0].Days
	for _, band := range p.Bands {
		if score >= band.MinScore {
			days = band.Days
		}
	}
	return days
}
