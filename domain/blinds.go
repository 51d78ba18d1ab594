package domain

// BlindSchedule describes the forced bets and how they escalate. With
// HandsPerLevel at 0 the blinds never change.
type BlindSchedule struct {
	SmallBlind    int `json:"smallBlind"`
	BigBlind      int `json:"bigBlind"`
	HandsPerLevel int `json:"handsPerLevel"`
	Multiplier    int `json:"multiplier"`
}

func DefaultBlindSchedule() BlindSchedule {
	return BlindSchedule{
		SmallBlind: 10,
		BigBlind:   20,
		Multiplier: 2,
	}
}

// blindLevel is the part of the schedule that persists across hands
type blindLevel struct {
	SmallBlind               int
	BigBlind                 int
	HandsPlayedSinceIncrease int
}

func newBlindLevel(s BlindSchedule) blindLevel {
	return blindLevel{SmallBlind: s.SmallBlind, BigBlind: s.BigBlind}
}

// escalate raises the blinds when a level has been completed and reports
// whether it did.
func (l *blindLevel) escalate(s BlindSchedule) bool {
	if s.HandsPerLevel <= 0 || l.HandsPlayedSinceIncrease < s.HandsPerLevel {
		return false
	}

	multiplier := s.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	l.SmallBlind *= multiplier
	l.BigBlind *= multiplier
	l.HandsPlayedSinceIncrease = 0
	return true
}
