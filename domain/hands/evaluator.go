package hands

import (
	"sort"

	"github.com/lazharichir/multiboard/domain/cards"
)

// HandRank represents the category of a poker hand
type HandRank int

const (
	HighCard HandRank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	// FiveOfAKind only happens when several decks are shuffled together
	FiveOfAKind
)

var handRankNames = map[HandRank]string{
	HighCard:      "High Card",
	OnePair:       "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	FiveOfAKind:   "Five of a Kind",
}

func (r HandRank) String() string {
	if name, ok := handRankNames[r]; ok {
		return name
	}
	return "Unknown"
}

// HandEvaluation represents the evaluation of a poker hand
type HandEvaluation struct {
	Rank      HandRank    `json:"rank"`
	HandCards cards.Stack `json:"cards"`   // the cards that make up the hand, highest first
	Kickers   []int       `json:"kickers"` // tie-break values, most significant first
}

// Name is the human readable category
func (e HandEvaluation) Name() string {
	return e.Rank.String()
}

type valueGroup struct {
	value int
	count int
}

// evaluateHand ranks up to five cards. Straights and flushes need exactly five.
func evaluateHand(hand cards.Stack) HandEvaluation {
	sorted := hand.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})

	counts := make(map[int]int, len(sorted))
	for _, c := range sorted {
		counts[int(c.Value)]++
	}

	groups := make([]valueGroup, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, valueGroup{value: v, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	grouped := make([]int, len(groups))
	for i, g := range groups {
		grouped[i] = g.value
	}

	values := make([]int, len(sorted))
	for i, c := range sorted {
		values[i] = int(c.Value)
	}

	flush := isFlush(sorted)
	straightHigh := straightHighCard(groups, len(sorted))

	eval := HandEvaluation{HandCards: sorted}

	switch {
	case groups[0].count == 5:
		eval.Rank = FiveOfAKind
		eval.Kickers = grouped
	case flush && straightHigh > 0:
		eval.Rank = StraightFlush
		eval.Kickers = []int{straightHigh}
	case groups[0].count == 4:
		eval.Rank = FourOfAKind
		eval.Kickers = grouped
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2:
		eval.Rank = FullHouse
		eval.Kickers = grouped
	case flush:
		eval.Rank = Flush
		eval.Kickers = values
	case straightHigh > 0:
		eval.Rank = Straight
		eval.Kickers = []int{straightHigh}
	case groups[0].count == 3:
		eval.Rank = ThreeOfAKind
		eval.Kickers = grouped
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		eval.Rank = TwoPair
		eval.Kickers = grouped
	case groups[0].count == 2:
		eval.Rank = OnePair
		eval.Kickers = grouped
	default:
		eval.Rank = HighCard
		eval.Kickers = values
	}

	return eval
}

func isFlush(hand cards.Stack) bool {
	if len(hand) != 5 {
		return false
	}
	for _, c := range hand[1:] {
		if c.Suit != hand[0].Suit {
			return false
		}
	}
	return true
}

// straightHighCard returns the top card of a five card straight or 0. The
// wheel (A-2-3-4-5) counts as five high.
func straightHighCard(groups []valueGroup, size int) int {
	if size != 5 || len(groups) != 5 {
		return 0
	}

	high, low := groups[0].value, groups[4].value
	if high-low == 4 {
		return high
	}

	if high == int(cards.Ace) && groups[1].value == 5 && low == 2 {
		return 5
	}

	return 0
}

// compareHandEvaluations returns
// -1 if hand1 is worse than hand2
// 0 if hands are equal
// 1 if hand1 is better than hand2
func compareHandEvaluations(hand1, hand2 HandEvaluation) int {
	if hand1.Rank != hand2.Rank {
		return compareInt(int(hand1.Rank), int(hand2.Rank))
	}

	for i := 0; i < len(hand1.Kickers) || i < len(hand2.Kickers); i++ {
		var k1, k2 int
		if i < len(hand1.Kickers) {
			k1 = hand1.Kickers[i]
		}
		if i < len(hand2.Kickers) {
			k2 = hand2.Kickers[i]
		}
		if c := compareInt(k1, k2); c != 0 {
			return c
		}
	}

	return 0
}

// Compare orders two evaluations the same way showdown does
func Compare(hand1, hand2 HandEvaluation) int {
	return compareHandEvaluations(hand1, hand2)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// combinations generates all possible combinations of k elements from a set
func combinations(n, k int) [][]int {
	if k > n {
		return nil
	}

	var result [][]int
	var combine func(int, []int)

	combine = func(start int, current []int) {
		if len(current) == k {
			combo := make([]int, k)
			copy(combo, current)
			result = append(result, combo)
			return
		}

		for i := start; i < n; i++ {
			current = append(current, i)
			combine(i+1, current)
			current = current[:len(current)-1]
		}
	}

	combine(0, []int{})
	return result
}

// BestHand evaluates every five card selection of cardSet and keeps the
// strongest. Sets of five cards or fewer are evaluated whole.
func BestHand(cardSet cards.Stack) HandEvaluation {
	if len(cardSet) == 0 {
		return HandEvaluation{Rank: HighCard}
	}
	if len(cardSet) <= 5 {
		return evaluateHand(cardSet)
	}

	var best HandEvaluation
	hand := make(cards.Stack, 5)
	for i, combo := range combinations(len(cardSet), 5) {
		for j, idx := range combo {
			hand[j] = cardSet[idx]
		}
		eval := evaluateHand(hand)
		if i == 0 || compareHandEvaluations(eval, best) > 0 {
			best = eval
		}
	}

	return best
}
