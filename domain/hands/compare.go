package hands

import (
	"sort"

	"github.com/lazharichir/multiboard/domain/cards"
)

// HandComparisonResult represents the result of comparing multiple hands
type HandComparisonResult struct {
	PlayerID   string
	Evaluation HandEvaluation
	IsWinner   bool
	PlaceIndex int // 0 for first place, 1 for second place, etc.
}

// CompareHands evaluates each player's cards and returns the results sorted
// by hand strength (best first). Every player tied for the best hand is a
// winner. Equal hands are ordered by player ID so the output is stable.
func CompareHands(playerCards map[string]cards.Stack) []HandComparisonResult {
	if len(playerCards) == 0 {
		return nil
	}

	results := make([]HandComparisonResult, 0, len(playerCards))
	for playerID, cardSet := range playerCards {
		results = append(results, HandComparisonResult{
			PlayerID:   playerID,
			Evaluation: BestHand(cardSet),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		c := compareHandEvaluations(results[i].Evaluation, results[j].Evaluation)
		if c != 0 {
			return c > 0
		}
		return results[i].PlayerID < results[j].PlayerID
	})

	placeIndex := 0
	for i := range results {
		if i > 0 && compareHandEvaluations(results[i].Evaluation, results[i-1].Evaluation) != 0 {
			placeIndex++
		}
		results[i].PlaceIndex = placeIndex
		results[i].IsWinner = placeIndex == 0
	}

	return results
}

// Winners returns the IDs of the players sharing first place
func Winners(results []HandComparisonResult) []string {
	var ids []string
	for _, r := range results {
		if r.IsWinner {
			ids = append(ids, r.PlayerID)
		}
	}
	return ids
}
