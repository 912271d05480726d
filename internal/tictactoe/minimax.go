package tictactoe

import "math"

// Minimax returns the optimal action for the side to move, assuming the
// opponent also plays optimally. X maximizes the utility, O minimizes it.
// The second result is false when the board is terminal and there is no move.
//
// Among equally good actions the first one in row-major order is returned.
func Minimax(board Board) (Action, bool) {
	if Terminal(board) {
		return Action{}, false
	}

	maximizing := Player(board) == MarkX

	// a forced win can't be improved upon
	target := -1
	bestScore := math.MaxInt
	if maximizing {
		target = 1
		bestScore = math.MinInt
	}

	var best Action
	for _, action := range Actions(board) {
		child, err := Result(board, action)
		if err != nil {
			// Actions only yields empty cells
			panic(err)
		}

		score := evaluate(child, !maximizing)
		if score == target {
			return action, true
		}

		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			best, bestScore = action, score
		}
	}

	return best, true
}

// evaluate scores the board by searching it down to every terminal state.
func evaluate(board Board, maximizing bool) int {
	if Terminal(board) {
		return Utility(board)
	}

	score := math.MaxInt
	if maximizing {
		score = math.MinInt
	}

	for _, action := range Actions(board) {
		child, err := Result(board, action)
		if err != nil {
			panic(err)
		}

		childScore := evaluate(child, !maximizing)
		if maximizing {
			score = max(score, childScore)
		} else {
			score = min(score, childScore)
		}
	}

	return score
}
