package advisor

import (
	"math/rand"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"
)

// NoMove is returned when the board has no empty cell left.
const NoMove = -1

var (
	cornerCells = []int{0, 2, 6, 8}
	edgeCells   = []int{1, 3, 5, 7}
)

// Heuristic picks moves by a fixed priority ladder: win, block, center,
// corner, edge, first free cell. Corner and edge ties are broken by the
// injected randomness source so tests can pin the choice.
type Heuristic struct {
	intn func(n int) int
}

func NewHeuristic(intn func(n int) int) *Heuristic {
	if intn == nil {
		intn = rand.Intn //nolint: gosec // game move tie-break, not crypto
	}

	return &Heuristic{intn: intn}
}

// SuggestMove - returns the best cell for the mark, or NoMove on a full board.
func (that *Heuristic) SuggestMove(board entity.Board, mark string) int {
	freeCells := board.FreeCells()
	if len(freeCells) == 0 {
		return NoMove
	}

	opponent := entity.OpponentMark(mark)

	// win now if a single move closes a line
	for _, cell := range freeCells {
		if next, err := board.ApplyMove(cell, mark); err == nil && next.HasWin(mark) {
			return cell
		}
	}

	// block the opponent's next-turn win
	for _, cell := range freeCells {
		if next, err := board.ApplyMove(cell, opponent); err == nil && next.HasWin(opponent) {
			return cell
		}
	}

	if board[4] == entity.EmptyCell {
		return 4
	}

	if cell, ok := that.pickRandom(board, cornerCells); ok {
		return cell
	}

	if cell, ok := that.pickRandom(board, edgeCells); ok {
		return cell
	}

	return freeCells[0]
}

func (that *Heuristic) pickRandom(board entity.Board, candidates []int) (int, bool) {
	available := make([]int, 0, len(candidates))
	for _, cell := range candidates {
		if board[cell] == entity.EmptyCell {
			available = append(available, cell)
		}
	}

	if len(available) == 0 {
		return 0, false
	}

	return available[that.intn(len(available))], true
}
