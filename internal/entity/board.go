package entity

import (
	"errors"
	"fmt"
)

const (
	PlayerCross  = "cross"
	PlayerCircle = "circle"

	EmptyCell = ""
)

const BoardSize = 9

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell is already occupied")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board is a 3x3 grid stored row-major, cells 0-8.
type Board [BoardSize]string

// ApplyMove - returns a copy of the board with the mark placed on the cell.
func (that Board) ApplyMove(cell int, mark string) (Board, error) {
	if cell < 0 || cell >= len(that) {
		return that, fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that[cell] != EmptyCell {
		return that, fmt.Errorf("%w: cell %d", ErrCellOccupied, cell)
	}

	that[cell] = mark

	return that, nil
}

// HasWin - reports whether the mark holds one of the eight winning lines.
func (that Board) HasWin(mark string) bool {
	if mark == EmptyCell {
		return false
	}

	for _, combo := range WinCombos {
		if that[combo[0]] == mark && that[combo[1]] == mark && that[combo[2]] == mark {
			return true
		}
	}

	return false
}

// IsFull - reports whether no empty cell remains.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// FreeCells - returns the indexes of empty cells in ascending order.
func (that Board) FreeCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// OpponentMark - returns the mark of the other player.
func OpponentMark(mark string) string {
	if mark == PlayerCross {
		return PlayerCircle
	}

	return PlayerCross
}
