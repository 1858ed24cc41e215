package runtime

import (
	"container/list"
	"sort"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

type cell struct {
	pos    int
	symbol string
}

// Tape is a sparse two-way infinite tape with one head.
// Cells remember the order in which they were first written; erasing a cell
// forgets it, so writing it again appends it at the end.
type Tape struct {
	cells map[int]*list.Element
	order *list.List
	head  int
}

// NewTape seeds a tape with input, one character per cell starting at position 0.
func NewTape(input string) *Tape {
	t := &Tape{
		cells: make(map[int]*list.Element),
		order: list.New(),
	}
	pos := 0
	for _, r := range input {
		t.set(pos, string(r))
		pos++
	}
	return t
}

func (t *Tape) set(pos int, symbol string) {
	if e, ok := t.cells[pos]; ok {
		e.Value.(*cell).symbol = symbol
		return
	}
	t.cells[pos] = t.order.PushBack(&cell{pos: pos, symbol: symbol})
}

// Read returns the symbol under the head, or Blank.
func (t *Tape) Read() string {
	if e, ok := t.cells[t.head]; ok {
		return e.Value.(*cell).symbol
	}
	return domain.Blank
}

// Write applies a write directive: Wildcard keeps the cell, Blank erases it.
func (t *Tape) Write(symbol string) {
	switch symbol {
	case domain.Wildcard:
	case domain.Blank:
		if e, ok := t.cells[t.head]; ok {
			t.order.Remove(e)
			delete(t.cells, t.head)
		}
	default:
		t.set(t.head, symbol)
	}
}

// Move shifts the head one cell, or not at all for Stay.
func (t *Tape) Move(d domain.Direction) {
	switch d {
	case domain.Left:
		t.head--
	case domain.Right:
		t.head++
	}
}

// Head returns the head position.
func (t *Tape) Head() int {
	return t.head
}

// Len returns the number of written cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// String concatenates the written cells in the order they were first written.
// This is not necessarily left to right; see Sorted.
func (t *Tape) String() string {
	var sb strings.Builder
	for e := t.order.Front(); e != nil; e = e.Next() {
		sb.WriteString(e.Value.(*cell).symbol)
	}
	return sb.String()
}

// Sorted concatenates the written cells by position, left to right.
// Gaps left by erased or never-written cells are skipped.
func (t *Tape) Sorted() string {
	positions := make([]int, 0, len(t.cells))
	for pos := range t.cells {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	var sb strings.Builder
	for _, pos := range positions {
		sb.WriteString(t.cells[pos].Value.(*cell).symbol)
	}
	return sb.String()
}
