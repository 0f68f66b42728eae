package board

// A Key is a packed position. The low 18 bits hold the nine squares, two
// bits each, with square (col, row) at shift col*2 + row*6. Bit 31 holds
// the side to move when the key was produced by Position.Raw; keys from
// Position.Key leave it clear.
//
// The symmetry transforms only permute the square bits. Anything stored
// above them is carried through untouched.
type Key uint32

const (
	cellBits  = 2
	rowShift  = Dim * cellBits
	colorMask = 1<<cellBits - 1
	// CellMask covers the nine squares.
	CellMask Key = 1<<(Dim*Dim*cellBits) - 1
	turnBit  Key = 1 << 31
)

func shift(col, row int) uint {
	return uint(col*cellBits + row*rowShift)
}

func (k Key) color(col, row int) Color {
	return Color((k >> shift(col, row)) & colorMask)
}

// remap builds a new key where square (c, r) takes the color of square
// src(c, r) in k.
func (k Key) remap(src func(c, r int) (int, int)) Key {
	out := k &^ CellMask
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			sc, sr := src(col, row)
			out |= Key(k.color(sc, sr)) << shift(col, row)
		}
	}
	return out
}

// Reflect mirrors the columns: A and C swap, B stays.
func (k Key) Reflect() Key {
	return k.remap(func(c, r int) (int, int) { return Dim - 1 - c, r })
}

// Rotate90 turns the board a quarter turn. The top-left corner moves to
// the top-right, top-right to bottom-right and so on around the edge.
func (k Key) Rotate90() Key {
	return k.remap(func(c, r int) (int, int) { return r, Dim - 1 - c })
}

// Symmetries returns the images of k under the eight symmetries of the
// square, identity first:
// id, rot, rot², rot³, reflect, reflect∘rot, reflect∘rot², reflect∘rot³.
// Images are not deduplicated.
func (k Key) Symmetries() [8]Key {
	var out [8]Key
	r := k
	for i := 0; i < 4; i++ {
		out[i] = r
		out[i+4] = r.Reflect()
		r = r.Rotate90()
	}
	return out
}
