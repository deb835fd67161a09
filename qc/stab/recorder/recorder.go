// Package recorder implements the append-only measurement-bit log with
// negative-offset back-reference addressing used by DETECTOR and
// OBSERVABLE_INCLUDE annotations.
package recorder

// Recorder is an append-only sequence of measurement bits. Offset -1
// addresses the most recently pushed bit, offset -k the k-th most
// recent; non-negative offsets and offsets past the start of the
// recorder are not found.
type Recorder struct {
	bits []bool
}

// New returns an empty recorder.
func New() *Recorder { return &Recorder{} }

// Push appends a bit to the end of the record.
func (r *Recorder) Push(bit bool) { r.bits = append(r.bits, bit) }

// Len returns the number of bits pushed so far.
func (r *Recorder) Len() int { return len(r.bits) }

// Rec returns the bit at negative offset, and whether it was found.
// offset must be strictly negative; any other value (including the
// offset landing before the start of the record) reports ok == false.
func (r *Recorder) Rec(offset int) (bit bool, ok bool) {
	if offset >= 0 {
		return false, false
	}
	idx := len(r.bits) + offset
	if idx < 0 {
		return false, false
	}
	return r.bits[idx], true
}

// Bits returns the full recorded sequence in push order. The returned
// slice is owned by the caller; it does not alias internal storage.
func (r *Recorder) Bits() []bool {
	out := make([]bool, len(r.bits))
	copy(out, r.bits)
	return out
}

// Extend appends another recorder's bits, in order, to this one. Used
// when folding a sub-run's record into an enclosing stream.
func (r *Recorder) Extend(other *Recorder) {
	r.bits = append(r.bits, other.bits...)
}
