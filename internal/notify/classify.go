package notify

import "blockday/internal/model"

// Contiguous reports whether a flows directly into b: a's end exactly
// equals b's start. Exact equality is deliberate; schedules are built
// from whole-minute boundaries, so "close enough" tolerance is not
// needed and would hide real gaps.
func Contiguous(a, b model.TimeBlock) bool {
	return a.End.Equal(b.Start)
}
