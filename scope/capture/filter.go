package capture

const codeMask = 0x0FFF

// HeldValue masks raw converter words to the coded range and replaces each
// zero code, which the converter emits on glitches, with the last non-zero
// code seen. The held code survives across blocks; before any non-zero code
// arrives it is MidScale.
type HeldValue struct {
	last Sample
}

// NewHeldValue returns a filter holding MidScale.
func NewHeldValue() *HeldValue {
	return &HeldValue{last: MidScale}
}

// Apply filters raw into dst. len(dst) must be at least len(raw).
func (f *HeldValue) Apply(dst []Sample, raw []uint16) {
	last := f.last
	for i, r := range raw {
		v := Sample(r & codeMask)
		if v == 0 {
			v = last
		} else {
			last = v
		}
		dst[i] = v
	}
	f.last = last
}

// Held returns the code that would replace a zero right now.
func (f *HeldValue) Held() Sample { return f.last }
