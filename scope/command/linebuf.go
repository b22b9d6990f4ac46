package command

// MaxLine is the longest accepted command line. Bytes past it on the same
// line are dropped.
const MaxLine = 48

// LineBuffer assembles CR or LF terminated lines from a byte stream.
type LineBuffer struct {
	buf     [MaxLine]byte
	n       int
	dropped int
}

// Feed appends b. It returns a complete line when b terminates a non-empty
// one.
func (l *LineBuffer) Feed(b byte) (string, bool) {
	switch b {
	case '\r', '\n':
		line := string(l.buf[:l.n])
		l.n = 0
		if isBlank(line) {
			return "", false
		}
		return line, true
	}
	if l.n == len(l.buf) {
		l.dropped++
		return "", false
	}
	l.buf[l.n] = b
	l.n++
	return "", false
}

// Dropped counts bytes discarded from overlong lines.
func (l *LineBuffer) Dropped() int { return l.dropped }

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}
