//go:build !statsview

package statsview

import "io"

// Launch does nothing without the statsview build tag.
func Launch(_ string, _ io.Writer) (stop func()) { return func() {} }

// Available reports whether the chart server was compiled in.
func Available() bool { return false }
