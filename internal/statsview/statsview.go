//go:build statsview

// Package statsview serves runtime charts of the desktop simulation. The
// producer, console and control goroutines all show up in the goroutine and
// GC panels, which is where a stalled capture loop is easiest to spot.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Path is where the charts are served below addr.
const Path = "/debug/statsview"

// refreshMillis is the chart sampling interval.
const refreshMillis = 500

// Launch serves the charts on addr until the returned stop is called.
func Launch(addr string, out io.Writer) (stop func()) {
	viewer.SetConfiguration(
		viewer.WithAddr(addr),
		viewer.WithInterval(refreshMillis),
	)
	mgr := statsview.New()
	go mgr.Start()

	fmt.Fprintf(out, "statsview: http://%s%s\n", addr, Path)
	return mgr.Stop
}

// Available reports whether the chart server was compiled in.
func Available() bool { return true }
