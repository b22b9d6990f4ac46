// Command mksig writes generator waveforms to WAV files for replay with the
// host simulation's -wav flag.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"voltscope/scope/gen"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func main() {
	var (
		kind    = flag.String("kind", "sqr", "sqr|sine|tri|saw.")
		freq    = flag.Float64("freq", 100, "Frequency in Hz.")
		rate    = flag.Int("rate", 50_000, "Sample rate in Hz.")
		seconds = flag.Float64("seconds", 1, "Length in seconds.")
		outPath = flag.String("out", "", "Output .wav file.")
	)
	flag.Parse()

	if *outPath == "" {
		fatalf("usage: mksig -out sig.wav [-kind sqr|sine|tri|saw] [-freq 100] [-rate 50000] [-seconds 1]")
	}
	k, ok := gen.ParseKind(*kind)
	if !ok {
		fatalf("unknown kind: %s", *kind)
	}
	n := int(math.Round(*seconds * float64(*rate)))
	if n <= 0 {
		fatalf("empty signal: %v s at %d Hz", *seconds, *rate)
	}
	samples, err := synthesize(k, *freq, *rate, n)
	if err != nil {
		fatalf("%v", err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fatalf("%v", err)
	}
	if err := writeWAV(out, samples, *rate); err != nil {
		_ = out.Close()
		fatalf("write: %v", err)
	}
	if err := out.Close(); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

type collector struct {
	vals []int
}

// WriteValue widens the 8-bit output level to signed 16-bit PCM.
func (c *collector) WriteValue(v uint8) {
	c.vals = append(c.vals, (int(v)-gen.Mid)*256)
}

// synthesize ticks a generator once per output sample.
func synthesize(k gen.Kind, freq float64, rate, n int) ([]int, error) {
	c := &collector{vals: make([]int, 0, n)}
	g, err := gen.New(c, float64(rate))
	if err != nil {
		return nil, err
	}
	if !g.SetFrequency(freq) {
		return nil, fmt.Errorf("invalid frequency %v Hz at %d Hz", freq, rate)
	}
	g.SetKind(k)
	for i := 0; i < n; i++ {
		g.Tick()
	}
	return c.vals, nil
}

func writeWAV(w io.WriteSeeker, samples []int, rate int) error {
	enc := wav.NewEncoder(w, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
