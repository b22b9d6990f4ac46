// Package command implements the line-oriented text protocol that
// reconfigures the instrument at run time.
package command

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"voltscope/scope/capture"
	"voltscope/scope/config"
	"voltscope/scope/gen"
	"voltscope/scope/trigger"
)

// Accepted argument ranges.
const (
	MinFrequency = 20.0
	MaxFrequency = 650.0

	MinRateKSPS = 10.0
	MaxRateKSPS = 150.0

	MaxLevelVolts = capture.FullScaleVolts
)

var errUsage = errors.New("missing argument")

// Interpreter applies commands to the shared settings and writes replies to
// out. Rejected commands leave the settings untouched and produce no reply
// beyond the status line.
type Interpreter struct {
	s   *config.Settings
	out io.Writer
	reg *registry
	lb  LineBuffer

	rejected uint32
}

func New(s *config.Settings, out io.Writer) (*Interpreter, error) {
	if s == nil {
		return nil, errors.New("command: nil settings")
	}
	if out == nil {
		out = io.Discard
	}
	in := &Interpreter{s: s, out: out, reg: newRegistry()}
	if err := registerBuiltins(in.reg); err != nil {
		return nil, err
	}
	return in, nil
}

func registerBuiltins(r *registry) error {
	for _, cmd := range []command{
		{Name: "gen", Usage: "gen sqr|sine|tri|saw", Desc: "Select the generator waveform.", Run: cmdGen},
		{Name: "genf", Usage: "genf <hz>", Desc: "Set the generator frequency (20-650 Hz).", Run: cmdGenFreq},
		{Name: "samp", Usage: "samp <ksps>", Desc: "Set the capture rate (10-150 ksps).", Run: cmdSampleRate},
		{Name: "trig", Usage: "trig on|off|auto", Desc: "Set the trigger mode.", Run: cmdTrigger},
		{Name: "triglev", Usage: "triglev <volts>", Desc: "Set the trigger level (0-3.3 V).", Run: cmdTriggerLevel},
		{Name: "color", Usage: "color " + strings.Join(config.ColorNames(), "|"), Desc: "Set the trace color.", Run: cmdColor},
		{Name: "stats", Usage: "stats", Desc: "Toggle the min/max/peak-peak overlay.", Run: cmdStats},
		{Name: "status", Usage: "status", Desc: "Print the current settings.", Run: cmdStatus},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Desc: "List commands.", Run: cmdHelp},
	} {
		if err := r.register(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Write feeds raw serial bytes. Each complete line is executed followed by a
// status line. It never fails.
func (in *Interpreter) Write(p []byte) (int, error) {
	for _, b := range p {
		line, ok := in.lb.Feed(b)
		if !ok {
			continue
		}
		if err := in.Exec(line); err != nil {
			in.rejected++
		}
		in.printStatus()
	}
	return len(p), nil
}

// Exec runs one line and reports why it was rejected, if it was.
func (in *Interpreter) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := in.reg.resolve(fields[0])
	if !ok {
		return fmt.Errorf("command: unknown %q", fields[0])
	}
	if err := cmd.Run(in, fields[1:]); err != nil {
		return fmt.Errorf("command: %s: %w", cmd.Name, err)
	}
	return nil
}

// Rejected counts lines that changed nothing because they were invalid.
func (in *Interpreter) Rejected() uint32 { return in.rejected }

// Status formats the current settings on one line.
func (in *Interpreter) Status() string {
	stats := "off"
	if in.s.Stats() {
		stats = "on"
	}
	return fmt.Sprintf("gen=%s f=%.1fHz samp=%.1fksps trig=%s lev=%.2fV color=%s stats=%s",
		in.s.Wave(), in.s.Frequency(), float64(in.s.SampleRate())/1000,
		in.s.TriggerMode(), in.s.TriggerLevel().Volts(), in.s.Color(), stats)
}

func (in *Interpreter) printStatus() {
	in.println(in.Status())
}

func (in *Interpreter) println(s string) {
	_, _ = io.WriteString(in.out, s+"\r\n")
}

func oneArg(args []string) (string, error) {
	if len(args) < 1 {
		return "", errUsage
	}
	return args[0], nil
}

// parseRange rejects NaN along with anything outside lo..hi.
func parseRange(args []string, lo, hi float64) (float64, error) {
	arg, err := oneArg(args)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, err
	}
	if !(v >= lo && v <= hi) {
		return 0, fmt.Errorf("%v out of range %v-%v", v, lo, hi)
	}
	return v, nil
}

func cmdGen(in *Interpreter, args []string) error {
	arg, err := oneArg(args)
	if err != nil {
		return err
	}
	k, ok := gen.ParseKind(arg)
	if !ok {
		return fmt.Errorf("unknown waveform %q", arg)
	}
	in.s.SetWave(k)
	return nil
}

func cmdGenFreq(in *Interpreter, args []string) error {
	f, err := parseRange(args, MinFrequency, MaxFrequency)
	if err != nil {
		return err
	}
	in.s.SetFrequency(f)
	return nil
}

func cmdSampleRate(in *Interpreter, args []string) error {
	k, err := parseRange(args, MinRateKSPS, MaxRateKSPS)
	if err != nil {
		return err
	}
	in.s.SetSampleRate(uint32(math.Round(k * 1000)))
	return nil
}

func cmdTrigger(in *Interpreter, args []string) error {
	arg, err := oneArg(args)
	if err != nil {
		return err
	}
	m, ok := trigger.ParseMode(arg)
	if !ok {
		return fmt.Errorf("unknown mode %q", arg)
	}
	in.s.SetTriggerMode(m)
	return nil
}

func cmdTriggerLevel(in *Interpreter, args []string) error {
	v, err := parseRange(args, 0, MaxLevelVolts)
	if err != nil {
		return err
	}
	in.s.SetTriggerLevel(capture.FromVolts(v))
	return nil
}

func cmdColor(in *Interpreter, args []string) error {
	arg, err := oneArg(args)
	if err != nil {
		return err
	}
	c, ok := config.ParseColor(arg)
	if !ok {
		return fmt.Errorf("unknown color %q", arg)
	}
	in.s.SetColor(c)
	return nil
}

func cmdStats(in *Interpreter, _ []string) error {
	in.s.ToggleStats()
	return nil
}

// The status line follows every command, so status itself has nothing to add.
func cmdStatus(*Interpreter, []string) error { return nil }

func cmdHelp(in *Interpreter, _ []string) error {
	for _, name := range in.reg.names() {
		cmd, ok := in.reg.resolve(name)
		if !ok {
			continue
		}
		in.println(fmt.Sprintf("%-22s %s", cmd.Usage, cmd.Desc))
	}
	return nil
}
