package cliconfig

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Frequency is a receiver frequency in Hz. It implements pflag.Value and
// accepts SI notation such as "100M", "7.1M" or "1.5k".
type Frequency int64

var siMultipliers = map[byte]float64{
	'k': 1e3,
	'K': 1e3,
	'M': 1e6,
	'G': 1e9,
}

// ParseFrequency converts s to Hz.
func ParseFrequency(s string) (int64, error) {
	orig := s
	s = strings.TrimSuffix(strings.TrimSpace(s), "Hz")
	if s == "" {
		return 0, fmt.Errorf("empty frequency")
	}

	mult := 1.0
	if m, ok := siMultipliers[s[len(s)-1]]; ok {
		mult = m
		s = s[:len(s)-1]
	}

	mantissa, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q", orig)
	}
	hz := math.Round(mantissa * mult)
	if math.IsNaN(hz) || hz < 0 || hz >= math.MaxInt64 {
		return 0, fmt.Errorf("frequency %q out of range", orig)
	}
	return int64(hz), nil
}

// String formats the frequency as plain Hz, the form flag defaults print in.
func (f Frequency) String() string {
	return strconv.FormatInt(int64(f), 10)
}

// Set parses value with ParseFrequency. It implements pflag.Value.
func (f *Frequency) Set(value string) error {
	hz, err := ParseFrequency(value)
	if err != nil {
		return err
	}
	*f = Frequency(hz)
	return nil
}

// Type names the value in flag usage output.
func (f *Frequency) Type() string { return "frequency" }

// Hz returns the frequency as a plain integer.
func (f Frequency) Hz() int64 { return int64(f) }
