package domain

import "strconv"

// Command tokens understood by the device.
const (
	TokenStartIQ = "START_IQ"
	TokenStopIQ  = "STOP_IQ"
	TokenSetFreq = "SET_FREQ"
)

// Command is a single control line: a token and an optional integer argument.
type Command struct {
	Token string
	Arg   int64
	// HasArg distinguishes "SET_FREQ 0" from a bare token.
	HasArg bool
}

// StartIQ begins sample transmission.
func StartIQ() Command { return Command{Token: TokenStartIQ} }

// StopIQ ends sample transmission.
func StopIQ() Command { return Command{Token: TokenStopIQ} }

// SetFreq tunes the receiver. The value is sent verbatim; the device owns range checks.
func SetFreq(hz int64) Command {
	return Command{Token: TokenSetFreq, Arg: hz, HasArg: true}
}

// String returns the command text without the line terminator.
func (c Command) String() string {
	if !c.HasArg {
		return c.Token
	}
	return c.Token + " " + strconv.FormatInt(c.Arg, 10)
}

// Encode returns the wire form: the command text followed by '\n'.
func (c Command) Encode() []byte {
	return append([]byte(c.String()), '\n')
}
