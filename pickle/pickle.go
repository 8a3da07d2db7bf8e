// Package pickle classifies hex text as a Python pickle stream. Nothing
// beyond the framing bytes is read.
package pickle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/interchange/internal/hexstr"
)

// Opcodes used for classification.
const (
	OpProto = "80" // PROTO, followed by the protocol byte
	OpMark  = "28" // MARK, "(" in protocol 0
	OpStop  = "2e" // STOP, "." ends every pickle
)

// HighestProtocol is the newest protocol a PROTO header may declare.
const HighestProtocol = 5

// Detect reports whether hex looks like a pickle. A stream starting with
// PROTO is judged by its version byte alone. Otherwise a leading MARK or a
// trailing STOP is enough.
func Detect(hex string) bool {
	cleaned := hexstr.Clean(hex)
	if len(cleaned) >= 4 && cleaned[:2] == OpProto {
		_, ok := version(cleaned)
		return ok
	}
	return strings.HasPrefix(cleaned, OpMark) || strings.HasSuffix(cleaned, OpStop)
}

// Protocol returns the protocol declared by a PROTO header.
func Protocol(hex string) (int, bool) {
	cleaned := hexstr.Clean(hex)
	if len(cleaned) < 4 || cleaned[:2] != OpProto {
		return 0, false
	}
	return version(cleaned)
}

// ProtocolName returns a display name such as "Pickle v4".
func ProtocolName(protocol int) string {
	return fmt.Sprintf("Pickle v%d", protocol)
}

func version(cleaned string) (int, bool) {
	v, err := strconv.ParseUint(cleaned[2:4], 16, 8)
	if err != nil || v > HighestProtocol {
		return 0, false
	}
	return int(v), true
}
