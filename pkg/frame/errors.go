package frame

import "fmt"

// Malformed reports a frame whose bytes are inconsistent with a payload's
// fixed schema (§7): a declared length overruns the buffer, a terminator is
// missing, or an enum field can't even be read as raw bytes.
type Malformed struct {
	Context string
	Offset  int
	Reason  string
}

func (e *Malformed) Error() string {
	return fmt.Sprintf("frame: malformed %s at offset %d: %s", e.Context, e.Offset, e.Reason)
}

// wrapCursor adapts a wire.CursorError (or any other decode error) into a
// Malformed, preserving the byte offset it failed at.
func wrapCursor(context string, offset int, err error) error {
	return &Malformed{Context: context, Offset: offset, Reason: err.Error()}
}
