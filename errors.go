// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import (
	"github.com/pkg/errors"
)

// Kind classifies why the driver invoked its error handler.
type Kind uint8

const (
	// InvalidId means the decoder's Allocate hook rejected or failed to
	// recognize a packet id. The stream position is ambiguous afterwards,
	// so the driver always resets before resuming at the next id boundary.
	InvalidId Kind = iota + 1

	// Overflow means a varint exceeded its maximum byte count, or a length
	// prefix exceeded a caller-supplied ceiling.
	Overflow

	// Rejected classifies a packet refused by a pipeline hook. The
	// DecoderHandler/EncoderHandler callbacks return no value, so neither
	// Decoder nor Encoder raises this kind.
	Rejected

	// Timeout means the channel's configured timeout elapsed.
	Timeout

	// ProtocolError means generated reader/writer code detected a schema
	// violation (e.g. an array dimension that does not match its declared
	// bound).
	ProtocolError

	// InternalError means an invariant the driver itself relies on did not
	// hold (e.g. a slot was released while still referenced).
	InternalError
)

func (k Kind) String() string {
	switch k {
	case InvalidId:
		return "InvalidId"
	case Overflow:
		return "Overflow"
	case Rejected:
		return "Rejected"
	case Timeout:
		return "Timeout"
	case ProtocolError:
		return "ProtocolError"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// DriverError carries a Kind plus the underlying cause. Decoder and Encoder
// wrap every call into their ErrorHandler hook with one of these.
type DriverError struct {
	Kind Kind
	// PacketId is the id of the packet being processed when the error was
	// raised; for InvalidId it is the unrecognized id read from the stream.
	PacketId uint64
	cause    error
}

func (e *DriverError) Error() string {
	if e.cause == nil {
		return "adhoc: " + e.Kind.String()
	}
	return "adhoc: " + e.Kind.String() + ": " + e.cause.Error()
}

func (e *DriverError) Unwrap() error { return e.cause }

func newDriverError(kind Kind, packetId uint64, cause error) *DriverError {
	return &DriverError{Kind: kind, PacketId: packetId, cause: errors.WithStack(cause)}
}

var (
	// ErrUnknownPacketId is the default cause wrapped for InvalidId when the
	// caller's Allocate hook returns a nil reader without its own error.
	ErrUnknownPacketId = errors.New("adhoc: unknown packet id")

	// ErrOverflow is the default cause wrapped for Overflow.
	ErrOverflow = errors.New("adhoc: value exceeds its encoding's maximum width")

	// ErrStringTooLong is wrapped for Overflow when a decoded string exceeds
	// the caller-supplied max character count.
	ErrStringTooLong = errors.New("adhoc: string exceeds max character count")

	// ErrInvalidArgument denotes an invalid configuration. NewDecoder,
	// NewEncoder and NewChannel do not validate their arguments and never
	// return it.
	ErrInvalidArgument = errors.New("adhoc: invalid argument")

	// ErrClosed is returned by channel operations once Close/Abort has run.
	ErrClosed = errors.New("adhoc: channel closed")
)

// ErrorHandler is invoked by a Decoder or Encoder whenever it cannot make
// forward progress on the current packet for a reason other than running
// out of input/output bytes. The default handler panics; callers that want
// graceful degradation must set one explicitly.
type ErrorHandler func(err *DriverError)

func defaultErrorHandler(err *DriverError) {
	panic(err)
}
