// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adhoc

import (
	"runtime"
	"time"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock and ErrMore are re-exported from code.hybscloud.com/iox:
// the same non-blocking control-flow signals a ByteSource/ByteSink may
// return from Read/Write to mean "no progress right now, try again" and
// "partial progress, the caller's buffer was the limiting factor",
// respectively.
var (
	ErrWouldBlock = iox.ErrWouldBlock
	ErrMore       = iox.ErrMore
)

// ByteSource is the read half of the wiring plane: anything a Channel can
// pull raw bytes from. Any io.Reader, including a net.Conn, satisfies it.
type ByteSource interface {
	Read(p []byte) (int, error)
}

// ByteSink is the write half of the wiring plane. Any io.Writer satisfies
// it.
type ByteSink interface {
	Write(p []byte) (int, error)
}

// ExternalEventKind classifies a Channel lifecycle notification.
type ExternalEventKind uint8

const (
	Connected ExternalEventKind = iota + 1
	RemoteDisconnected
	LocalDisconnected
	TimedOut
	ExternalProtocolError
	ExternalInternalError
)

func (k ExternalEventKind) String() string {
	switch k {
	case Connected:
		return "Connected"
	case RemoteDisconnected:
		return "RemoteDisconnected"
	case LocalDisconnected:
		return "LocalDisconnected"
	case TimedOut:
		return "TimedOut"
	case ExternalProtocolError:
		return "ExternalProtocolError"
	case ExternalInternalError:
		return "ExternalInternalError"
	default:
		return "Unknown"
	}
}

// ExternalEventHandler receives Channel lifecycle notifications.
type ExternalEventHandler func(kind ExternalEventKind, cause error)

func defaultExternalEventHandler(ExternalEventKind, error) {}

// Channel pumps bytes between a transport (ByteSource/ByteSink) and a
// Decoder/Encoder pair, retrying on ErrWouldBlock/ErrMore according to a
// configurable policy. It adds the control plane the codec itself
// has no opinion about: timeouts and orderly/abrupt shutdown.
type Channel struct {
	src ByteSource
	snk ByteSink
	dec *Decoder
	enc *Encoder

	retryDelay time.Duration
	onEvent    ExternalEventHandler

	recvTimeout  time.Duration
	xmitTimeout  time.Duration
	recvDeadline time.Time
	xmitDeadline time.Time

	rbuf   []byte
	wbuf   []byte
	closed bool
}

// ChannelOption configures a Channel constructed by NewChannel.
type ChannelOption func(*Channel)

// WithChannelBufferSize sets the size of the scratch buffers used to pump
// bytes in each direction. Defaults to 64KiB, matching the source's
// conservative default payload buffer.
func WithChannelBufferSize(n int) ChannelOption {
	return func(c *Channel) {
		c.rbuf = make([]byte, n)
		c.wbuf = make([]byte, n)
	}
}

// WithChannelRetryDelay sets the wait policy applied when the transport
// reports ErrWouldBlock: negative means return immediately (non-blocking),
// zero means cooperatively yield and retry, positive sleeps that long
// before retrying.
func WithChannelRetryDelay(d time.Duration) ChannelOption {
	return func(c *Channel) { c.retryDelay = d }
}

// WithExternalEventHandler sets the callback notified of connect/disconnect/
// timeout/error lifecycle events.
func WithExternalEventHandler(h ExternalEventHandler) ChannelOption {
	return func(c *Channel) { c.onEvent = h }
}

// NewChannel constructs a Channel driving dec/enc against src/snk.
func NewChannel(src ByteSource, snk ByteSink, dec *Decoder, enc *Encoder, opts ...ChannelOption) *Channel {
	c := &Channel{
		src:        src,
		snk:        snk,
		dec:        dec,
		enc:        enc,
		retryDelay: -1,
		onEvent:    defaultExternalEventHandler,
		rbuf:       make([]byte, 64*1024),
		wbuf:       make([]byte, 64*1024),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.onEvent(Connected, nil)
	return c
}

// Decoder exposes the decoding half for callers that need direct access
// (e.g. to inspect Idle()).
func (c *Channel) Decoder() *Decoder { return c.dec }

// Encoder exposes the encoding half.
func (c *Channel) Encoder() *Encoder { return c.enc }

// ReceiveTimeout returns the current receive-side timeout.
func (c *Channel) ReceiveTimeout() time.Duration { return c.recvTimeout }

// SetReceiveTimeout arms a receive-side deadline d from now. A negative d
// means "close gracefully now" rather than "no timeout"; zero disables the
// deadline.
func (c *Channel) SetReceiveTimeout(d time.Duration) {
	c.recvTimeout = d
	if d < 0 {
		c.Close()
		return
	}
	if d == 0 {
		c.recvDeadline = time.Time{}
		return
	}
	c.recvDeadline = time.Now().Add(d)
}

// TransmitTimeout returns the current transmit-side timeout.
func (c *Channel) TransmitTimeout() time.Duration { return c.xmitTimeout }

// SetTransmitTimeout is the transmit-side counterpart of SetReceiveTimeout.
func (c *Channel) SetTransmitTimeout(d time.Duration) {
	c.xmitTimeout = d
	if d < 0 {
		c.Close()
		return
	}
	if d == 0 {
		c.xmitDeadline = time.Time{}
		return
	}
	c.xmitDeadline = time.Now().Add(d)
}

// Close shuts the channel down in an orderly way: no more bytes are pumped,
// and LocalDisconnected fires once.
func (c *Channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.onEvent(LocalDisconnected, nil)
	return nil
}

// Abort resets the decoder/encoder state in flight and closes the channel,
// reporting cause as ExternalInternalError (or ExternalProtocolError, for
// a *DriverError with Kind==ProtocolError).
func (c *Channel) Abort(cause error) error {
	c.dec.Reset()
	c.enc.Reset()
	kind := ExternalInternalError
	if de, ok := cause.(*DriverError); ok && de.Kind == ProtocolError {
		kind = ExternalProtocolError
	}
	already := c.closed
	c.closed = true
	if !already {
		c.onEvent(kind, cause)
	}
	return nil
}

// CloseAndDispose closes the channel and releases its scratch buffers.
func (c *Channel) CloseAndDispose() error {
	err := c.Close()
	c.rbuf, c.wbuf = nil, nil
	return err
}

func (c *Channel) waitOnceOnWouldBlock() {
	switch {
	case c.retryDelay < 0:
	case c.retryDelay == 0:
		runtime.Gosched()
	default:
		time.Sleep(c.retryDelay)
	}
}

// PumpIn reads one slice of bytes from the source and feeds it to the
// decoder, retrying on ErrWouldBlock/ErrMore per the configured policy. It
// returns ErrClosed once Close/Abort has run.
func (c *Channel) PumpIn() (n int, err error) {
	if c.closed {
		return 0, ErrClosed
	}
	if !c.recvDeadline.IsZero() && time.Now().After(c.recvDeadline) {
		c.onEvent(TimedOut, nil)
		return 0, ErrClosed
	}
	for {
		rn, rerr := c.src.Read(c.rbuf)
		if rerr != nil {
			if rerr == ErrWouldBlock || rerr == ErrMore {
				if c.retryDelay < 0 {
					return rn, rerr
				}
				c.waitOnceOnWouldBlock()
				continue
			}
			_ = c.Abort(rerr)
			c.onEvent(RemoteDisconnected, rerr)
			return rn, rerr
		}
		if rn == 0 {
			return 0, nil
		}
		wn, werr := c.dec.Write(c.rbuf[:rn])
		return wn, werr
	}
}

// PumpOut pulls one slice of encoded bytes from the encoder and writes it
// to the sink, retrying on ErrWouldBlock/ErrMore per the configured
// policy. A -1 return from the encoder (nothing queued to send) is not an
// error; PumpOut reports it as (0, nil).
func (c *Channel) PumpOut() (n int, err error) {
	if c.closed {
		return 0, ErrClosed
	}
	if !c.xmitDeadline.IsZero() && time.Now().After(c.xmitDeadline) {
		c.onEvent(TimedOut, nil)
		return 0, ErrClosed
	}
	en, eerr := c.enc.Read(c.wbuf)
	if eerr != nil {
		_ = c.Abort(eerr)
		return 0, eerr
	}
	if en <= 0 {
		return 0, nil
	}
	for {
		wn, werr := c.snk.Write(c.wbuf[:en])
		if werr != nil {
			if werr == ErrWouldBlock || werr == ErrMore {
				if c.retryDelay < 0 {
					return wn, werr
				}
				c.waitOnceOnWouldBlock()
				continue
			}
			_ = c.Abort(werr)
			c.onEvent(RemoteDisconnected, werr)
			return wn, werr
		}
		return wn, nil
	}
}
