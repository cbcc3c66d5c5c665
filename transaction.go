package modbus

import (
	"io"
	"sync"
	"time"
)

// silentInterval returns the mandatory RTU inter-frame silent interval
// for baud: 3.5 character times (11 bits per character: start bit, 8
// data bits, parity, stop bit), floored at 1.75ms as mandated for baud
// rates above 19200.
func silentInterval(baud int) time.Duration {
	const floor = 1750 * time.Microsecond
	if baud <= 0 {
		return floor
	}
	charTimes := time.Duration(3.5 * 11 / float64(baud) * float64(time.Second))
	if charTimes > floor {
		return charTimes
	}
	return floor
}

// Controller sequences one Modbus exchange at a time over a shared
// Transport: it enforces the silent interval, serialises access with a
// mutex (the bus is half-duplex, stop-and-wait), assembles and parses
// frames through the Framer, and maps every failure onto the error
// taxonomy. Multiple Instrument values that share a Controller are
// automatically serialised through it.
type Controller struct {
	Transport Transport
	Mode      Mode
	Timeout   time.Duration

	// Echo, when true, expects the transport to loop the transmitted
	// frame back to the receiver (common on 2-wire RS-485 adapters
	// without hardware echo suppression); the Engine reads and
	// discards that many bytes before reading the real response.
	Echo bool

	// ClosePerCall opens the transport before, and closes it after,
	// every exchange (success or error). Slower, but works around
	// platforms that cannot share a serial handle across processes.
	ClosePerCall bool

	// TrimTrailingFE strips a spurious extra trailing byte some
	// slaves append to fc=3/4 responses. Off by default; see
	// spec §9 Open Question (b).
	TrimTrailingFE bool

	mu        sync.Mutex
	lastTxEnd time.Time
	opened    bool
}

const defaultTimeout = time.Second

// execute performs one full request/response exchange: build the
// frame, wait out the silent interval, transmit, handle echo and
// broadcast, read the response and parse it. addr 0 is broadcast: the
// call returns immediately after transmission with a nil payload.
func (c *Controller) execute(addr, fc byte, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if err := c.ensureOpen(); err != nil {
		return nil, err
	}
	if c.ClosePerCall {
		defer func() {
			c.Transport.Close()
			c.opened = false
		}()
	}

	frame := AssembleFrame(c.Mode, addr, fc, payload)

	c.waitSilence()

	if err := c.Transport.ClearInput(); err != nil {
		return nil, wrapTransportErr("clear input", err)
	}
	if err := c.Transport.ClearOutput(); err != nil {
		return nil, wrapTransportErr("clear output", err)
	}

	debugLog("tx: % X", frame)
	n, err := c.Transport.Write(frame)
	c.lastTxEnd = ctime.Now()
	if err != nil {
		return nil, wrapTransportErr("write", err)
	}
	if n != len(frame) {
		return nil, TransportErr{Op: "write", Err: io.ErrShortWrite}
	}

	broadcast := addr == 0
	if broadcast {
		return nil, nil
	}

	if c.Echo {
		echoed, timedOut, err := c.readFull(len(frame), ctime.Now().Add(c.Timeout))
		if err != nil {
			return nil, err
		}
		if timedOut {
			if len(echoed) == 0 {
				return nil, NoResponseErr{}
			}
			return nil, ShortResponseErr{Want: len(frame), Got: echoed}
		}
		if !isValidEcho(frame, echoed) {
			return nil, LocalEchoMismatchErr{Sent: frame, Echoed: echoed}
		}
	}

	respPayloadLen, err := predictedResponsePayloadLen(fc, payload)
	if err != nil {
		return nil, err
	}

	want := FrameLen(c.Mode, respPayloadLen)
	resp, timedOut, err := c.readFull(want, ctime.Now().Add(c.Timeout))
	if err != nil {
		return nil, err
	}

	debugLog("rx: % X", resp)
	respPayload, perr := ParseFrame(c.Mode, resp, addr, fc, FrameOptions{TrimTrailingFE: c.TrimTrailingFE})

	if timedOut {
		// The predicted length assumes a normal response; a slave
		// exception frame is shorter and legitimately arrives in full
		// before the deadline trips. Surface it if that is what we got.
		if _, ok := perr.(SlaveExceptionErr); ok {
			return nil, perr
		}
		if len(resp) == 0 {
			return nil, NoResponseErr{}
		}
		return nil, ShortResponseErr{Want: want, Got: resp}
	}
	if perr != nil {
		return nil, perr
	}

	if err := validateResponsePayload(fc, payload, respPayload); err != nil {
		return nil, err
	}
	return respPayload, nil
}

func (c *Controller) ensureOpen() error {
	if c.opened && !c.ClosePerCall {
		return nil
	}
	if err := c.Transport.Open(); err != nil {
		return wrapTransportErr("open", err)
	}
	c.opened = true
	return nil
}

func (c *Controller) waitSilence() {
	if c.lastTxEnd.IsZero() {
		return
	}
	min := silentInterval(c.Transport.BaudRate())
	if wait := min - ctime.Now().Sub(c.lastTxEnd); wait > 0 {
		time.Sleep(wait)
	}
}

// readFull reads until either want bytes have arrived (across repeated
// Transport.Read calls) or deadline passes, whichever comes first. The
// timedOut return reports which one happened; callers that predicted a
// normal-response length must still attempt to parse a short buffer,
// since a slave exception response is legitimately shorter than that
// prediction.
func (c *Controller) readFull(want int, deadline time.Time) (buf []byte, timedOut bool, err error) {
	buf = make([]byte, 0, want)
	chunk := make([]byte, want)
	for len(buf) < want {
		n, err := c.Transport.Read(chunk[:want-len(buf)])
		if err != nil {
			return buf, false, wrapTransportErr("read", err)
		}
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			continue
		}
		if !ctime.Now().Before(deadline) {
			return buf, true, nil
		}
	}
	return buf, false, nil
}

// Close releases the underlying transport. Safe to call even if the
// transport was never opened.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opened {
		c.Transport.Close()
		c.opened = false
	}
}

// predictedResponsePayloadLen determines, from the function code and
// the already-validated request payload, how many response payload
// bytes (the bytes between fc and the frame-check field) to expect.
func predictedResponsePayloadLen(fc byte, reqPayload []byte) (int, error) {
	switch fc {
	case 1, 2:
		count := int(DecodeU16(reqPayload[2:4]))
		n := count / 8
		if count%8 != 0 {
			n++
		}
		return 1 + n, nil
	case 3, 4:
		count := int(DecodeU16(reqPayload[2:4]))
		return 1 + 2*count, nil
	case 5, 6, 15, 16:
		return 4, nil
	default:
		return 0, InvalidArgumentErr{Arg: "functionCode", Msg: "unsupported function code"}
	}
}

// validateResponsePayload applies the per-function-code checks the
// Engine performs beyond framing: the byte count field on read
// responses, and the echoed address/count/value fields on write
// responses.
func validateResponsePayload(fc byte, reqPayload, respPayload []byte) error {
	switch fc {
	case 1, 2:
		count := int(DecodeU16(reqPayload[2:4]))
		want := count / 8
		if count%8 != 0 {
			want++
		}
		if len(respPayload) < 1 || int(respPayload[0]) != want || len(respPayload) != want+1 {
			return InvalidResponseErr{Bytes: respPayload, Msg: "byte count mismatch"}
		}
	case 3, 4:
		count := int(DecodeU16(reqPayload[2:4]))
		if len(respPayload) < 1 || int(respPayload[0]) != 2*count || len(respPayload) != 2*count+1 {
			return InvalidResponseErr{Bytes: respPayload, Msg: "byte count mismatch"}
		}
	case 5, 6:
		if len(respPayload) != 4 || string(respPayload) != string(reqPayload[:4]) {
			return InvalidResponseErr{Bytes: respPayload, Msg: "echo mismatch"}
		}
	case 15, 16:
		if len(respPayload) != 4 || string(respPayload) != string(reqPayload[:4]) {
			return InvalidResponseErr{Bytes: respPayload, Msg: "echo mismatch"}
		}
	}
	return nil
}
