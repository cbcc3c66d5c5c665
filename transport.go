package modbus

// Transport is the byte-level collaborator the Transaction Engine
// drives. It is deliberately narrow: everything about how bytes reach
// the wire (serial port settings, TCP socket, loopback pipe used in
// tests) lives on the other side of this interface.
//
// Read must return whatever bytes are currently available, up to
// len(p), and must not block past its own configured read timeout; a
// short or zero-length read with a nil error means "nothing more
// arrived before the timeout", not an I/O failure. A non-nil error
// means the transport itself failed.
type Transport interface {
	Open() error
	Close() error
	IsOpen() bool

	Write(p []byte) (n int, err error)
	Read(p []byte) (n int, err error)

	ClearInput() error
	ClearOutput() error

	// BaudRate is used to derive the mandatory inter-frame silent
	// interval (3.5 character times, floored at 1.75ms).
	BaudRate() int
}
