package modbus

import (
	"time"

	"github.com/albenik/go-serial/v2"
)

const (
	SERIAL_TIMEOUT = 30 * time.Millisecond
	BAUDRATE       = 9600
)

// OpenErr wraps a serial port open failure with the device path that
// was being opened.
type OpenErr struct {
	Dev string
	Err error
}

func (e OpenErr) Error() string {
	return e.Err.Error() + " while opening " + e.Dev
}

func (e OpenErr) Unwrap() error {
	return e.Err
}

// SerialPort is the concrete Transport backed by an OS serial device
// through github.com/albenik/go-serial/v2. It implements the character
// size (8), stop bits (1) and parity (none by default) knobs of the §6
// external interface.
type SerialPort struct {
	Dev      string
	Baudrate int
	Parity   Parity
	Timeout  time.Duration

	port *serial.Port
}

func (p *SerialPort) Open() error {
	if p.Dev == "" {
		panic("empty SerialPort.Dev")
	}
	if p.Timeout <= 0 {
		p.Timeout = SERIAL_TIMEOUT
	}
	if p.Baudrate <= 0 {
		p.Baudrate = BAUDRATE
	}

	debugLog("opening %s", p.Dev)
	port, err := serial.Open(p.Dev,
		serial.WithBaudrate(p.Baudrate),
		serial.WithDataBits(8),
		serial.WithStopBits(serial.OneStopBit),
		serial.WithParity(serial.Parity(p.Parity)),
		serial.WithReadTimeout(int(p.Timeout.Milliseconds())),
		serial.WithWriteTimeout(int(p.Timeout.Milliseconds())))
	if err != nil {
		return OpenErr{p.Dev, err}
	}
	p.port = port
	logf("%s opened", p.Dev)
	return nil
}

func (p *SerialPort) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}

func (p *SerialPort) IsOpen() bool {
	return p.port != nil
}

func (p *SerialPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *SerialPort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *SerialPort) ClearInput() error {
	return p.port.ResetInputBuffer()
}

func (p *SerialPort) ClearOutput() error {
	return p.port.ResetOutputBuffer()
}

func (p *SerialPort) BaudRate() int {
	if p.Baudrate <= 0 {
		return BAUDRATE
	}
	return p.Baudrate
}
