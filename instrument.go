package modbus

import "math"

// Instrument is the stable operation surface applications use. It
// binds a slave address to a Controller (and, through it, a shared
// Transport); the same Controller may be shared by several Instrument
// values addressing different slaves on the same bus, in which case
// they share the Controller's mutex and silent-interval clock.
type Instrument struct {
	Controller *Controller
	SlaveAddr  byte
}

// Close releases the Instrument's Controller. If the Controller is
// shared with other Instrument values, callers are responsible for not
// closing it out from under them.
func (i *Instrument) Close() {
	i.Controller.Close()
}

func validateRegAddr(addr, count uint16) error {
	if int(addr)+int(count) > 0x10000 {
		return ValueOutOfRangeErr{Arg: "addr+count", Value: int(addr) + int(count)}
	}
	return nil
}

// ReadBit reads one discrete input (fc=2) or coil (fc=1) and returns
// its value.
func (i *Instrument) ReadBit(addr uint16, fc byte) (bool, error) {
	bits, err := i.ReadBits(addr, 1, fc)
	if err != nil {
		return false, err
	}
	return bits[0], nil
}

// ReadBits reads count discrete inputs (fc=2) or coils (fc=1) starting
// at addr. count must be in [1, 2000].
func (i *Instrument) ReadBits(addr uint16, count uint16, fc byte) ([]bool, error) {
	if i.SlaveAddr == 0 {
		return nil, InvalidArgumentErr{Arg: "SlaveAddr", Msg: "reads are not possible on the broadcast address (0)"}
	}
	if fc != 1 && fc != 2 {
		return nil, InvalidArgumentErr{Arg: "fc", Msg: "must be 1 or 2"}
	}
	if count < 1 || count > 2000 {
		return nil, ValueOutOfRangeErr{Arg: "count", Value: count}
	}
	if err := validateRegAddr(addr, count); err != nil {
		return nil, err
	}

	payload := append(EncodeU16(addr), EncodeU16(count)...)
	resp, err := i.Controller.execute(i.SlaveAddr, fc, payload)
	if err != nil {
		return nil, err
	}
	return UnpackBits(resp[1:], int(count)), nil
}

// WriteBit writes one coil (fc=5).
func (i *Instrument) WriteBit(addr uint16, value bool) error {
	raw := uint16(0x0000)
	if value {
		raw = 0xFF00
	}
	return i.WriteRawCoil(addr, raw)
}

// WriteRawCoil issues fc=5 with the wire-level coil value raw, which
// must be exactly 0x0000 or 0xFF00. It exists beneath WriteBit for
// callers that already hold a raw coil value off the wire.
func (i *Instrument) WriteRawCoil(addr uint16, raw uint16) error {
	if raw != 0x0000 && raw != 0xFF00 {
		return ValueOutOfRangeErr{Arg: "value", Value: raw}
	}
	payload := append(EncodeU16(addr), EncodeU16(raw)...)
	_, err := i.Controller.execute(i.SlaveAddr, 5, payload)
	return err
}

// WriteBits writes len(values) coils (fc=15) starting at addr. Between
// 1 and 1968 values may be supplied.
func (i *Instrument) WriteBits(addr uint16, values []bool) error {
	if len(values) < 1 || len(values) > 1968 {
		return ValueOutOfRangeErr{Arg: "len(values)", Value: len(values)}
	}
	if err := validateRegAddr(addr, uint16(len(values))); err != nil {
		return err
	}

	packed := PackBits(values)
	payload := make([]byte, 0, 5+len(packed))
	payload = append(payload, EncodeU16(addr)...)
	payload = append(payload, EncodeU16(uint16(len(values)))...)
	payload = append(payload, byte(len(packed)))
	payload = append(payload, packed...)

	_, err := i.Controller.execute(i.SlaveAddr, 15, payload)
	return err
}

// ReadRegister reads one holding register (fc=3, the default) or input
// register (fc=4), decodes it as signed or unsigned 16-bit, and
// divides by 10^decimals.
func (i *Instrument) ReadRegister(addr uint16, decimals int, fc byte, signed bool) (float64, error) {
	if fc == 0 {
		fc = 3
	}
	if fc != 3 && fc != 4 {
		return 0, InvalidArgumentErr{Arg: "fc", Msg: "must be 3 or 4"}
	}
	regs, err := i.readRegisters(addr, 1, fc)
	if err != nil {
		return 0, err
	}
	var v int64
	if signed {
		v = int64(DecodeI16(regs))
	} else {
		v = int64(DecodeU16(regs))
	}
	return ScaleFromRegister(v, decimals), nil
}

// ReadRegisters reads count holding (fc=3, the default) or input (fc=4)
// registers, without scaling or sign interpretation. count must be in
// [1, 125].
func (i *Instrument) ReadRegisters(addr uint16, count uint16, fc byte) ([]uint16, error) {
	if fc == 0 {
		fc = 3
	}
	raw, err := i.readRegisters(addr, count, fc)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, count)
	for j := range out {
		out[j] = DecodeU16(raw[j*2 : j*2+2])
	}
	return out, nil
}

func (i *Instrument) readRegisters(addr, count uint16, fc byte) ([]byte, error) {
	if i.SlaveAddr == 0 {
		return nil, InvalidArgumentErr{Arg: "SlaveAddr", Msg: "reads are not possible on the broadcast address (0)"}
	}
	if fc != 3 && fc != 4 {
		return nil, InvalidArgumentErr{Arg: "fc", Msg: "must be 3 or 4"}
	}
	if count < 1 || count > 125 {
		return nil, ValueOutOfRangeErr{Arg: "count", Value: count}
	}
	if err := validateRegAddr(addr, count); err != nil {
		return nil, err
	}

	payload := append(EncodeU16(addr), EncodeU16(count)...)
	resp, err := i.Controller.execute(i.SlaveAddr, fc, payload)
	if err != nil {
		return nil, err
	}
	return resp[1:], nil
}

// ReadLong reads a 32- or 64-bit integer spanning bitLength/16 holding
// (fc=3) or input (fc=4) registers.
func (i *Instrument) ReadLong(addr uint16, signed bool, bitLength int, order ByteOrder, fc byte) (int64, error) {
	if fc == 0 {
		fc = 3
	}
	if bitLength != 32 && bitLength != 64 {
		return 0, InvalidArgumentErr{Arg: "bitLength", Msg: "must be 32 or 64"}
	}
	raw, err := i.readRegisters(addr, uint16(bitLength/16), fc)
	if err != nil {
		return 0, err
	}
	if bitLength == 32 {
		if signed {
			return int64(DecodeI32(raw, order)), nil
		}
		return int64(DecodeU32(raw, order)), nil
	}
	if signed {
		return DecodeI64(raw, order), nil
	}
	return int64(DecodeU64(raw, order)), nil
}

// ReadFloat reads an IEEE-754 binary32 or binary64 value spanning
// bitLength/16 holding (fc=3) or input (fc=4) registers.
func (i *Instrument) ReadFloat(addr uint16, bitLength int, order ByteOrder, fc byte) (float64, error) {
	if fc == 0 {
		fc = 3
	}
	if bitLength != 32 && bitLength != 64 {
		return 0, InvalidArgumentErr{Arg: "bitLength", Msg: "must be 32 or 64"}
	}
	raw, err := i.readRegisters(addr, uint16(bitLength/16), fc)
	if err != nil {
		return 0, err
	}
	if bitLength == 32 {
		return float64(DecodeF32(raw, order)), nil
	}
	return DecodeF64(raw, order), nil
}

// ReadString reads numRegisters holding registers (fc=3) and returns
// their raw text content, unpadded and untrimmed.
func (i *Instrument) ReadString(addr uint16, numRegisters uint16) (string, error) {
	raw, err := i.readRegisters(addr, numRegisters, 3)
	if err != nil {
		return "", err
	}
	return DecodeString(raw), nil
}

// WriteRegister multiplies value by 10^decimals, range-checks it, and
// writes it with fc (16, the default, or 6) as a signed or unsigned
// 16-bit register.
func (i *Instrument) WriteRegister(addr uint16, value float64, decimals int, fc byte, signed bool) error {
	if fc == 0 {
		fc = 16
	}
	if fc != 6 && fc != 16 {
		return InvalidArgumentErr{Arg: "fc", Msg: "must be 6 or 16"}
	}
	scaled := ScaleToRegister(value, decimals)
	if signed {
		if scaled < math.MinInt16 || scaled > math.MaxInt16 {
			return ValueOutOfRangeErr{Arg: "value", Value: value}
		}
	} else {
		if scaled < 0 || scaled > math.MaxUint16 {
			return ValueOutOfRangeErr{Arg: "value", Value: value}
		}
	}

	reg := uint16(scaled)
	if fc == 6 {
		payload := append(EncodeU16(addr), EncodeU16(reg)...)
		_, err := i.Controller.execute(i.SlaveAddr, 6, payload)
		return err
	}
	return i.WriteRegisters(addr, []uint16{reg})
}

// WriteRegisters writes len(values) holding registers (fc=16) starting
// at addr. Between 1 and 123 values may be supplied.
func (i *Instrument) WriteRegisters(addr uint16, values []uint16) error {
	if len(values) < 1 || len(values) > 123 {
		return ValueOutOfRangeErr{Arg: "len(values)", Value: len(values)}
	}
	if err := validateRegAddr(addr, uint16(len(values))); err != nil {
		return err
	}

	payload := make([]byte, 0, 5+len(values)*2)
	payload = append(payload, EncodeU16(addr)...)
	payload = append(payload, EncodeU16(uint16(len(values)))...)
	payload = append(payload, byte(len(values)*2))
	for _, v := range values {
		payload = append(payload, EncodeU16(v)...)
	}

	_, err := i.Controller.execute(i.SlaveAddr, 16, payload)
	return err
}

// WriteLong writes a 32- or 64-bit integer across bitLength/16 holding
// registers (fc=16).
func (i *Instrument) WriteLong(addr uint16, value int64, signed bool, bitLength int, order ByteOrder) error {
	if bitLength != 32 && bitLength != 64 {
		return InvalidArgumentErr{Arg: "bitLength", Msg: "must be 32 or 64"}
	}
	var raw []byte
	if bitLength == 32 {
		if signed {
			raw = EncodeI32(int32(value), order)
		} else {
			raw = EncodeU32(uint32(value), order)
		}
	} else {
		if signed {
			raw = EncodeI64(value, order)
		} else {
			raw = EncodeU64(uint64(value), order)
		}
	}
	return i.WriteRegisters(addr, bytesToRegs(raw))
}

// WriteFloat writes an IEEE-754 binary32 or binary64 value across
// bitLength/16 holding registers (fc=16).
func (i *Instrument) WriteFloat(addr uint16, value float64, bitLength int, order ByteOrder) error {
	if bitLength != 32 && bitLength != 64 {
		return InvalidArgumentErr{Arg: "bitLength", Msg: "must be 32 or 64"}
	}
	var raw []byte
	if bitLength == 32 {
		raw = EncodeF32(float32(value), order)
	} else {
		raw = EncodeF64(value, order)
	}
	return i.WriteRegisters(addr, bytesToRegs(raw))
}

// WriteString writes s, right-padded with spaces, across numRegisters
// holding registers (fc=16).
func (i *Instrument) WriteString(addr uint16, s string, numRegisters uint16) error {
	raw, err := EncodeString(s, int(numRegisters))
	if err != nil {
		return err
	}
	return i.WriteRegisters(addr, bytesToRegs(raw))
}

func bytesToRegs(b []byte) []uint16 {
	regs := make([]uint16, len(b)/2)
	for i := range regs {
		regs[i] = DecodeU16(b[i*2 : i*2+2])
	}
	return regs
}
