package modbus

import (
	"encoding/binary"
	"math"
)

// ByteOrder selects how a multi-register (32- or 64-bit) value is
// assembled across the registers that carry it. It has no effect on
// single-register (16-bit) values, which are always transmitted
// MSB-first as mandated by the wire format.
type ByteOrder int

const (
	// BIG orders a 32-bit value's registers/bytes as ABCD (64-bit:
	// ABCDEFGH), the Modbus convention.
	BIG ByteOrder = iota
	// LITTLE reverses the byte order entirely: DCBA (64-bit: HGFEDCBA).
	LITTLE
	// BIG_SWAP swaps the two bytes of each register relative to BIG:
	// BADC (64-bit: BADCFEHG).
	BIG_SWAP
	// LITTLE_SWAP swaps the two bytes of each register relative to
	// LITTLE: CDAB (64-bit: GHEFCDAB).
	LITTLE_SWAP
)

func (o ByteOrder) String() string {
	switch o {
	case BIG:
		return "BIG"
	case LITTLE:
		return "LITTLE"
	case BIG_SWAP:
		return "BIG_SWAP"
	case LITTLE_SWAP:
		return "LITTLE_SWAP"
	default:
		return "INVALID"
	}
}

// EncodeU16 encodes u as two big-endian octets. u must fit in 16 bits.
func EncodeU16(u uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, u)
	return b
}

// DecodeU16 decodes two big-endian octets as an unsigned 16-bit integer.
func DecodeU16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// EncodeI16 encodes i, two's-complement, as two big-endian octets. i
// must fit in [-32768, 32767].
func EncodeI16(i int16) []byte {
	return EncodeU16(uint16(i))
}

// DecodeI16 decodes two big-endian octets as a two's-complement signed
// 16-bit integer.
func DecodeI16(b []byte) int16 {
	return int16(DecodeU16(b))
}

// EncodeBit encodes a coil value: 0xFF00 for 1 (true), 0x0000 for 0
// (false), as required by function code 5.
func EncodeBit(v bool) []byte {
	if v {
		return []byte{0xFF, 0x00}
	}
	return []byte{0x00, 0x00}
}

// swap32 reorders the four bytes of a big-endian 32-bit word according
// to order, given the canonical big-endian byte sequence ABCD.
func swap32(order ByteOrder, in []byte) []byte {
	a, b, c, d := in[0], in[1], in[2], in[3]
	switch order {
	case BIG:
		return []byte{a, b, c, d}
	case BIG_SWAP:
		return []byte{b, a, d, c}
	case LITTLE_SWAP:
		return []byte{c, d, a, b}
	case LITTLE:
		return []byte{d, c, b, a}
	default:
		return []byte{a, b, c, d}
	}
}

// unswap32 is the inverse of swap32: given the on-wire bytes in the
// given order, it returns the canonical big-endian ABCD sequence.
func unswap32(order ByteOrder, in []byte) []byte {
	switch order {
	case BIG:
		return []byte{in[0], in[1], in[2], in[3]}
	case BIG_SWAP:
		return []byte{in[1], in[0], in[3], in[2]}
	case LITTLE_SWAP:
		return []byte{in[2], in[3], in[0], in[1]}
	case LITTLE:
		return []byte{in[3], in[2], in[1], in[0]}
	default:
		return []byte{in[0], in[1], in[2], in[3]}
	}
}

func swap64(order ByteOrder, in []byte) []byte {
	a, b, c, d, e, f, g, h := in[0], in[1], in[2], in[3], in[4], in[5], in[6], in[7]
	switch order {
	case BIG:
		return []byte{a, b, c, d, e, f, g, h}
	case BIG_SWAP:
		return []byte{b, a, d, c, f, e, h, g}
	case LITTLE_SWAP:
		return []byte{g, h, e, f, c, d, a, b}
	case LITTLE:
		return []byte{h, g, f, e, d, c, b, a}
	default:
		return []byte{a, b, c, d, e, f, g, h}
	}
}

func unswap64(order ByteOrder, in []byte) []byte {
	switch order {
	case BIG:
		return []byte{in[0], in[1], in[2], in[3], in[4], in[5], in[6], in[7]}
	case BIG_SWAP:
		return []byte{in[1], in[0], in[3], in[2], in[5], in[4], in[7], in[6]}
	case LITTLE_SWAP:
		return []byte{in[6], in[7], in[4], in[5], in[2], in[3], in[0], in[1]}
	case LITTLE:
		return []byte{in[7], in[6], in[5], in[4], in[3], in[2], in[1], in[0]}
	default:
		return []byte{in[0], in[1], in[2], in[3], in[4], in[5], in[6], in[7]}
	}
}

// EncodeU32 encodes u across two registers (4 octets) in the given
// byte order.
func EncodeU32(u uint32, order ByteOrder) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, u)
	return swap32(order, b)
}

// DecodeU32 decodes four octets, laid out per order, as an unsigned
// 32-bit integer.
func DecodeU32(b []byte, order ByteOrder) uint32 {
	return binary.BigEndian.Uint32(unswap32(order, b))
}

// EncodeI32 encodes i, two's-complement, across two registers.
func EncodeI32(i int32, order ByteOrder) []byte {
	return EncodeU32(uint32(i), order)
}

// DecodeI32 is the signed counterpart of DecodeU32.
func DecodeI32(b []byte, order ByteOrder) int32 {
	return int32(DecodeU32(b, order))
}

// EncodeF32 encodes f as IEEE-754 binary32 across two registers. f must
// be finite.
func EncodeF32(f float32, order ByteOrder) []byte {
	return EncodeU32(math.Float32bits(f), order)
}

// DecodeF32 is the inverse of EncodeF32.
func DecodeF32(b []byte, order ByteOrder) float32 {
	return math.Float32frombits(DecodeU32(b, order))
}

// EncodeU64 encodes u across four registers (8 octets).
func EncodeU64(u uint64, order ByteOrder) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, u)
	return swap64(order, b)
}

// DecodeU64 is the inverse of EncodeU64.
func DecodeU64(b []byte, order ByteOrder) uint64 {
	return binary.BigEndian.Uint64(unswap64(order, b))
}

// EncodeI64 encodes i, two's-complement, across four registers.
func EncodeI64(i int64, order ByteOrder) []byte {
	return EncodeU64(uint64(i), order)
}

// DecodeI64 is the signed counterpart of DecodeU64.
func DecodeI64(b []byte, order ByteOrder) int64 {
	return int64(DecodeU64(b, order))
}

// EncodeF64 encodes f as IEEE-754 binary64 across four registers.
func EncodeF64(f float64, order ByteOrder) []byte {
	return EncodeU64(math.Float64bits(f), order)
}

// DecodeF64 is the inverse of EncodeF64.
func DecodeF64(b []byte, order ByteOrder) float64 {
	return math.Float64frombits(DecodeU64(b, order))
}

// EncodeString right-pads s with spaces (0x20) to fill numRegs
// registers (2*numRegs octets). s must be no longer than 2*numRegs
// bytes.
func EncodeString(s string, numRegs int) ([]byte, error) {
	n := numRegs * 2
	if len(s) > n {
		return nil, ValueOutOfRangeErr{Arg: "string length", Value: len(s)}
	}
	b := make([]byte, n)
	copy(b, s)
	for i := len(s); i < n; i++ {
		b[i] = ' '
	}
	return b, nil
}

// DecodeString returns the raw text carried by b, unpadded and
// untrimmed: the caller sees exactly the bytes the slave returned.
func DecodeString(b []byte) string {
	return string(b)
}

// PackBits packs bits LSB-first within each octet, ceil(len(bits)/8)
// octets long.
func PackBits(bits []bool) []byte {
	n := len(bits) / 8
	if len(bits)%8 != 0 {
		n++
	}
	out := make([]byte, n)
	for i, v := range bits {
		if v {
			out[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return out
}

// UnpackBits unpacks count bits, LSB-first within each octet, from b.
func UnpackBits(b []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		out[i] = b[i/8]&(1<<(uint(i)%8)) != 0
	}
	return out
}

// ScaleToRegister rounds number*10^decimals to the nearest integer and
// returns it as a register value. Checking the result against the
// u16/i16 range is left to the caller (WriteRegister rejects values
// outside it); this function itself never rejects a result.
func ScaleToRegister(number float64, decimals int) int64 {
	scale := math.Pow(10, float64(decimals))
	return int64(math.Round(number * scale))
}

// ScaleFromRegister divides a raw register value by 10^decimals.
func ScaleFromRegister(v int64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return float64(v) / scale
}
