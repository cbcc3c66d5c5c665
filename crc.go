package modbus

import "github.com/sigurn/crc16"

var crcTable = crc16.MakeTable(crc16.CRC16_MODBUS)

// CRC16Modbus computes the CRC-16/Modbus checksum of b: polynomial
// 0xA001, initial value 0xFFFF, one table lookup per input octet.
func CRC16Modbus(b []byte) uint16 {
	return crc16.Checksum(b, crcTable)
}

// AppendCRC appends the CRC-16/Modbus of b, low byte first, to b and
// returns the result.
func AppendCRC(b []byte) []byte {
	cs := CRC16Modbus(b)
	return append(b, byte(cs), byte(cs>>8))
}

// CheckCRC reports whether the last two bytes of b are the correct
// CRC-16/Modbus trailer for the bytes preceding them. b must be at
// least 2 bytes long.
func CheckCRC(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	cs := CRC16Modbus(b[:len(b)-2])
	return b[len(b)-2] == byte(cs) && b[len(b)-1] == byte(cs>>8)
}
