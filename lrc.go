package modbus

// LRC computes the Modbus LRC of b: the two's-complement, modulo 256,
// of the sum of its bytes. Used only in ASCII framing.
func LRC(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return byte(256 - int(sum))
}

// CheckLRC reports whether the last byte of b is the correct LRC
// trailer for the bytes preceding it.
func CheckLRC(b []byte) bool {
	if len(b) < 1 {
		return false
	}
	return b[len(b)-1] == LRC(b[:len(b)-1])
}
