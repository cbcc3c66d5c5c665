// Package modbus implements a Modbus serial-line master supporting both
// the RTU (binary) and ASCII framing variants over a half-duplex,
// point-to-point or multi-drop serial bus.
//
// The package is organised, leaf to root, as: a value Codec (u16/u32/u64
// integers, IEEE-754 floats, byte strings, bit vectors, all byte-order
// aware); frame-check functions (CRC-16/Modbus and LRC); a Framer that
// assembles and parses RTU/ASCII frames and predicts response length; a
// Transaction Engine that sequences one request/response exchange,
// honouring the inter-frame silent interval; and an Instrument facade
// exposing read/write operations by function code.
//
// Modbus TCP, function code 23, 32-bit ("Enron") register addressing and
// multi-byte slave addresses are not implemented.
package modbus
