package modbus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/vetterling/modbus"
)

var _ = Describe("Frame", func() {
	Describe("RTU", func() {
		It("assembles addr|fc|payload|CRC(lo,hi)", func() {
			frame := AssembleFrame(RTU, 0x01, 0x03, []byte{0x00, 0x05, 0x00, 0x01})
			Expect(frame).To(Equal([]byte{0x01, 0x03, 0x00, 0x05, 0x00, 0x01, 0x94, 0x0B}))
		})

		It("parses a well-formed response and returns its payload", func() {
			resp := []byte{0x01, 0x03, 0x02, 0x00, 0x2A}
			resp = AppendCRC(resp)
			payload, err := ParseFrame(RTU, resp, 0x01, 0x03, FrameOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(payload).To(Equal([]byte{0x02, 0x00, 0x2A}))
		})

		It("rejects a slave address mismatch", func() {
			resp := AppendCRC([]byte{0x02, 0x03, 0x02, 0x00, 0x2A})
			_, err := ParseFrame(RTU, resp, 0x01, 0x03, FrameOptions{})
			Expect(err).To(BeAssignableToTypeOf(InvalidResponseErr{}))
		})

		It("rejects a corrupted checksum", func() {
			resp := AppendCRC([]byte{0x01, 0x03, 0x02, 0x00, 0x2A})
			resp[len(resp)-1] ^= 0xFF
			_, err := ParseFrame(RTU, resp, 0x01, 0x03, FrameOptions{})
			Expect(err).To(BeAssignableToTypeOf(ChecksumMismatchErr{}))
		})

		It("surfaces a slave exception", func() {
			resp := AppendCRC([]byte{0x01, 0x83, 0x02})
			_, err := ParseFrame(RTU, resp, 0x01, 0x03, FrameOptions{})
			Expect(err).To(Equal(SlaveExceptionErr{FunctionCode: 0x03, Code: ExIllegalDataAddress}))
		})

		It("trims a spurious trailing 0xFE when requested", func() {
			resp := AppendCRC([]byte{0x01, 0x03, 0x02, 0x00, 0x2A, 0xFE})
			payload, err := ParseFrame(RTU, resp, 0x01, 0x03, FrameOptions{TrimTrailingFE: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(payload).To(Equal([]byte{0x02, 0x00, 0x2A}))
		})
	})

	Describe("ASCII", func() {
		It("assembles ':'|hex(addr fc payload)|hex(LRC)|CRLF", func() {
			frame := AssembleFrame(ASCII, 0x01, 0x03, []byte{0x00, 0x05, 0x00, 0x01})
			Expect(frame).To(Equal([]byte(":010300050001F6\r\n")))
		})

		It("parses a well-formed response and returns its payload", func() {
			frame := AssembleFrame(ASCII, 0x01, 0x03, []byte{0x02, 0x00, 0x2A})
			payload, err := ParseFrame(ASCII, frame, 0x01, 0x03, FrameOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(payload).To(Equal([]byte{0x02, 0x00, 0x2A}))
		})

		It("rejects a missing start delimiter", func() {
			frame := []byte("010300050001F5\r\n")
			_, err := ParseFrame(ASCII, frame, 0x01, 0x03, FrameOptions{})
			Expect(err).To(BeAssignableToTypeOf(InvalidResponseErr{}))
		})

		It("rejects a bad LRC", func() {
			frame := []byte(":010300050001FF\r\n")
			_, err := ParseFrame(ASCII, frame, 0x01, 0x03, FrameOptions{})
			Expect(err).To(BeAssignableToTypeOf(ChecksumMismatchErr{}))
		})
	})

	DescribeTable("FrameLen predicts the on-wire length",
		func(mode Mode, payloadLen, want int) {
			Expect(FrameLen(mode, payloadLen)).To(Equal(want))
		},
		Entry("RTU", RTU, 3, 7),
		Entry("ASCII", ASCII, 3, 15),
	)
})
