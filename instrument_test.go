package modbus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/vetterling/modbus"
)

var _ = Describe("Instrument", func() {
	var (
		mt   *MockTransport
		inst *Instrument
	)

	BeforeEach(func() {
		mt = &MockTransport{}
		inst = &Instrument{
			Controller: &Controller{Transport: mt, Mode: RTU},
			SlaveAddr:  5,
		}
	})

	Describe("ReadRegister", func() {
		It("decodes an unsigned register and applies the decimal scale", func() {
			mt.Writes = []WriteScript{{8, nil}}
			mt.Reads = []ReadScript{{[]byte{0x05, 0x03, 0x02, 0x00, 0xED, 0x89, 0xC9}, nil}}

			v, err := inst.ReadRegister(0, 1, 3, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(23.7))
			Expect(mt.Calls).To(ContainElement("WRITE [05 03 00 00 00 01 85 8E]"))
		})

		It("defaults fc to 3 when zero", func() {
			mt.Writes = []WriteScript{{8, nil}}
			mt.Reads = []ReadScript{{[]byte{0x05, 0x03, 0x02, 0x00, 0xED, 0x89, 0xC9}, nil}}
			_, err := inst.ReadRegister(0, 1, 0, false)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an unsupported function code", func() {
			_, err := inst.ReadRegister(0, 1, 5, false)
			Expect(err).To(BeAssignableToTypeOf(InvalidArgumentErr{}))
		})
	})

	Describe("WriteRegister", func() {
		It("scales the value and writes it with fc=6", func() {
			mt.Writes = []WriteScript{{8, nil}}
			mt.Reads = []ReadScript{{[]byte{0x05, 0x06, 0x00, 0x00, 0x00, 0xED, 0x48, 0x03}, nil}}
			err := inst.WriteRegister(0, 23.7, 1, 6, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(mt.Calls).To(ContainElement("WRITE [05 06 00 00 00 ED 48 03]"))
		})

		It("rejects a value that overflows the target width", func() {
			err := inst.WriteRegister(0, 999999, 0, 6, true)
			Expect(err).To(BeAssignableToTypeOf(ValueOutOfRangeErr{}))
		})
	})

	Describe("WriteRegisters", func() {
		It("writes multiple registers with fc=16", func() {
			mt.Writes = []WriteScript{{13, nil}}
			mt.Reads = []ReadScript{{[]byte{0x05, 0x10, 0x00, 0x00, 0x00, 0x02, 0x40, 0x4C}, nil}}
			err := inst.WriteRegisters(0, []uint16{1, 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(mt.Calls).To(ContainElement("WRITE [05 10 00 00 00 02 04 00 01 00 02 36 9E]"))
		})

		It("rejects an empty value list", func() {
			Expect(inst.WriteRegisters(0, nil)).To(BeAssignableToTypeOf(ValueOutOfRangeErr{}))
		})

		It("rejects more than 123 values", func() {
			Expect(inst.WriteRegisters(0, make([]uint16, 124))).To(BeAssignableToTypeOf(ValueOutOfRangeErr{}))
		})
	})

	Describe("ReadLong", func() {
		It("decodes a 32-bit unsigned value spanning two registers", func() {
			mt.Writes = []WriteScript{{8, nil}}
			mt.Reads = []ReadScript{{[]byte{0x05, 0x03, 0x04, 0x00, 0x01, 0x00, 0x02, 0x6F, 0xF2}, nil}}
			v, err := inst.ReadLong(0, false, 32, BIG, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(int64(0x00010002)))
		})

		It("rejects an unsupported bit length", func() {
			_, err := inst.ReadLong(0, false, 24, BIG, 3)
			Expect(err).To(BeAssignableToTypeOf(InvalidArgumentErr{}))
		})
	})

	Describe("WriteBits", func() {
		It("packs and writes coils with fc=15", func() {
			mt.Writes = []WriteScript{{10, nil}}
			mt.Reads = []ReadScript{{[]byte{0x05, 0x0F, 0x00, 0x00, 0x00, 0x03, 0x14, 0x4E}, nil}}
			err := inst.WriteBits(0, []bool{true, false, true})
			Expect(err).NotTo(HaveOccurred())
			Expect(mt.Calls).To(ContainElement("WRITE [05 0F 00 00 00 03 01 05 4E A7]"))
		})
	})

	Describe("WriteBit", func() {
		It("issues fc=5 with 0xFF00 for true", func() {
			mt.Writes = []WriteScript{{8, nil}}
			mt.Reads = []ReadScript{{[]byte{0x05, 0x05, 0x00, 0x00, 0xFF, 0x00, 0x8D, 0xBE}, nil}}
			Expect(inst.WriteBit(0, true)).To(Succeed())
		})

		It("rejects a raw coil value that is neither 0x0000 nor 0xFF00", func() {
			Expect(inst.WriteRawCoil(0, 0x1234)).To(BeAssignableToTypeOf(ValueOutOfRangeErr{}))
		})
	})

	Describe("address range validation", func() {
		It("rejects an address+count that overflows the register space", func() {
			_, err := inst.ReadRegisters(0xFFFF, 2, 3)
			Expect(err).To(BeAssignableToTypeOf(ValueOutOfRangeErr{}))
		})
	})

	Describe("ReadString", func() {
		It("returns the raw register bytes, untrimmed", func() {
			mt.Writes = []WriteScript{{8, nil}}
			mt.Reads = []ReadScript{{[]byte{0x05, 0x03, 0x04, 'h', 'i', ' ', ' ', 0x6B, 0x97}, nil}}
			s, err := inst.ReadString(0, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal("hi  "))
		})
	})

	Describe("reads on the broadcast address", func() {
		It("rejects ReadBits without touching the transport", func() {
			broadcast := &Instrument{Controller: inst.Controller, SlaveAddr: 0}
			_, err := broadcast.ReadBits(0, 1, 1)
			Expect(err).To(BeAssignableToTypeOf(InvalidArgumentErr{}))
			Expect(mt.Calls).To(BeEmpty())
		})

		It("rejects ReadRegisters without touching the transport", func() {
			broadcast := &Instrument{Controller: inst.Controller, SlaveAddr: 0}
			_, err := broadcast.ReadRegisters(0, 1, 3)
			Expect(err).To(BeAssignableToTypeOf(InvalidArgumentErr{}))
			Expect(mt.Calls).To(BeEmpty())
		})
	})
})
