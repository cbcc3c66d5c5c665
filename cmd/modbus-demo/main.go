package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vetterling/modbus"
)

func main() {
	modbus.InfoLogFunc = log.Printf
	modbus.DebugLogFunc = log.Printf

	if len(os.Args) != 3 {
		fmt.Printf("Usage: %s DEV SLAVE_ADDR\n"+
			" e.g.: %s /dev/ttyUSB0 10\n",
			os.Args[0], os.Args[0])
		os.Exit(1)
	}

	var addr int
	fmt.Sscanf(os.Args[2], "%d", &addr)

	con := &modbus.Controller{
		Transport: &modbus.SerialPort{Dev: os.Args[1]},
		Mode:      modbus.RTU,
	}
	inst := &modbus.Instrument{
		Controller: con,
		SlaveAddr:  byte(addr),
	}

	demoTemperature(inst)
}

// demoTemperature polls a pair of holding registers every second, the
// way an SHT20-style temperature/humidity sensor exposes its readings:
// scaled by one decimal.
func demoTemperature(inst *modbus.Instrument) {
	tick := time.NewTicker(time.Second)
	for range tick.C {
		temp, err := inst.ReadRegister(0, 1, 3, true)
		if err != nil {
			log.Printf("ERR: %s\n", err)
			continue
		}
		humid, err := inst.ReadRegister(1, 1, 3, false)
		if err != nil {
			log.Printf("ERR: %s\n", err)
			continue
		}
		log.Printf("Temp %g Humid %g\n", temp, humid)
	}
}
