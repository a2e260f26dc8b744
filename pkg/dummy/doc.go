// Package dummy implements a simulated register device.
//
// A Device holds the registers described by a register map in memory.
// Accessors opened on it behave like those of a real backend: poll-type
// reads copy the current register content, push-type accessors receive a
// value whenever the device is triggered, as if an interrupt had fired.
//
// Register maps are YAML files:
//
//	device: adc-board
//	registers:
//	  - name: adc/ch0
//	    address: 0x100
//	    access: ro
//	    push: true
//	    fractional_bits: 8
//	  - name: ctrl/setpoint
//	    address: 0x200
//	    words: 4
//	    type: int16
//
// Every register holds 32-bit signed words. Scalar and Array return typed
// accessors that convert between the raw words and the user type, treating
// the words as fixed-point numbers with the configured number of fractional
// bits. With transfer.Raw the conversion is skipped.
package dummy
