package dummy_test

const testMap = `
device: test-board
registers:
  - name: adc/ch0
    address: 0x100
    access: ro
    push: true
    fractional_bits: 8
  - name: adc/ch1
    address: 0x104
    access: ro
    push: true
  - name: ctrl/setpoint
    address: 0x200
    words: 4
    type: int16
  - name: ctrl/gain
    address: 0x210
    fractional_bits: 4
  - name: status
    address: 0x300
    access: wo
`
