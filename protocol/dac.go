package protocol

// DACCommandBase selects channel A, unbuffered reference, 1x gain and
// active output on the 8-bit SPI DAC.
const DACCommandBase = 0x3000

// DACWord frames an 8-bit value into the 16-bit DAC command word. The
// value occupies bits 4-11.
func DACWord(value uint8) uint16 {
	return DACCommandBase | uint16(value)<<4
}

// DACFrame returns the DAC command word for value split into the two bytes
// sent on the wire, high byte first.
func DACFrame(value uint8) (hi, lo byte) {
	w := DACWord(value)
	return byte(w >> 8), byte(w & 0xFF)
}

// DACValue recovers the 8-bit value from a received command word.
func DACValue(word uint16) uint8 {
	return uint8(word >> 4)
}
