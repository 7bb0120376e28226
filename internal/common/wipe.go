package common

// WipeBytes zeroes b in place. Used for passwords read from the terminal.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
