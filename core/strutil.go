package core

// utoa converts an unsigned integer to a string without using fmt.
// Takes uint32 because int is 16 bits wide on AVR targets.
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}
