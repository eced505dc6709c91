package password

import "crypto/subtle"

// constantTimeEqual compares a and b in time that depends only on the length
// of the longer buffer. Unlike subtle.ConstantTimeCompare it does not return
// early when the lengths differ.
func constantTimeEqual(a, b []byte) bool {
	n := max(len(a), len(b))

	var v byte
	for i := 0; i < n; i++ {
		v |= byteAt(a, i) ^ byteAt(b, i)
	}

	sameLen := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))
	return (subtle.ConstantTimeByteEq(v, 0) & sameLen) == 1
}

func byteAt(b []byte, i int) byte {
	if i < len(b) {
		return b[i]
	}
	return 0
}
