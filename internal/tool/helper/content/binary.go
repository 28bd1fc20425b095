package content

// binarySampleSize is the prefix scanned for NUL bytes, the same window git uses.
const binarySampleSize = 8000

// IsBinaryContent reports whether content looks binary: a NUL byte in the
// first binarySampleSize bytes. UTF-16/UTF-32 byte order marks mark text.
func IsBinaryContent(content []byte) bool {
	if hasWideBOM(content) {
		return false
	}
	sample := content[:min(len(content), binarySampleSize)]
	for _, b := range sample {
		if b == 0 {
			return true
		}
	}
	return false
}

func hasWideBOM(b []byte) bool {
	switch {
	case len(b) >= 4 && b[0] == 0x00 && b[1] == 0x00 && b[2] == 0xFE && b[3] == 0xFF:
		return true
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE:
		// covers UTF-16LE and UTF-32LE
		return true
	case len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF:
		return true
	}
	return false
}
