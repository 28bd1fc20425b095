package content

// SplitLines splits on \n and \r\n. A lone \r is kept as content and a
// trailing line terminator does not produce an empty last element.
func SplitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		switch {
		case content[i] == '\n':
			lines = append(lines, content[start:i])
			start = i + 1
		case content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n':
			lines = append(lines, content[start:i])
			i++
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}
