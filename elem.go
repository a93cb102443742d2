package peekback

// Elem constrains stream elements to byte or rune shapes. Which one a Stream
// carries is fixed when the raw handle is wrapped.
type Elem interface{ ~byte | ~rune }

// index returns the offset of the first occurrence of needle in hay, or -1.
func index[E Elem](hay, needle []E) int {
	if len(needle) == 0 {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j := range needle {
			if hay[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

func hasSuffix[E Elem](data, suffix []E) bool {
	if len(data) < len(suffix) {
		return false
	}
	off := len(data) - len(suffix)
	for i := range suffix {
		if data[off+i] != suffix[i] {
			return false
		}
	}
	return true
}

// overlap returns the length of the longest suffix of data that is a proper
// prefix of delim. During a delimiter scan, len(delim)-overlap elements are
// the fewest that could complete an occurrence, so that is how much the next
// raw read requests.
func overlap[E Elem](data, delim []E) int {
	n := len(delim) - 1
	if len(data) < n {
		n = len(data)
	}
	for ; n > 0; n-- {
		if hasSuffix(data, delim[:n]) {
			return n
		}
	}
	return 0
}
