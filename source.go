package peekback

import "io"

// source is the engine's view of a raw stream: blocking reads that come back
// short only at end of stream.
type source[E Elem] interface {
	// ReadN reads up to n elements, blocking until data or end of stream.
	// n < 0 reads to end of stream. The result is shorter than n only at
	// end of stream; underlying errors are returned with any partial data.
	ReadN(n int) ([]E, error)
	// ReadLine reads through the next newline, or to end of stream.
	ReadLine() ([]E, error)
}

// lineReader is the optional line-read primitive of a raw handle, in the
// shape bufio.Reader provides. When present it spares ReadLine the
// element-by-element delimiter scan.
type lineReader interface {
	ReadBytes(delim byte) ([]byte, error)
}

type byteSource struct {
	r  io.Reader
	lr lineReader // nil when the raw handle has no line primitive
}

func (b *byteSource) ReadN(n int) ([]byte, error) {
	if n < 0 {
		return io.ReadAll(b.r)
	}
	buf := make([]byte, n)
	var have int
	for have < n {
		nn, err := b.r.Read(buf[have:])
		have += nn
		if err == io.EOF {
			break
		}
		if err != nil {
			return buf[:have], err
		}
	}
	return buf[:have], nil
}

func (b *byteSource) ReadLine() ([]byte, error) {
	if b.lr == nil {
		return scanLine[byte](b)
	}
	line, err := b.lr.ReadBytes('\n')
	if err == io.EOF {
		err = nil
	}
	return line, err
}

type runeSource struct {
	r io.RuneReader
}

func (rs *runeSource) ReadN(n int) ([]rune, error) {
	var out []rune
	for n < 0 || len(out) < n {
		c, _, err := rs.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (rs *runeSource) ReadLine() ([]rune, error) {
	return scanLine[rune](rs)
}

// scanLine is the generic delimiter scan specialized to a one-element
// delimiter, for sources without a native line primitive.
func scanLine[E Elem](src source[E]) ([]E, error) {
	var line []E
	for {
		chunk, err := src.ReadN(1)
		line = append(line, chunk...)
		if err != nil {
			return line, err
		}
		if len(chunk) == 0 || chunk[0] == E('\n') {
			return line, nil
		}
	}
}
