package porter

// streaming.go cleans import files on the fly before they reach the CSV
// parser. Spreadsheet tools on Windows prefix exports with a UTF-8 BOM, which
// would otherwise glue itself to the first header and break label matching,
// and legacy encodings leave bytes that are not valid UTF-8.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// cleanReader drops a leading BOM and replaces invalid UTF-8 bytes with
// U+FFFD. Memory use is bounded by the bufio buffer.
type cleanReader struct {
	br      *bufio.Reader
	pending []byte
}

func newCleanReader(r io.Reader) *cleanReader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return &cleanReader{br: br}
}

func (c *cleanReader) Read(p []byte) (int, error) {
	n := 0
	var enc [utf8.UTFMax]byte
	for n < len(p) {
		if len(c.pending) > 0 {
			k := copy(p[n:], c.pending)
			c.pending = c.pending[k:]
			n += k
			continue
		}

		r, _, err := c.br.ReadRune()
		if err != nil {
			if n > 0 {
				// Report the error on the next call.
				return n, nil
			}
			return 0, err
		}

		// Invalid bytes come back as (RuneError, 1) and are re-encoded as
		// the 3-byte replacement character.
		k := utf8.EncodeRune(enc[:], r)
		if k <= len(p)-n {
			copy(p[n:], enc[:k])
			n += k
		} else {
			c.pending = append(c.pending[:0], enc[:k]...)
		}

		// Hand buffered data back once the underlying reader would block.
		if c.br.Buffered() == 0 && len(c.pending) == 0 {
			break
		}
	}
	return n, nil
}
