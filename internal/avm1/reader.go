package avm1

import (
	"bytes"
	"fmt"
	"math"

	"github.com/icza/bitio"
)

// cursor is the reader cursor over one action byte stream. Each
// multi-byte read opens a fresh bitio.Reader over the remaining slice —
// the same byte/bit reader SentryShot uses for its RTP/SDP field
// parsing — and advances pos by the bytes actually consumed, so that
// jump() can still reposition the cursor arbitrarily (bitio.Reader
// itself is a forward-only stream reader with no Seek).
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.data) }

func (c *cursor) reader() *bitio.Reader {
	return bitio.NewReader(bytes.NewReader(c.data[c.pos:]))
}

func (c *cursor) readByte() (byte, error) {
	b, err := c.reader().ReadByte()
	if err != nil {
		return 0, fmt.Errorf("avm1: read past end of action stream: %w", err)
	}
	c.pos++
	return b, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if c.pos+n > len(c.data) {
		return nil, fmt.Errorf("avm1: read past end of action stream")
	}
	r := c.reader()
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("avm1: read past end of action stream: %w", err)
		}
		buf[i] = b
	}
	c.pos += n
	return buf, nil
}

func (c *cursor) readU16() (uint16, error) {
	r := c.reader()
	bits, err := r.ReadBits(16)
	if err != nil {
		return 0, fmt.Errorf("avm1: read past end of action stream: %w", err)
	}
	c.pos += 2
	// SWF fields are little-endian; bitio.ReadBits is big-endian bit
	// order, so the two bytes must be swapped back.
	v := uint16(bits)
	return v>>8 | v<<8, nil
}

func (c *cursor) readS16() (int16, error) {
	u, err := c.readU16()
	return int16(u), err
}

func (c *cursor) readU32() (uint32, error) {
	lo, err := c.readU16()
	if err != nil {
		return 0, err
	}
	hi, err := c.readU16()
	if err != nil {
		return 0, err
	}
	return uint32(lo) | uint32(hi)<<16, nil
}

func (c *cursor) readFloat32() (float32, error) {
	u, err := c.readU32()
	return math.Float32frombits(u), err
}

func (c *cursor) readFloat64() (float64, error) {
	hi, err := c.readU32()
	if err != nil {
		return 0, err
	}
	lo, err := c.readU32()
	if err != nil {
		return 0, err
	}
	// SWF stores doubles as two little-endian 32-bit words, high word
	// first in file order.
	bits := uint64(hi)<<32 | uint64(lo)
	return math.Float64frombits(bits), nil
}

func (c *cursor) readCString() (string, error) {
	start := c.pos
	for c.pos < len(c.data) && c.data[c.pos] != 0 {
		c.pos++
	}
	if c.pos >= len(c.data) {
		return "", fmt.Errorf("avm1: unterminated string")
	}
	s := string(c.data[start:c.pos])
	c.pos++ // consume NUL
	return s, nil
}

// skipActions advances past the next n action records without
// executing them, each one an opcode byte plus, for opcodes >= 0x80, a
// little-endian u16 length and that many operand bytes. Stops early and
// returns nil if the stream runs out before n records are consumed,
// matching WaitForFrame's skip count being allowed to run past the end
// of the action list; an End opcode counts as an ordinary record, and a
// record cut off inside its length or operands is an error.
func (c *cursor) skipActions(n int) error {
	for i := 0; i < n && !c.atEnd(); i++ {
		opByte, err := c.readByte()
		if err != nil {
			return err
		}
		op := Opcode(opByte)
		if !op.HasOperands() {
			continue
		}
		length, err := c.readU16()
		if err != nil {
			return err
		}
		if _, err := c.readBytes(int(length)); err != nil {
			return err
		}
	}
	return nil
}

// jump moves the cursor by a signed byte offset measured from the
// position immediately after the opcode body that issued it.
func (c *cursor) jump(offset int16) {
	c.pos += int(offset)
	if c.pos < 0 {
		c.pos = 0
	}
	if c.pos > len(c.data) {
		c.pos = len(c.data)
	}
}
