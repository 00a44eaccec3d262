/*
Package lz2 implements the LZ2 compression scheme used for the graphics in
A Link to the Past.

A compressed stream is a sequence of commands terminated by a 0xff byte. Each
command starts with a header byte; the upper three bits select the command and
the lower five bits hold the length minus one. A command of 7 marks an
extended header where the next three bits select the command and the
remaining ten bits, spread over the header and the following byte, hold the
length minus one.

	0 copy the following bytes verbatim
	1 repeat the following byte
	2 alternate the following two bytes
	3 write the following byte, incrementing it each time
	4 copy bytes already written, starting at the little-endian offset that follows
*/
package lz2

import (
	"errors"
	"fmt"
)

const (
	cmdDirect = iota
	cmdByteFill
	cmdWordFill
	cmdIncreasingFill
	cmdRepeat
	cmdExtended = 7
)

const (
	terminator = 0xff

	maxShort  = 32
	maxLength = 1024
	maxOffset = 0xffff
)

// ErrCorrupt is returned when a stream cannot be decompressed
var ErrCorrupt = errors.New("lz2: corrupt stream")

// Decompress expands src until a terminator byte is found. Reaching the end
// of src is also treated as the end of the stream, a command that runs past
// the end only contributes the bytes that are present.
func Decompress(src []byte) ([]byte, error) {
	var out []byte

	pos := 0
	for pos < len(src) {
		h := src[pos]
		if h == terminator {
			return out, nil
		}
		pos++

		cmd := int(h >> 5)
		length := int(h&0x1f) + 1
		if cmd == cmdExtended {
			if pos >= len(src) {
				break
			}
			cmd = int(h>>2) & 0x07
			length = (int(h&0x03)<<8 | int(src[pos])) + 1
			pos++
		}

		switch cmd {
		case cmdDirect:
			end := pos + length
			if end > len(src) {
				end = len(src)
			}
			out = append(out, src[pos:end]...)
			pos = end
		case cmdByteFill:
			if pos >= len(src) {
				return out, nil
			}
			b := src[pos]
			pos++
			for i := 0; i < length; i++ {
				out = append(out, b)
			}
		case cmdWordFill:
			if pos+1 >= len(src) {
				return out, nil
			}
			w := src[pos : pos+2]
			pos += 2
			for i := 0; i < length; i++ {
				out = append(out, w[i&1])
			}
		case cmdIncreasingFill:
			if pos >= len(src) {
				return out, nil
			}
			b := src[pos]
			pos++
			for i := 0; i < length; i++ {
				out = append(out, b+byte(i))
			}
		case cmdRepeat:
			if pos+1 >= len(src) {
				return out, nil
			}
			offset := int(src[pos]) | int(src[pos+1])<<8
			pos += 2
			if offset >= len(out) {
				return nil, fmt.Errorf("%w: repeat offset %#04x beyond %d bytes of output", ErrCorrupt, offset, len(out))
			}
			// Byte at a time as the source may overlap what is being written
			for i := 0; i < length; i++ {
				out = append(out, out[offset+i])
			}
		default:
			return nil, fmt.Errorf("%w: unknown command %d at offset %d", ErrCorrupt, cmd, pos-1)
		}
	}

	return out, nil
}
