package lz2

type encoder struct {
	out     []byte
	literal []byte
}

func (e *encoder) header(cmd, length int) {
	n := length - 1
	if length <= maxShort {
		e.out = append(e.out, byte(cmd<<5|n))
		return
	}
	e.out = append(e.out, byte(cmdExtended<<5|cmd<<2|n>>8), byte(n&0xff))
}

func (e *encoder) flush() {
	for len(e.literal) > 0 {
		n := len(e.literal)
		if n > maxLength {
			n = maxLength
		}
		e.header(cmdDirect, n)
		e.out = append(e.out, e.literal[:n]...)
		e.literal = e.literal[n:]
	}
	e.literal = nil
}

func byteFillLength(src []byte, i int) int {
	n := 1
	for limit := min(len(src)-i, maxLength); n < limit && src[i+n] == src[i]; n++ {
	}
	return n
}

func wordFillLength(src []byte, i int) int {
	if i+1 >= len(src) {
		return 0
	}
	n := 2
	for limit := min(len(src)-i, maxLength); n < limit && src[i+n] == src[i+n&1]; n++ {
	}
	return n
}

func increasingFillLength(src []byte, i int) int {
	n := 1
	for limit := min(len(src)-i, maxLength); n < limit && src[i+n] == src[i]+byte(n); n++ {
	}
	return n
}

// Find the longest earlier occurrence of the bytes at i, the match may run
// into the bytes being encoded
func repeatLength(src []byte, i int) (int, int) {
	var best, bestOffset int
	limit := min(len(src)-i, maxLength)
	for j := 0; j < i && j <= maxOffset; j++ {
		n := 0
		for n < limit && src[j+n] == src[i+n] {
			n++
		}
		if n > best {
			best, bestOffset = n, j
			if n == limit {
				break
			}
		}
	}
	return best, bestOffset
}

// Compress encodes src, always appending a terminator byte
func Compress(src []byte) []byte {
	e := encoder{}

	for i := 0; i < len(src); {
		// Candidate commands and the number of argument bytes each costs
		type candidate struct {
			cmd    int
			length int
			args   []byte
		}

		candidates := []candidate{
			{cmdByteFill, byteFillLength(src, i), []byte{src[i]}},
			{cmdIncreasingFill, increasingFillLength(src, i), []byte{src[i]}},
		}
		if n := wordFillLength(src, i); n > 0 {
			candidates = append(candidates, candidate{cmdWordFill, n, []byte{src[i], src[i+1]}})
		}
		if n, offset := repeatLength(src, i); n > 0 {
			candidates = append(candidates, candidate{cmdRepeat, n, []byte{byte(offset), byte(offset >> 8)}})
		}

		// Pick the command saving the most bytes compared with a verbatim
		// copy; anything not saving at least two bytes stays literal
		var best *candidate
		bestSaving := 1
		for k := range candidates {
			c := &candidates[k]
			saving := c.length - len(c.args) - 1
			if saving > bestSaving {
				best, bestSaving = c, saving
			}
		}

		if best == nil {
			e.literal = append(e.literal, src[i])
			i++
			continue
		}

		e.flush()
		e.header(best.cmd, best.length)
		e.out = append(e.out, best.args...)
		i += best.length
	}

	e.flush()

	return append(e.out, terminator)
}
