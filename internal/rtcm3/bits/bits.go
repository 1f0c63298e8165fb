// Package bits extracts unsigned and two's-complement signed integers from
// a big-endian bitstream, the way every RTCM3 field is packed.  It has no
// dependencies so every other rtcm3 subpackage can use it without risking
// an import cycle.
package bits

// GetUint64 extracts length bits from buff, starting at bit position pos,
// and returns them as an unsigned value.  See RTKLIB's getbitu.
func GetUint64(buff []byte, pos, length uint) uint64 {
	var result uint64
	for i := pos; i < pos+length; i++ {
		byteNumber := i / 8
		shiftBy := 7 - i%8
		bit := (uint64(buff[byteNumber]) >> shiftBy) & 1
		result = (result << 1) | bit
	}
	return result
}

// GetInt64 extracts length bits from buff, starting at bit position pos,
// interprets the bits as a two's-complement integer and returns the result
// as a signed 64-bit value.  See RTKLIB's getbits.
func GetInt64(buff []byte, pos, length uint) int64 {
	negative := GetUint64(buff, pos, 1) == 1
	uval := GetUint64(buff, pos, length)
	if !negative {
		return int64(uval)
	}
	mask := uint64(2) << (length - 2)
	weightOfTopBit := int64(uval & mask)
	weightOfLowerBits := int64(uval & ^mask)
	return (-1 * weightOfTopBit) + weightOfLowerBits
}

// CountSignalCells returns the number of fixed-size signal cells packed into
// the bits of buff starting at startPosition, ignoring trailing zero padding.
// MSM messages lay out all the range deltas, then all the phase range
// deltas and so on, rather than cell by cell, so a trailing run of
// all-zero cells can't be told apart from real, all-zero data just by
// looking at one cell - instead we look for the longest run of trailing
// all-zero cells and assume that's padding.
func CountSignalCells(buff []byte, startPosition, bitsPerCell uint) int {
	bitsLeft := uint(len(buff))*8 - startPosition
	cellsLeft := int(bitsLeft / bitsPerCell)

	cells := make([]uint64, 0, cellsLeft)
	pos := startPosition
	for i := 0; i < cellsLeft; i++ {
		cells = append(cells, GetUint64(buff, pos, bitsPerCell))
		pos += bitsPerCell
	}

	for len(cells) > 0 && cells[len(cells)-1] == 0 {
		cells = cells[:len(cells)-1]
	}

	return len(cells)
}
