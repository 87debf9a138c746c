package compress

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var BITMASK = []byte{
	0b00000001,
	0b00000011,
	0b00000111,
	0b00001111,
	0b00011111,
	0b00111111,
	0b01111111,
	0b11111111,
}

func getLSB(x byte, n uint8) byte {
	if n > 8 {
		panic("can extract at max 8 bits from the number")
	}
	return x & BITMASK[n-1]
}

var bitShifts = [10]uint8{7, 7, 7, 7, 7, 7, 7, 7, 7, 1}

var bufPool = sync.Pool{
	New: func() any {
		return new([11]byte)
	},
}

func appendUVarint(dst []byte, x uint64) []byte {
	var i int = 0
	buf := bufPool.Get().(*[11]byte)
	for i = 0; i < len(bitShifts); i++ {
		buf[i] = getLSB(byte(x), bitShifts[i]) | 0b10000000
		x = x >> bitShifts[i]
		if x == 0 {
			break
		}
	}

	buf[i] = buf[i] & 0b01111111
	dst = append(dst, buf[:i+1]...)
	bufPool.Put(buf)
	return dst
}

// EncodeIndexList writes an ascending index list as varint gaps. The first value is
// written as is.
func EncodeIndexList(arr []int) []byte {
	buf := make([]byte, 0, len(arr))
	prev := 0
	for _, v := range arr {
		buf = appendUVarint(buf, uint64(v-prev))
		prev = v
	}
	return buf
}

func DecodeIndexList(buf []byte) ([]int, error) {
	results := make([]int, 0, len(buf))
	prev := 0
	for len(buf) > 0 {
		v, n := binary.Uvarint(buf)
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at byte %d", len(buf))
		}
		prev += int(v)
		results = append(results, prev)
		buf = buf[n:]
	}
	return results, nil
}

// zstd encoder/decoder are safe for concurrent EncodeAll/DecodeAll.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
)

func Zstd(src []byte) []byte {
	return encoder.EncodeAll(src, make([]byte, 0, len(src)/2))
}

func Unzstd(src []byte) ([]byte, error) {
	out, err := decoder.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}
