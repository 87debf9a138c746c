package databuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrShortBuffer = errors.New("databuffer: read past end of buffer")

// DataBuffer is a big endian append writer and sequential reader over one byte slice.
// Reads do not return errors one by one, the first failure sticks and is reported by Err.
type DataBuffer struct {
	Buf    []byte
	Offset int
	err    error
}

func New(size int) *DataBuffer {
	return &DataBuffer{
		Buf: make([]byte, 0, size),
	}
}

// FromBytes wraps buf for reading from the start.
func FromBytes(buf []byte) *DataBuffer {
	return &DataBuffer{
		Buf: buf,
	}
}

func (d *DataBuffer) Bytes() []byte {
	return d.Buf
}

func (d *DataBuffer) Len() int {
	return len(d.Buf)
}

// Grow makes sure n more bytes can be written without reallocating.
func (d *DataBuffer) Grow(n int) {
	if cap(d.Buf)-len(d.Buf) >= n {
		return
	}
	newBuf := make([]byte, len(d.Buf), len(d.Buf)+n)
	copy(newBuf, d.Buf)
	d.Buf = newBuf
}

func (d *DataBuffer) WriteUint8(v uint8) {
	d.Buf = append(d.Buf, v)
}

func (d *DataBuffer) WriteBool(v bool) {
	if v {
		d.WriteUint8(1)
		return
	}
	d.WriteUint8(0)
}

func (d *DataBuffer) WriteUint16(v uint16) {
	d.Buf = binary.BigEndian.AppendUint16(d.Buf, v)
}

func (d *DataBuffer) WriteUint32(v uint32) {
	d.Buf = binary.BigEndian.AppendUint32(d.Buf, v)
}

func (d *DataBuffer) WriteInt8(v int8) {
	d.WriteUint8(uint8(v))
}

func (d *DataBuffer) WriteInt16(v int16) {
	d.WriteUint16(uint16(v))
}

func (d *DataBuffer) WriteInt32(v int32) {
	d.WriteUint32(uint32(v))
}

// WriteString writes a u16 length followed by the bytes. Longer strings are cut.
func (d *DataBuffer) WriteString(s string) {
	if len(s) > 0xffff {
		s = s[:0xffff]
	}
	d.WriteUint16(uint16(len(s)))
	d.Buf = append(d.Buf, s...)
}

func (d *DataBuffer) WriteBytes(b []byte) {
	d.Buf = append(d.Buf, b...)
}

// PutUint16At overwrites an already written u16.
func (d *DataBuffer) PutUint16At(offset int, v uint16) {
	binary.BigEndian.PutUint16(d.Buf[offset:], v)
}

func (d *DataBuffer) Err() error {
	return d.err
}

func (d *DataBuffer) Remaining() int {
	return len(d.Buf) - d.Offset
}

func (d *DataBuffer) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.Offset+n > len(d.Buf) {
		d.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, d.Offset, len(d.Buf))
		return nil
	}
	b := d.Buf[d.Offset : d.Offset+n]
	d.Offset += n
	return b
}

func (d *DataBuffer) ReadUint8() uint8 {
	b := d.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *DataBuffer) ReadBool() bool {
	return d.ReadUint8() != 0
}

func (d *DataBuffer) ReadUint16() uint16 {
	b := d.next(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *DataBuffer) ReadUint32() uint32 {
	b := d.next(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (d *DataBuffer) ReadInt8() int8 {
	return int8(d.ReadUint8())
}

func (d *DataBuffer) ReadInt16() int16 {
	return int16(d.ReadUint16())
}

func (d *DataBuffer) ReadInt32() int32 {
	return int32(d.ReadUint32())
}

func (d *DataBuffer) ReadString() string {
	n := int(d.ReadUint16())
	b := d.next(n)
	if b == nil {
		return ""
	}
	return string(b)
}
