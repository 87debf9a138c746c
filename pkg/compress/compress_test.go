package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		indexList []int
	}{
		{
			indexList: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		{
			indexList: []int{0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 100, 1300, 1500},
		},
		{
			indexList: []int{1300, 1500, 2000, 3000, 4000, 5000, 6000, 7000, 8000, 9000},
		},
		{
			indexList: []int{10000, 12000, 15000, 16000, 19000, 23000},
		},
		{
			indexList: []int{1000000, 1200000, 1300000, 1400000, 1500000, 1600000},
		},
		{
			indexList: []int{},
		},
	}

	for _, tt := range tests {
		t.Run("test encode decode", func(t *testing.T) {
			encoded := EncodeIndexList(tt.indexList)
			decoded, err := DecodeIndexList(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.indexList, decoded)
		})
	}

	t.Run("gaps are small", func(t *testing.T) {
		encoded := EncodeIndexList([]int{1000000, 1000001, 1000002})
		assert.Len(t, encoded, 3+2)
	})

	t.Run("truncated varint", func(t *testing.T) {
		_, err := DecodeIndexList([]byte{0x81})
		assert.Error(t, err)
	})
}

func TestZstd(t *testing.T) {
	src := bytes.Repeat([]byte("country polygon "), 200)
	packed := Zstd(src)
	assert.Less(t, len(packed), len(src))

	out, err := Unzstd(packed)
	require.NoError(t, err)
	assert.Equal(t, src, out)

	_, err = Unzstd([]byte("not zstd"))
	assert.Error(t, err)
}
