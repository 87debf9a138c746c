package kvdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVDB(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "maps.db"), false)
	require.NoError(t, err)
	defer db.Close()

	err = db.SaveBatch("items:1", []Entry{
		{Key: Uint32Key(7), Value: []byte("seven")},
		{Key: Uint32Key(3), Value: []byte("three")},
	})
	require.NoError(t, err)

	v, err := db.Get("items:1", Uint32Key(7))
	require.NoError(t, err)
	assert.Equal(t, []byte("seven"), v)

	_, err = db.Get("items:1", Uint32Key(8))
	assert.ErrorIs(t, err, ErrorsKeyNotExists)
	_, err = db.Get("items:2", Uint32Key(7))
	assert.ErrorIs(t, err, ErrorsBucketNotExists)

	var keys []string
	require.NoError(t, db.ForEach("items:1", func(k, _ []byte) error {
		keys = append(keys, string(k))
		return nil
	}))
	assert.Equal(t, []string{"3", "7"}, keys)

	require.NoError(t, db.Put("meta", []byte("a"), []byte("b")))
	buckets, err := db.Buckets()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"items:1", "meta"}, buckets)

	require.NoError(t, db.DeleteBucket("meta"))
	require.NoError(t, db.DeleteBucket("meta"))
	buckets, err = db.Buckets()
	require.NoError(t, err)
	assert.Equal(t, []string{"items:1"}, buckets)
}
