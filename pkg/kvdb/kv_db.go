package kvdb

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

var (
	ErrorsKeyNotExists    = errors.New("key not exists")
	ErrorsBucketNotExists = errors.New("bucket not exists")
)

type Entry struct {
	Key   []byte
	Value []byte
}

type KVDB struct {
	db *bbolt.DB
	sync.Mutex
}

func NewKVDB(db *bbolt.DB) *KVDB {

	return &KVDB{db,
		sync.Mutex{}}
}

func Open(path string, readOnly bool) (*KVDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("open bolt db %s: %w", path, err)
	}
	return NewKVDB(db), nil
}

func (db *KVDB) Close() error {
	return db.db.Close()
}

func Uint32Key(id uint32) []byte {
	return []byte(strconv.FormatUint(uint64(id), 10))
}

// SaveBatch writes entries into bucket, creating it when needed. batching
func (db *KVDB) SaveBatch(bucket string, entries []Entry) error {
	db.Lock()
	defer db.Unlock()
	return db.db.Batch(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := b.Put(e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil // harus return nil , kalau return err kena rollback txn-nya
	})
}

func (db *KVDB) Put(bucket string, key, value []byte) error {
	return db.SaveBatch(bucket, []Entry{{Key: key, Value: value}})
}

// Get returns a copy of the value, bolt values are only valid inside the transaction.
func (db *KVDB) Get(bucket string, key []byte) (value []byte, err error) {
	err = db.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrorsBucketNotExists
		}
		v := b.Get(key)
		if v == nil {
			return ErrorsKeyNotExists
		}
		value = append(make([]byte, 0, len(v)), v...)
		return nil
	})
	return
}

// ForEach calls fn with every key/value of bucket in key order. The slices are only valid
// during the call.
func (db *KVDB) ForEach(bucket string, fn func(k, v []byte) error) error {
	return db.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrorsBucketNotExists
		}
		return b.ForEach(fn)
	})
}

func (db *KVDB) Buckets() ([]string, error) {
	var res []string
	err := db.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			res = append(res, string(name))
			return nil
		})
	})
	return res, err
}

func (db *KVDB) DeleteBucket(bucket string) error {
	db.Lock()
	defer db.Unlock()
	return db.db.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket([]byte(bucket))
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}
