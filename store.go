package algopay

import (
	"encoding/json"
	"errors"
	"os"
	"path"
	"time"

	"github.com/usheguard/algopay/schema"
	bolt "go.etcd.io/bbolt"
)

const (
	boltAllocSize = 8 * 1024 * 1024
	boltName      = "algopay.db"
)

type Store struct {
	BoltDb *bolt.DB
}

func NewBoltStore(boltDirPath string) (*Store, error) {
	if len(boltDirPath) == 0 {
		return nil, errors.New("boltDb dir path can not null")
	}
	if err := os.MkdirAll(boltDirPath, os.ModePerm); err != nil {
		return nil, err
	}

	boltDB, err := bolt.Open(path.Join(boltDirPath, boltName), 0660, &bolt.Options{Timeout: 2 * time.Second, InitialMmapSize: 10e6})
	if err != nil {
		if err == bolt.ErrTimeout {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	boltDB.AllocSize = boltAllocSize

	kv := &Store{
		BoltDb: boltDB,
	}

	if err := kv.BoltDb.Update(func(tx *bolt.Tx) error {
		return createBuckets(tx,
			schema.TaskIdPendingPoolBucket,
			schema.TaskBucket,
		)
	}); err != nil {
		return nil, err
	}

	return kv, nil
}

func createBuckets(tx *bolt.Tx, buckets ...string) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.BoltDb.Close()
}

func (s *Store) PutPendingTaskId(taskId string) error {
	return s.BoltDb.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(schema.TaskIdPendingPoolBucket)).Put([]byte(taskId), []byte("0x01"))
	})
}

func (s *Store) DelPendingTaskId(taskId string) error {
	return s.BoltDb.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(schema.TaskIdPendingPoolBucket)).Delete([]byte(taskId))
	})
}

func (s *Store) LoadAllPendingTaskIds() ([]string, error) {
	taskIds := make([]string, 0)
	err := s.BoltDb.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(schema.TaskIdPendingPoolBucket)).ForEach(func(k, v []byte) error {
			taskIds = append(taskIds, string(k))
			return nil
		})
	})
	return taskIds, err
}

func (s *Store) SaveTask(taskId string, tk schema.VideoTask) error {
	val, err := json.Marshal(&tk)
	if err != nil {
		return err
	}
	return s.BoltDb.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(schema.TaskBucket)).Put([]byte(taskId), val)
	})
}

func (s *Store) LoadTask(taskId string) (*schema.VideoTask, error) {
	var data []byte
	err := s.BoltDb.View(func(tx *bolt.Tx) error {
		data = tx.Bucket([]byte(schema.TaskBucket)).Get([]byte(taskId))
		if data == nil {
			return schema.ErrNotExist
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	tk := &schema.VideoTask{}
	if err := json.Unmarshal(data, tk); err != nil {
		return nil, err
	}
	return tk, nil
}

// CleanExpiredTasks drops terminal task snapshots that began before the
// cutoff timestamp.
func (s *Store) CleanExpiredTasks(before int64) error {
	return s.BoltDb.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(schema.TaskBucket))
		expired := make([][]byte, 0)
		if err := bkt.ForEach(func(k, v []byte) error {
			tk := schema.VideoTask{}
			if err := json.Unmarshal(v, &tk); err != nil {
				expired = append(expired, append([]byte{}, k...))
				return nil
			}
			if tk.Timestamp < before {
				expired = append(expired, append([]byte{}, k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range expired {
			if err := bkt.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
