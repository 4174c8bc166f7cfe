package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // Format version, timestamps, store ID - unencrypted
	NotesBucket  = []byte("notes")  // Notes keyed by ID; envelopes are already encrypted
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigStoreID  = []byte("store_id")
)

const formatVersion = "1"

// Storage provides BBolt-based note storage
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a note database and makes sure its buckets exist
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db}

	initialized, err := s.IsInitialized()
	if err != nil {
		db.Close()
		return nil, err
	}
	if !initialized {
		if err := s.Initialize(); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// Initialize creates the bucket structure for a new store
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, NotesBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte(formatVersion)); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil && tx.Bucket(NotesBucket) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	var modified time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// GetStoreID retrieves the store ID from config bucket
func (s *Storage) GetStoreID() (string, error) {
	var storeID string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigStoreID)
		if data == nil {
			return fmt.Errorf("store_id not found")
		}
		storeID = string(data)
		return nil
	})
	return storeID, err
}

// GetOrCreateStoreID retrieves the existing store ID or generates a new one
func (s *Storage) GetOrCreateStoreID() (string, error) {
	storeID, err := s.GetStoreID()
	if err == nil {
		return storeID, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate store ID: %w", err)
	}
	storeID = hex.EncodeToString(b)

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(ConfigBucket).Put(ConfigStoreID, []byte(storeID))
	})
	if err != nil {
		return "", err
	}

	return storeID, nil
}

// touch updates the last modified timestamp inside tx
func touch(tx *bolt.Tx) error {
	modified, _ := time.Now().MarshalBinary()
	return tx.Bucket(ConfigBucket).Put(ConfigModified, modified)
}

// Put stores a note, replacing any note with the same ID
func (s *Storage) Put(_ context.Context, note Note) error {
	if note.ID == "" {
		return fmt.Errorf("note ID is required")
	}

	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to encode note: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(NotesBucket).Put([]byte(note.ID), data); err != nil {
			return err
		}
		return touch(tx)
	})
}

// Get retrieves a note by ID
func (s *Storage) Get(_ context.Context, id string) (*Note, error) {
	var note *Note
	err := s.db.View(func(tx *bolt.Tx) error {
		notes := tx.Bucket(NotesBucket)
		if notes == nil {
			return fmt.Errorf("notes bucket not found")
		}
		data := notes.Get([]byte(id))
		if data == nil {
			return ErrNoteNotFound
		}
		// Unmarshal copies, so the slice need not outlive the transaction
		note = &Note{}
		return json.Unmarshal(data, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note by ID
func (s *Storage) Delete(_ context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		notes := tx.Bucket(NotesBucket)
		if notes.Get([]byte(id)) == nil {
			return ErrNoteNotFound
		}
		if err := notes.Delete([]byte(id)); err != nil {
			return err
		}
		return touch(tx)
	})
}

// List returns all notes, oldest first
func (s *Storage) List(_ context.Context) ([]Note, error) {
	var list []Note
	err := s.db.View(func(tx *bolt.Tx) error {
		notes := tx.Bucket(NotesBucket)
		if notes == nil {
			return nil
		}
		return notes.ForEach(func(k, v []byte) error {
			var note Note
			if err := json.Unmarshal(v, &note); err != nil {
				return fmt.Errorf("failed to decode note %s: %w", k, err)
			}
			list = append(list, note)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Created.Before(list[j].Created)
	})
	return list, nil
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after deleting notes to reclaim disk space.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// Copy all buckets
	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
