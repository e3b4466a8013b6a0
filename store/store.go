// Package store keeps named pedigrees (families) in a bolt database.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carbocation/pfx"
	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/heredity/pedigree"
)

// log is the global logging variable.
var log = logging.MustGetLogger("store")

// FAMILIES is the bucket name for all the families.
var FAMILIES = []byte("families")

// openTimeout is the maximum time to wait for the database lock.
const openTimeout = 5 * time.Second

// ErrNotFound is returned for a missing family.
var ErrNotFound = errors.New("family not found")

// Store provides operations with families.
type Store struct {
	db *bolt.DB
}

// Open opens or creates a database file.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, pfx.Err(err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a pedigree under the family name, replacing the
// previous one.
func (s *Store) Save(family string, ped *pedigree.Pedigree) error {
	if family == "" {
		return errors.New("empty family name")
	}
	data, err := json.Marshal(ped.Records())
	if err != nil {
		log.Error("Error serializing family", err)
		return err
	}
	err = SaveData(s.db, []byte(family), data)
	if err != nil {
		log.Error("Error saving family", err)
		return err
	}
	log.Infof("Saved family %q: %s", family, ped)
	return nil
}

// Load returns a stored pedigree.
func (s *Store) Load(family string) (*pedigree.Pedigree, error) {
	data, err := LoadData(s.db, []byte(family))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, family)
	}

	var records []pedigree.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("family %q: %v", family, err)
	}
	ped, err := pedigree.New(records)
	if err != nil {
		return nil, fmt.Errorf("family %q: %w", family, err)
	}
	log.Infof("Loaded family %q: %s", family, ped)
	return ped, nil
}

// Families returns names of all the stored families in the
// lexicographical order.
func (s *Store) Families() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(FAMILIES)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Delete removes a family.
func (s *Store) Delete(family string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(FAMILIES)
		if b == nil || b.Get([]byte(family)) == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, family)
		}
		return b.Delete([]byte(family))
	})
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(FAMILIES)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// LoadData loads data from bolt database. It returns nil if the key
// is not present.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(FAMILIES)
		if b == nil {
			return nil
		}
		// the value is only valid during the transaction
		if v := b.Get(key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
