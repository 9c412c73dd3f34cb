package bolt

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketUsers      = []byte("users")       // id -> JSON документ пользователя
	bucketEmailIndex = []byte("email_index") // нормализованный email -> id
)

// Storage represents BoltDB document storage implementation
// Каждый пользователь хранится одним JSON документом, уникальность email
// обеспечивается индексным bucket внутри той же write транзакции
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports whether the database file is usable
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketUsers) == nil {
			return fmt.Errorf("users bucket not found")
		}
		return nil
	})
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		// Создаем bucket для документов пользователей
		if _, err := tx.CreateBucketIfNotExists(bucketUsers); err != nil {
			return fmt.Errorf("failed to create users bucket: %w", err)
		}

		// Создаем индексный bucket email -> id
		if _, err := tx.CreateBucketIfNotExists(bucketEmailIndex); err != nil {
			return fmt.Errorf("failed to create email index bucket: %w", err)
		}

		return nil
	})
}
