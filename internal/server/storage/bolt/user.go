package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/easygen/auth-service/internal/models"
	"github.com/easygen/auth-service/internal/server/storage"
)

// CreateUser creates a new user document
// Проверка уникальности email и запись документа происходят в одной
// write транзакции, поэтому гонка двух одинаковых signup невозможна
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		index := tx.Bucket(bucketEmailIndex)
		if users == nil || index == nil {
			return fmt.Errorf("buckets not found")
		}

		// Email уже занят
		if index.Get([]byte(user.Email)) != nil {
			return storage.ErrUserAlreadyExists
		}

		// Сериализуем документ в JSON
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := users.Put([]byte(user.ID), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		if err := index.Put([]byte(user.Email), []byte(user.ID)); err != nil {
			return fmt.Errorf("failed to save email index: %w", err)
		}

		return nil
	})
}

// GetUserByEmail retrieves user by normalized email via the index bucket
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		index := tx.Bucket(bucketEmailIndex)
		users := tx.Bucket(bucketUsers)
		if index == nil || users == nil {
			return fmt.Errorf("buckets not found")
		}

		id := index.Get([]byte(email))
		if id == nil {
			return storage.ErrUserNotFound
		}

		data := users.Get(id)
		if data == nil {
			// Индекс указывает на отсутствующий документ
			return storage.ErrUserNotFound
		}

		user = &models.User{}
		if err := json.Unmarshal(data, user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves user document by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		if users == nil {
			return fmt.Errorf("users bucket not found")
		}

		data := users.Get([]byte(userID))
		if data == nil {
			return storage.ErrUserNotFound
		}

		user = &models.User{}
		if err := json.Unmarshal(data, user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// IncrementTokenVersion atomically bumps the user's token version
// BoltDB сериализует write транзакции, поэтому чтение и запись внутри
// одного Update эквивалентны атомарному инкременту на уровне хранилища
func (s *Storage) IncrementTokenVersion(ctx context.Context, userID string) (int64, error) {
	var newVersion int64

	err := s.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		if users == nil {
			return fmt.Errorf("users bucket not found")
		}

		data := users.Get([]byte(userID))
		if data == nil {
			return storage.ErrUserNotFound
		}

		user := &models.User{}
		if err := json.Unmarshal(data, user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}

		user.TokenVersion++
		user.UpdatedAt = time.Now()
		newVersion = user.TokenVersion

		updated, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := users.Put([]byte(userID), updated); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return newVersion, nil
}
