// userctl — операторская утилита для работы с хранилищем учетных записей
// напрямую, без HTTP: создание пользователя, отзыв всех его сессий,
// просмотр записи.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/easygen/auth-service/internal/crypto"
	"github.com/easygen/auth-service/internal/iocli"
	"github.com/easygen/auth-service/internal/models"
	"github.com/easygen/auth-service/internal/server/storage"
	"github.com/easygen/auth-service/internal/server/storage/bolt"
	"github.com/easygen/auth-service/internal/server/storage/sqlite"
	"github.com/easygen/auth-service/internal/validation"
)

func main() {
	driver := flag.String("driver", "bolt", "Storage driver: bolt or sqlite")
	dbPath := flag.String("db", "auth-service.db", "Path to the database file")

	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	ctx := context.Background()

	store, err := openStorage(ctx, *driver, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	io := iocli.NewStdio()

	switch command {
	case "create":
		if err := runCreate(ctx, io, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "revoke":
		if err := runRevoke(ctx, io, store, args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "show":
		if err := runShow(ctx, io, store, args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func openStorage(ctx context.Context, driver, dbPath string) (storage.UserStorage, error) {
	switch driver {
	case "sqlite":
		return sqlite.New(ctx, dbPath)
	case "bolt":
		return bolt.New(ctx, dbPath)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// runCreate создает пользователя, запрашивая данные интерактивно
// Пароль вводится без эха и дважды
func runCreate(ctx context.Context, io iocli.IO, store storage.UserStorage) error {
	email, err := io.ReadInput("Email: ")
	if err != nil {
		return err
	}
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	name, err := io.ReadInput("Name: ")
	if err != nil {
		return err
	}
	if err := validation.ValidateName(name); err != nil {
		return err
	}

	password, err := io.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	confirm, err := io.ReadPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	hasher := crypto.NewPasswordHasher()
	passwordHash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		TokenVersion: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := store.CreateUser(ctx, user); err != nil {
		return err
	}

	io.Printf("User created: %s (%s)\n", user.Email, user.ID)
	return nil
}

// runRevoke инвалидирует все выпущенные токены пользователя
func runRevoke(ctx context.Context, io iocli.IO, store storage.UserStorage, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: userctl revoke <email>")
	}

	user, err := store.GetUserByEmail(ctx, validation.NormalizeEmail(args[0]))
	if err != nil {
		return err
	}

	newVersion, err := store.IncrementTokenVersion(ctx, user.ID)
	if err != nil {
		return err
	}

	io.Printf("Sessions revoked for %s, token version is now %d\n", user.Email, newVersion)
	return nil
}

// runShow печатает запись пользователя без хеша пароля
func runShow(ctx context.Context, io iocli.IO, store storage.UserStorage, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: userctl show <email>")
	}

	user, err := store.GetUserByEmail(ctx, validation.NormalizeEmail(args[0]))
	if err != nil {
		return err
	}

	io.Printf("ID:            %s\n", user.ID)
	io.Printf("Email:         %s\n", user.Email)
	io.Printf("Name:          %s\n", user.Name)
	io.Printf("Token version: %d\n", user.TokenVersion)
	io.Printf("Created at:    %s\n", user.CreatedAt.Format(time.RFC3339))
	io.Printf("Updated at:    %s\n", user.UpdatedAt.Format(time.RFC3339))
	return nil
}

func printUsage() {
	fmt.Println("Usage: userctl [-driver bolt|sqlite] [-db path] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  create          Create a new user (interactive)")
	fmt.Println("  revoke <email>  Invalidate all sessions of a user")
	fmt.Println("  show <email>    Show a user record")
}
