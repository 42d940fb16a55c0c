package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/khoahotran/portfolio-api/pkg/auth"
)

func main() {
	fmt.Println("adding owner into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	DSN := os.Getenv("DB_DSN")
	OWNER_USERNAME := os.Getenv("OWNER_USERNAME")
	OWNER_EMAIL := os.Getenv("OWNER_EMAIL")
	OWNER_PASSWORD := os.Getenv("OWNER_PASSWORD")

	hash, err := auth.HashPassword(OWNER_PASSWORD)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), DSN)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	var userID int64
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = $3
		RETURNING id
	`
	err = pool.QueryRow(context.Background(), query, OWNER_USERNAME, OWNER_EMAIL, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	appQuery := `
		INSERT INTO applications (user_id, title, description, images)
		VALUES ($1, 'My Portfolio', '', '[]'::jsonb)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err = pool.Exec(context.Background(), appQuery, userID)
	if err != nil {
		log.Fatalf("cannot seed application: %v", err)
	}

	fmt.Printf("added or updated owner '%s' successfully!\n", OWNER_EMAIL)
}
