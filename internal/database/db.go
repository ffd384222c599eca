// internal/database/db.go
package database

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the process-wide connection pool. ConnectDB must be called once at
// startup before any query helper is used.
//
// Expected schema:
//
//	users      (id bigserial PK, email text UNIQUE, password text, username text)
//	cards      (id bigserial PK, name text, hp int, attack int, type text)
//	decks      (id bigserial PK, user_id bigint REFERENCES users, name text)
//	deck_cards (deck_id bigint REFERENCES decks, card_id bigint REFERENCES cards,
//	            position int, PRIMARY KEY (deck_id, position))
var DB *pgxpool.Pool

// ConnectDB creates the pgx pool from a connection string and verifies the
// connection with a short ping.
func ConnectDB(connStr string) {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Fatalf("unable to parse pgx config: %v", err)
	}

	DB, err = pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalf("unable to create pgx pool: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := DB.Ping(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}
}
