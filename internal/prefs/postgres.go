package prefs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/playerlink/playerlink/internal/database"
)

// ClientCookie holds the anonymous id that Postgres-backed preferences are
// keyed by.
const ClientCookie = "playerlink_client"

// PostgresStore keeps one client's preferences in client_preferences.
type PostgresStore struct {
	db       database.DBTX
	clientID string
}

func NewPostgresStore(db database.DBTX, clientID string) *PostgresStore {
	return &PostgresStore{db: db, clientID: clientID}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM client_preferences WHERE client_id = $1 AND key = $2`,
		s.clientID, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select preference: %w", err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO client_preferences (client_id, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (client_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.clientID, key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// ClientID returns the client id carried by r, minting and setting a new
// one when the cookie is missing or malformed.
func ClientID(w http.ResponseWriter, r *http.Request, secure bool) string {
	if cookie, err := r.Cookie(ClientCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(cookieMaxAge),
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Factory builds the store for one request.
type Factory func(w http.ResponseWriter, r *http.Request) Store

// CookieFactory stores preferences in browser cookies.
func CookieFactory(secure bool) Factory {
	return func(w http.ResponseWriter, r *http.Request) Store {
		return NewCookieStore(w, r, secure)
	}
}

// PostgresFactory stores preferences in Postgres, keyed by the client cookie.
func PostgresFactory(db database.DBTX, secure bool) Factory {
	return func(w http.ResponseWriter, r *http.Request) Store {
		return NewPostgresStore(db, ClientID(w, r, secure))
	}
}

// StaticFactory hands every request the same store.
func StaticFactory(s Store) Factory {
	return func(http.ResponseWriter, *http.Request) Store { return s }
}
