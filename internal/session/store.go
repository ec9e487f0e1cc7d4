package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shipdeck/shipdeck/internal/authz"
)

// ErrSessionAbsent indicates no usable session exists in the slot.
// Malformed stored data is treated the same as an absent session.
var ErrSessionAbsent = errors.New("session: absent")

// Store persists Session aggregates in Redis. The slot ID travels in a
// single cookie shared by every panel, so logging into one panel
// overwrites whatever panel was active before.
type Store struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewStore constructs a Store.
func NewStore(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *Store {
	return &Store{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

// Load returns the session stored in the slot. Absent, expired, or
// malformed entries yield ErrSessionAbsent; a malformed blob is
// removed so it cannot shadow a later login.
func (s *Store) Load(ctx context.Context, slotID string) (Session, error) {
	if slotID == "" {
		return Session{}, ErrSessionAbsent
	}
	payload, err := s.client.Get(ctx, s.key(slotID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrSessionAbsent
		}
		return Session{}, fmt.Errorf("session: load: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		_ = s.client.Del(ctx, s.key(slotID)).Err()
		return Session{}, ErrSessionAbsent
	}
	if sess.Grants == nil {
		sess.Grants = []authz.Grant{}
	}
	return sess, nil
}

// Save overwrites the slot wholesale.
func (s *Store) Save(ctx context.Context, slotID string, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(slotID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// ReplaceGrants overwrites the grant list inside the aggregate. Grants
// are always replaced wholesale, never patched incrementally.
func (s *Store) ReplaceGrants(ctx context.Context, slotID string, grants []authz.Grant) error {
	sess, err := s.Load(ctx, slotID)
	if err != nil {
		return err
	}
	if grants == nil {
		grants = []authz.Grant{}
	}
	sess.Grants = grants
	return s.Save(ctx, slotID, sess)
}

// Clear removes the slot. Clearing an already-empty slot is a no-op.
func (s *Store) Clear(ctx context.Context, slotID string) error {
	if slotID == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(slotID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// NewSlotID generates a fresh slot identifier.
func (s *Store) NewSlotID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// SlotIDFromRequest reads the slot cookie, returning an empty string
// when no cookie is present.
func (s *Store) SlotIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// WriteSlotCookie sets the slot cookie on the response.
func (s *Store) WriteSlotCookie(w http.ResponseWriter, slotID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    slotID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(s.ttl),
	})
}

// ExpireSlotCookie removes the slot cookie from the client.
func (s *Store) ExpireSlotCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// CookieName returns the slot cookie identifier.
func (s *Store) CookieName() string {
	return s.cookieName
}

// TTL exposes the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) key(slotID string) string {
	return "session:" + slotID
}
