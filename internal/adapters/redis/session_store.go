package redis

// Package redis provides Redis-based adapters for the CRM console.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apexcrm/crm-console/internal/domain/model"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

// Hash fields of a persisted session snapshot. The three values are written
// independently so a failed or interrupted write can be detected: a record
// with a token but no user (or vice versa) is not a valid session.
const (
	fieldToken    = "accessToken"
	fieldUserData = "userData"
	fieldTenantID = "tenantId"
)

// SessionStore is a Redis-based session store. Each session is a hash under
// "session:<id>" with a TTL derived from the session's ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
	}
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

// Save persists the session snapshot. Admin sessions never persist a tenant
// id; any tenant field left over from a previous write under the same key is
// removed along with the rest of the old record.
func (s *SessionStore) Save(ctx context.Context, sess domainsession.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Token == "" || sess.User == nil {
		return errors.New("session must carry both token and user")
	}

	userData, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	fields := map[string]any{
		fieldToken:    sess.Token,
		fieldUserData: string(userData),
	}
	if !sess.IsAdmin() && sess.TenantID != "" {
		fields[fieldTenantID] = sess.TenantID
	}

	key := s.prefix + sess.ID
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get loads and validates a session snapshot. Partial records (token without
// user or user without token) and records whose user data fails to
// deserialize are deleted and reported as not found; callers never observe a
// half-populated session. Admin sessions are returned without a tenant id
// regardless of what was persisted.
func (s *SessionStore) Get(ctx context.Context, id string) (domainsession.Session, error) {
	if id == "" {
		return domainsession.Session{}, ErrNotFound
	}

	key := s.prefix + id
	data, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return domainsession.Session{}, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(data) == 0 {
		return domainsession.Session{}, ErrNotFound
	}

	token, userData := data[fieldToken], data[fieldUserData]
	if token == "" || userData == "" {
		return domainsession.Session{}, s.discard(ctx, id)
	}

	var user model.User
	if unmarshalErr := json.Unmarshal([]byte(userData), &user); unmarshalErr != nil {
		return domainsession.Session{}, s.discard(ctx, id)
	}

	sess := domainsession.Session{
		ID:    id,
		Token: token,
		User:  &user,
	}
	if !sess.IsAdmin() {
		sess.TenantID = data[fieldTenantID]
	}

	if ttl, ttlErr := s.client.TTL(ctx, key).Result(); ttlErr == nil && ttl > 0 {
		sess.ExpiresAt = time.Now().Add(ttl)
	}

	return sess, nil
}

// Delete removes a session snapshot.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}

	key := s.prefix + id
	return s.client.Del(ctx, key).Err()
}

// discard removes an invalid record and reports not found. If cleanup fails
// the error bubbles up so callers do not treat a lingering corrupt record as
// a clean unauthenticated state.
func (s *SessionStore) discard(ctx context.Context, id string) error {
	if err := s.Delete(ctx, id); err != nil {
		return fmt.Errorf("discard invalid session: %w", err)
	}
	return ErrNotFound
}

// ErrNotFound is returned when a session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
