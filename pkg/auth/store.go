package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errMissingStorage  = errors.New("auth: storage is required")
	errMissingIdentity = errors.New("auth: identity is required")
)

// Storage is the durable key/value store sessions persist to. Put writes all
// entries in one transaction.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// TokenVerifier checks a restored token is still acceptable.
type TokenVerifier interface {
	Verify(token string) error
}

// Config wires a Store.
type Config struct {
	Storage  Storage
	Identity Identity
	// Verifier is optional. When set, Restore discards sessions whose token
	// it rejects.
	Verifier TokenVerifier
	Logger   *zap.Logger
	// NewID issues session ids. Defaults to random UUIDs.
	NewID func() string
}

// Store keeps one session per signed-in client, keyed by session id. The map
// is swapped wholesale under mu; writeMu orders writes to the durable index.
type Store struct {
	mu       sync.RWMutex
	restored bool
	sessions map[string]Session

	writeMu  sync.Mutex
	storage  Storage
	identity Identity
	verifier TokenVerifier
	logger   *zap.Logger
	newID    func() string
}

// NewStore builds a store in which every client is StateLoading. Call Restore
// before serving.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Storage == nil {
		return nil, errMissingStorage
	}
	if cfg.Identity == nil {
		return nil, errMissingIdentity
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Store{
		sessions: map[string]Session{},
		storage:  cfg.Storage,
		identity: cfg.Identity,
		verifier: cfg.Verifier,
		logger:   cfg.Logger,
		newID:    cfg.NewID,
	}, nil
}

// Restore reads every persisted session. A session needs both keys and a
// decodable user; half-written pairs are cleared and dropped from the index.
// The store leaves StateLoading even when storage fails.
func (s *Store) Restore(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ids, err := s.readIndex(ctx)
	if err != nil {
		s.publish(map[string]Session{})
		return err
	}
	restored := make(map[string]Session, len(ids))
	for _, id := range ids {
		session, err := s.readPersisted(ctx, id)
		if err != nil {
			s.publish(map[string]Session{})
			return err
		}
		if !session.Valid() {
			if err := s.storage.Delete(ctx, TokenKeyFor(id), UserKeyFor(id)); err != nil {
				s.logger.Warn("clear partial session failed", zap.String("session", id), zap.Error(err))
			}
			continue
		}
		restored[id] = session
	}
	if len(restored) != len(ids) {
		if err := s.writeIndex(ctx, restored, nil); err != nil {
			s.logger.Warn("prune session index failed", zap.Error(err))
		}
	}
	s.publish(restored)
	s.logger.Info("sessions restored", zap.Int("sessions", len(restored)))
	return nil
}

func (s *Store) readIndex(ctx context.Context) ([]string, error) {
	raw, ok, err := s.storage.Get(ctx, IndexKey)
	if err != nil {
		return nil, fmt.Errorf("auth: read %s: %w", IndexKey, err)
	}
	if !ok {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Warn("session index is not decodable", zap.Error(err))
		return nil, nil
	}
	return ids, nil
}

func (s *Store) readPersisted(ctx context.Context, id string) (Session, error) {
	token, hasToken, err := s.storage.Get(ctx, TokenKeyFor(id))
	if err != nil {
		return Session{}, fmt.Errorf("auth: read %s: %w", TokenKeyFor(id), err)
	}
	raw, hasUser, err := s.storage.Get(ctx, UserKeyFor(id))
	if err != nil {
		return Session{}, fmt.Errorf("auth: read %s: %w", UserKeyFor(id), err)
	}
	if !hasToken || !hasUser {
		return Session{}, nil
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("stored user is not decodable", zap.String("session", id), zap.Error(err))
		return Session{}, nil
	}
	if s.verifier != nil {
		if err := s.verifier.Verify(token); err != nil {
			s.logger.Info("stored token rejected", zap.String("session", id), zap.Error(err))
			return Session{}, nil
		}
	}
	return Session{ID: id, Token: token, User: user}, nil
}

// writeIndex persists the ids of sessions together with extra in one Put.
func (s *Store) writeIndex(ctx context.Context, sessions map[string]Session, extra map[string]string) error {
	encoded, err := json.Marshal(slices.Sorted(maps.Keys(sessions)))
	if err != nil {
		return fmt.Errorf("auth: encode session index: %w", err)
	}
	entries := map[string]string{IndexKey: string(encoded)}
	maps.Copy(entries, extra)
	return s.storage.Put(ctx, entries)
}

// Login authenticates creds and opens a new session under a fresh id. The
// token, user and index are persisted atomically before the session is
// published. Other clients' sessions are never touched.
func (s *Store) Login(ctx context.Context, creds Credentials) (Session, error) {
	session, err := s.identity.Authenticate(ctx, creds)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("auth: login: %w", err)
	}
	if !session.Valid() {
		return Session{}, errIncompleteSession
	}
	session.ID = s.newID()
	encoded, err := json.Marshal(session.User)
	if err != nil {
		return Session{}, fmt.Errorf("auth: encode user: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	next := s.snapshot()
	next[session.ID] = session
	if err := s.writeIndex(ctx, next, map[string]string{
		TokenKeyFor(session.ID): session.Token,
		UserKeyFor(session.ID):  string(encoded),
	}); err != nil {
		return Session{}, fmt.Errorf("auth: persist session: %w", err)
	}
	s.publish(next)
	s.logger.Info("operator logged in", zap.String("user", session.User.Email))
	return session, nil
}

// Logout ends the session with the given id only. Unknown or empty ids are
// a no-op.
func (s *Store) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	next := s.snapshot()
	if _, ok := next[id]; !ok {
		return nil
	}
	delete(next, id)
	s.publish(next)
	if err := s.storage.Delete(ctx, TokenKeyFor(id), UserKeyFor(id)); err != nil {
		return fmt.Errorf("auth: clear session: %w", err)
	}
	if err := s.writeIndex(ctx, next, nil); err != nil {
		return fmt.Errorf("auth: clear session: %w", err)
	}
	return nil
}

// Session returns the session with the given id.
func (s *Store) Session(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// State returns the lifecycle phase seen by the client holding id.
func (s *Store) State(id string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.restored {
		return StateLoading
	}
	if _, ok := s.sessions[id]; ok {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) snapshot() map[string]Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.sessions)
}

func (s *Store) publish(sessions map[string]Session) {
	s.mu.Lock()
	s.restored = true
	s.sessions = sessions
	s.mu.Unlock()
}
