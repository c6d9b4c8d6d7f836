package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
)

// Listener is called after every session change. s is nil after sign out.
type Listener func(event domain.SessionEvent, s *domain.Session)

// Holder is the process-wide current session. Components receive it as a
// domain.SessionSource instead of reading a global.
type Holder struct {
	auth domain.AuthService
	now  func() time.Time

	mu      sync.RWMutex
	current *domain.Session

	subMu  sync.Mutex
	subs   map[int]Listener
	nextID int
}

var _ domain.SessionSource = (*Holder)(nil)

func NewHolder(auth domain.AuthService) *Holder {
	return &Holder{
		auth: auth,
		now:  time.Now,
		subs: make(map[int]Listener),
	}
}

// Current returns a copy of the live session, or nil when signed out or expired.
func (h *Holder) Current() *domain.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil || h.current.Expired(h.now()) {
		return nil
	}
	s := *h.current
	return &s
}

func (h *Holder) UserID() (string, bool) {
	s := h.Current()
	if s == nil || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}

// Subscribe registers fn and returns a func that removes it.
func (h *Holder) Subscribe(fn Listener) (unsubscribe func()) {
	h.subMu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.subMu.Lock()
			delete(h.subs, id)
			h.subMu.Unlock()
		})
	}
}

func (h *Holder) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	s, err := h.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return h.set(domain.SessionSignedIn, s), nil
}

func (h *Holder) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	s, err := h.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return h.set(domain.SessionSignedIn, s), nil
}

// SignOut clears the local session even when the backend call fails.
func (h *Holder) SignOut(ctx context.Context) error {
	h.mu.Lock()
	prev := h.current
	h.current = nil
	h.mu.Unlock()
	if prev == nil {
		return nil
	}

	h.notify(domain.SessionSignedOut, nil)
	if err := h.auth.SignOut(ctx, prev.AccessToken); err != nil {
		logrus.Warnf("backend sign out failed, user: %s, err: %v", prev.UserID, err)
		return err
	}
	return nil
}

// Refresh exchanges the refresh token for a new session.
func (h *Holder) Refresh(ctx context.Context) (*domain.Session, error) {
	h.mu.RLock()
	var token string
	if h.current != nil {
		token = h.current.RefreshToken
	}
	h.mu.RUnlock()
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	s, err := h.auth.Refresh(ctx, token)
	if err != nil {
		return nil, err
	}
	return h.set(domain.SessionTokenRefreshed, s), nil
}

// Restore adopts a previously persisted session. An expired access token is
// refreshed when a refresh token is present.
func (h *Holder) Restore(ctx context.Context, s domain.Session) (*domain.Session, error) {
	if s.AccessToken == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if s.UserID == "" || s.ExpiresAt.IsZero() {
		claims, err := ParseClaims(s.AccessToken)
		if err != nil {
			return nil, err
		}
		if s.UserID == "" {
			s.UserID = claims.Subject
		}
		if s.ExpiresAt.IsZero() && claims.ExpiresAt != nil {
			s.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	if !s.Expired(h.now()) {
		return h.set(domain.SessionSignedIn, s), nil
	}
	if s.RefreshToken == "" {
		return nil, domain.ErrNotAuthenticated
	}
	fresh, err := h.auth.Refresh(ctx, s.RefreshToken)
	if err != nil {
		return nil, err
	}
	return h.set(domain.SessionTokenRefreshed, fresh), nil
}

func (h *Holder) set(event domain.SessionEvent, s domain.Session) *domain.Session {
	if s.ExpiresAt.IsZero() {
		if claims, err := ParseClaims(s.AccessToken); err == nil && claims.ExpiresAt != nil {
			s.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	h.mu.Lock()
	h.current = &s
	h.mu.Unlock()

	out := s
	h.notify(event, &out)
	return &out
}

func (h *Holder) notify(event domain.SessionEvent, s *domain.Session) {
	h.subMu.Lock()
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.subs[id])
	}
	h.subMu.Unlock()

	logrus.Debugf("session event %s", event)
	for _, fn := range fns {
		var cp *domain.Session
		if s != nil {
			c := *s
			cp = &c
		}
		fn(event, cp)
	}
}

// ParseClaims reads the registered claims of a backend access token without
// verifying its signature. Use Verify when the token comes from a client.
func ParseClaims(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}
	return claims, nil
}

// Verify checks an HS256 access token against secret and returns its subject.
func Verify(token string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return "", fmt.Errorf("%w: token expired", domain.ErrNotAuthenticated)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrNotAuthenticated
	}
	return claims.Subject, nil
}

// Static is a fixed SessionSource, used per request by the HTTP layer.
type Static string

func (s Static) UserID() (string, bool) { return string(s), s != "" }
