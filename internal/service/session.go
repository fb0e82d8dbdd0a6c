package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
)

var tracer = otel.Tracer("session")

const sessionIssuer = "fabvote"

// SessionService encodes the logged-in user record into the user cookie.
// Without a secret the cookie is the escaped JSON record and is trusted as
// is. With a secret it is an HS256 token and tampered cookies are rejected.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type sessionClaims struct {
	User json.RawMessage `json:"user"`
	jwt.RegisteredClaims
}

func NewSessionService(secret string) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		ttl:    domain.UserCookieTTL,
		now:    time.Now,
	}
}

func (s *SessionService) Signed() bool {
	return len(s.secret) > 0
}

func (s *SessionService) Encode(ctx context.Context, record json.RawMessage) (string, error) {
	_, span := tracer.Start(ctx, "Session.Service.Encode")
	defer span.End()

	if !s.Signed() {
		return url.PathEscape(string(record)), nil
	}

	now := s.now()
	claims := sessionClaims{
		User: record,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, "failed to sign session")
	}
	return signed, nil
}

// Decode returns the user record held by a cookie value.
func (s *SessionService) Decode(ctx context.Context, value string) (*fabvote.User, error) {
	_, span := tracer.Start(ctx, "Session.Service.Decode")
	defer span.End()

	var raw []byte
	if s.Signed() {
		var claims sessionClaims
		_, err := jwt.ParseWithClaims(
			value,
			&claims,
			func(t *jwt.Token) (any, error) { return s.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(sessionIssuer),
			jwt.WithTimeFunc(s.now),
		)
		if err != nil {
			span.RecordError(err)
			return nil, errors.Wrap(err, "invalid session")
		}
		raw = claims.User
	} else {
		unescaped, err := url.PathUnescape(value)
		if err != nil {
			span.RecordError(err)
			return nil, errors.Wrap(err, "invalid session encoding")
		}
		raw = []byte(unescaped)
	}

	var user fabvote.User
	err := json.Unmarshal(raw, &user)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "invalid session record")
	}
	if user.ID == "" {
		err := fmt.Errorf("session record has no ID")
		span.RecordError(err)
		return nil, err
	}
	return &user, nil
}
