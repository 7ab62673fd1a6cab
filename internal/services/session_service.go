package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/Textora/internal/core/export"
	"github.com/markdave123-py/Textora/internal/core/session"
)

const (
	sessionClaim  = "sid"
	tokenLifetime = 24 * time.Hour
)

var ErrSessionNotFound = errors.New("session not found")

// SessionService hands out session tokens and resolves them back to live
// sessions. Tokens are HS256 JWTs carrying the session id.
type SessionService struct {
	store    *session.Store
	archiver export.Archiver
	secret   []byte
	log      zerolog.Logger
}

// NewSessionService wires the store with an optional archiver (nil disables archiving).
func NewSessionService(store *session.Store, archiver export.Archiver, secret string, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:    store,
		archiver: archiver,
		secret:   []byte(secret),
		log:      log.With().Str("component", "session_service").Logger(),
	}
}

// Start creates a session and the token that resumes it.
func (s *SessionService) Start() (*session.Session, string, error) {
	sess := s.store.Create()
	token, err := s.issueToken(sess.ID)
	if err != nil {
		s.store.Delete(sess.ID)
		return nil, "", err
	}
	return sess, token, nil
}

// Resume returns the live session a token points to.
func (s *SessionService) Resume(token string) (*session.Session, error) {
	id, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Export builds the download for sess and archives a copy when archiving is on.
// Archive failures are logged only; the download goes ahead regardless.
func (s *SessionService) Export(ctx context.Context, sess *session.Session) (*export.Artifact, bool) {
	art, ok := sess.Download()
	if !ok {
		return nil, false
	}
	if s.archiver == nil {
		return art, true
	}

	url, err := s.archiver.Archive(ctx, sess.ID, art)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Str("file", art.Name).Msg("archive failed")
		return art, true
	}
	s.log.Info().Str("session_id", sess.ID).Str("url", url).Msg("export archived")
	return art, true
}

func (s *SessionService) issueToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		sessionClaim: sessionID,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *SessionService) parseToken(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}

	id, ok := claims[sessionClaim].(string)
	if !ok || id == "" {
		return "", errors.New("invalid session token claims")
	}
	return id, nil
}
