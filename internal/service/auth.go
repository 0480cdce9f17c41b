package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/repository"
	"github.com/otion-app/otion/internal/validation"
)

const SessionCookieName = "otion_session"

const (
	msgCredentialsRequired = "이메일과 비밀번호를 입력해주세요."
	// Duplicate email and wrong credentials share one message so neither reveals which accounts exist.
	msgAuthFailed = "이메일 또는 비밀번호가 올바르지 않습니다."
)

// dummyHash keeps sign-in timing similar whether or not the email exists.
var dummyHash = "00000000000000000000000000000000:" + strings.Repeat("00", scryptKeyLen)

type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService struct {
	userRepository    repository.UserRepository
	sessionRepository repository.SessionRepository
	secureCookies     bool
	sessionExpiry     time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	sessionRepository repository.SessionRepository,
	secureCookies bool,
	sessionExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		secureCookies:     secureCookies,
		sessionExpiry:     sessionExpiry,
	}
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*model.AuthUser, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, model.NewValidationError(msgCredentialsRequired)
	}

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, model.NewValidationError(err.Error())
	}

	// Length is checked before any hashing work
	err = validation.ValidatePassword(input.Password)
	if err != nil {
		return nil, model.NewValidationError(err.Error())
	}

	var name *string
	if trimmed := strings.TrimSpace(input.Name); trimmed != "" {
		err = validation.ValidateName(trimmed)
		if err != nil {
			return nil, model.NewValidationError(err.Error())
		}
		name = &trimmed
	}

	_, err = s.userRepository.ByEmail(ctx, email)
	if err == nil {
		return nil, model.NewAuthError(msgAuthFailed)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, model.NewStoreError(err)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, model.NewStoreError(err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	err = s.userRepository.Create(ctx, user)
	if err != nil {
		// Lost a race with a concurrent signup for the same email
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewAuthError(msgAuthFailed)
		}
		return nil, model.NewStoreError(err)
	}

	slog.Info("user signed up", "user_id", user.ID)
	return user.Public(), nil
}

func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*model.AuthUser, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, model.NewValidationError(msgCredentialsRequired)
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			VerifyPassword(input.Password, dummyHash)
			return nil, model.NewAuthError(msgAuthFailed)
		}
		return nil, model.NewStoreError(err)
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, model.NewAuthError(msgAuthFailed)
	}

	return user.Public(), nil
}

// StartSession stores a new session for the user.
func (s *AuthService) StartSession(ctx context.Context, userID string) (*model.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, model.NewStoreError(err)
	}

	session := &model.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.sessionExpiry),
	}
	err = s.sessionRepository.Create(ctx, session)
	if err != nil {
		return nil, model.NewStoreError(err)
	}

	return session, nil
}

// EndSession deletes every session row for token. Unknown tokens are fine.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.sessionRepository.DeleteByToken(ctx, token)
	if err != nil {
		return model.NewStoreError(err)
	}
	return nil
}

// Authenticate resolves a session token to its user.
// It returns nil without error for unknown or expired tokens, deleting expired rows on the way.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.AuthUser, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepository.ByToken(ctx, token)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStoreError(err)
	}

	if session.IsExpired() {
		err = s.sessionRepository.Delete(ctx, session.ID)
		if err != nil {
			return nil, model.NewStoreError(err)
		}
		return nil, nil
	}

	user, err := s.userRepository.ByID(ctx, session.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStoreError(err)
	}

	return user.Public(), nil
}

// CreateSession starts a session and sets the session cookie.
func (s *AuthService) CreateSession(ctx context.Context, w http.ResponseWriter, userID string) error {
	session, err := s.StartSession(ctx, userID)
	if err != nil {
		return err
	}
	s.SetSessionCookie(w, session.Token)
	return nil
}

// ClearSession deletes the session named by the request cookie and always expires the cookie.
func (s *AuthService) ClearSession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer s.ClearSessionCookie(w)

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	return s.EndSession(ctx, cookie.Value)
}

// CurrentUser returns the signed-in user or nil. A cookie that no longer maps to a live session is cleared.
func (s *AuthService) CurrentUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (*model.AuthUser, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	user, err := s.Authenticate(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.ClearSessionCookie(w)
	}
	return user, nil
}

func (s *AuthService) SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return s.ClearSession(ctx, w, r)
}

// DeleteExpiredSessions sweeps sessions that expired without being looked up again.
func (s *AuthService) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepository.DeleteExpired(ctx)
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionExpiry.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
