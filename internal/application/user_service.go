package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
	repo "github.com/gardenviki-prog/Cooking-Recipes/internal/domain/repository"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/helpers"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrWrongPassword      = errors.New("wrong current password")
)

const minPasswordLen = 6

// UserService implements registration, login and profile management.
// Plaintext passwords never leave a request: they are hashed immediately
// and never stored or logged.
type UserService struct {
	Repo     repo.UserRepository
	Sessions SessionStore
	JWT      *helpers.JWTManager
	Avatars  AvatarStorage
	Pub      *helpers.RabbitPublisher
	Logger   *logrus.Logger

	MailEnabled bool
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewUserService(r repo.UserRepository, sessions SessionStore, jwt *helpers.JWTManager, avatars AvatarStorage, pub *helpers.RabbitPublisher, logger *logrus.Logger, mailEnabled bool) *UserService {
	return &UserService{
		Repo:        r,
		Sessions:    sessions,
		JWT:         jwt,
		Avatars:     avatars,
		Pub:         pub,
		Logger:      logger,
		MailEnabled: mailEnabled,
	}
}

// Register creates an account. Mismatched or too-short passwords and
// duplicate usernames are rejected without creating a row.
func (s *UserService) Register(ctx context.Context, username, password, password2 string) (*entity.User, error) {
	if password != password2 {
		return nil, ErrPasswordMismatch
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}
	if _, err := s.Repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: username, PasswordHash: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return u, nil
}

// Authenticate validates username/password and returns the user without
// issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens creates a session and generates the token pair bound to it.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid, err := s.Sessions.Create(ctx, u.ID, u.Username)
	if err != nil {
		return TokenPair{}, err
	}
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh validates the refresh token against the stored session, then
// rotates both the session id and the token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	sess, err := s.Sessions.Get(ctx, claims.SessionID)
	if err != nil || sess.UserID != claims.UserID {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	// Rotate: old session is revoked before new tokens are handed out.
	if err := s.Sessions.Delete(ctx, sess.ID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("sid", sess.ID).Warn("session delete failed during rotation")
	}
	return s.IssueTokens(ctx, u)
}

func (s *UserService) Logout(ctx context.Context, sid string) error {
	return s.Sessions.Delete(ctx, sid)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// AvatarUpload carries a multipart file through to the storage backend.
type AvatarUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type UpdateProfileInput struct {
	Username string
	Email    string
	Goals    string
	Avatar   *AvatarUpload
}

// UpdateProfile edits username/email/goals and optionally stores a new
// avatar. A rename checks uniqueness and updates the live session in the
// same request, so the session never goes stale.
func (s *UserService) UpdateProfile(ctx context.Context, sid, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	if in.Username != "" && in.Username != u.Username {
		if _, err := s.Repo.GetByUsername(ctx, in.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		u.Username = in.Username
		if err := s.Sessions.Rename(ctx, sid, in.Username); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("sid", sid).Warn("session rename failed")
		}
	}
	u.Email = in.Email
	u.Goals = in.Goals

	if in.Avatar != nil && in.Avatar.Filename != "" {
		url, err := s.Avatars.Save(ctx, u.ID, in.Avatar.Filename, in.Avatar.ContentType, in.Avatar.Reader)
		if err != nil {
			return nil, err
		}
		u.AvatarURL = url
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.notify(ctx, u, mailer.TemplateProfileUpdated)
	return u, nil
}

// ChangePassword re-authenticates with the old password before setting
// the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, newPassword2 string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}
	if newPassword != newPassword2 {
		return ErrPasswordMismatch
	}
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	s.notify(ctx, u, mailer.TemplatePasswordChanged)
	return nil
}

// notify enqueues a notification email when sending is enabled and the
// user has an email address. Best effort; failures are logged only.
func (s *UserService) notify(ctx context.Context, u *entity.User, template string) {
	if !s.MailEnabled || s.Pub == nil || u.Email == "" {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data:     map[string]any{"Username": u.Username},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("email enqueue failed")
	}
}
