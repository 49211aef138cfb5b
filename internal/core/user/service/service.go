package userapp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	userEntity "yatube/internal/core/user"
	sessionPort "yatube/internal/ports/session"
	userPort "yatube/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer       = "yatube"
	minPasswordLength = 8
)

var (
	ErrInvalidUsername = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrWeakPassword    = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrInvalidSession  = errors.New("invalid session")
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

// sessionClaims is the payload of the session cookie.
type sessionClaims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// UserService manages users and their sessions.
type UserService struct {
	UserRepository userPort.UserRepository
	Sessions       sessionPort.SessionStore
	Logger         *zap.Logger
	// HashCost is the bcrypt cost used for new passwords.
	HashCost int

	jwtKey     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewUserService(repo userPort.UserRepository, sessions sessionPort.SessionStore, jwtKey []byte, sessionTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		Sessions:       sessions,
		Logger:         logger,
		HashCost:       bcrypt.DefaultCost,
		jwtKey:         jwtKey,
		sessionTTL:     sessionTTL,
		now:            time.Now,
	}
}

// RegisterUser signs up a new user
func (s *UserService) RegisterUser(ctx context.Context, username, password, firstName, lastName string) (*userPort.UserDTO, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	if _, err := s.UserRepository.FindByUsername(ctx, username); err == nil {
		return nil, userEntity.ErrUsernameTaken
	} else if !errors.Is(err, userEntity.ErrNotFound) {
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return nil, err
	}

	u := &userEntity.User{
		ID:        uuid.Must(uuid.NewV4()),
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Password:  string(hashedPassword),
	}
	if err := s.UserRepository.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}

	s.Logger.Info("User registered", zap.String("username", username), zap.String("id", u.ID.String()))
	return userPort.ToUserDTO(u), nil
}

// LoginUser checks credentials and issues a session token
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if errors.Is(err, userEntity.ErrNotFound) {
		return nil, userEntity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.Logger.Info("Invalid password", zap.String("username", username))
		return nil, userEntity.ErrInvalidCredentials
	}

	return s.issueToken(u)
}

func (s *UserService) issueToken(u *userEntity.User) (*userPort.LoginResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.sessionTTL)
	claims := &sessionClaims{
		Username: u.Username,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.Must(uuid.NewV4()).String(),
			Subject:   u.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// Authenticate verifies a session token and resolves the caller behind it.
func (s *UserService) Authenticate(ctx context.Context, raw string) (userEntity.Identity, *sessionPort.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid || claims.Issuer != tokenIssuer {
		return userEntity.Identity{}, nil, ErrInvalidSession
	}

	revoked, err := s.Sessions.IsRevoked(ctx, claims.Id)
	if err != nil {
		return userEntity.Identity{}, nil, fmt.Errorf("check session: %w", err)
	}
	if revoked {
		return userEntity.Identity{}, nil, ErrInvalidSession
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return userEntity.Identity{}, nil, ErrInvalidSession
	}
	u, err := s.UserRepository.FindByID(ctx, id)
	if errors.Is(err, userEntity.ErrNotFound) {
		return userEntity.Identity{}, nil, ErrInvalidSession
	}
	if err != nil {
		return userEntity.Identity{}, nil, fmt.Errorf("lookup session user: %w", err)
	}

	return userEntity.Identity{ID: u.ID, Username: u.Username},
		&sessionPort.Session{ID: claims.Id, ExpiresAt: time.Unix(claims.ExpiresAt, 0)},
		nil
}

// Logout revokes the session for the rest of its lifetime.
func (s *UserService) Logout(ctx context.Context, session *sessionPort.Session) error {
	if session == nil {
		return nil
	}
	return s.Sessions.Revoke(ctx, session.ID, session.ExpiresAt.Sub(s.now()))
}

// GetProfile returns the author card for username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*userPort.ProfileDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	count, err := s.UserRepository.CountPosts(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("count posts of %q: %w", username, err)
	}
	return &userPort.ProfileDTO{UserDTO: *userPort.ToUserDTO(u), PostsCount: count}, nil
}

// DeleteUser removes the user and, with them, all of their posts.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.UserRepository.Delete(ctx, u.ID); err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	s.Logger.Info("User deleted", zap.String("username", username))
	return nil
}
