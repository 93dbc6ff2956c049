// Package auth manages demo sessions. Login and registration fabricate a
// user record without any credential verification and no password is ever
// stored: this is deliberate demo-prototype behavior, kept behind this
// service so real verification can be substituted later.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrNotLoggedIn        = errors.New("not logged in")
)

const userCollection = "user"

type Service struct {
	store     kvstore.Store
	log       *slog.Logger
	jwtSecret []byte
	jwtExpiry time.Duration
	now       func() time.Time
}

func NewService(store kvstore.Store, log *slog.Logger, jwtSecret string, jwtExpiry time.Duration) *Service {
	return &Service{
		store:     store,
		log:       log,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
		now:       time.Now,
	}
}

// Login accepts any non-empty email/password pair and fabricates a user
// from the email local-part.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	now := s.now()
	user := &model.User{
		ID:        now.UnixMilli(),
		Email:     email,
		FirstName: localPart(email),
		CreatedAt: now,
	}
	kvstore.Save(ctx, s.store, s.log, kvstore.Key(userCollection, user.ID), user)

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

type Registration struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// Register fabricates a user from the supplied fields. There is no
// duplicate-email check; every registration is a fresh record.
func (s *Service) Register(ctx context.Context, reg Registration) (*model.User, string, error) {
	now := s.now()
	user := &model.User{
		ID:        now.UnixMilli(),
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
		CreatedAt: now,
	}
	kvstore.Save(ctx, s.store, s.log, kvstore.Key(userCollection, user.ID), user)

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Logout destroys the stored user record; the token itself simply expires.
func (s *Service) Logout(ctx context.Context, userID int64) {
	kvstore.Remove(ctx, s.store, s.log, kvstore.Key(userCollection, userID))
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user := kvstore.Load(ctx, s.store, s.log, kvstore.Key(userCollection, userID), (*model.User)(nil))
	if user == nil {
		return nil, ErrNotLoggedIn
	}
	return user, nil
}

// ProfilePatch merges only the fields that are present.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	BirthDate *string
	Avatar    *string
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*model.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.BirthDate != nil {
		user.BirthDate = *patch.BirthDate
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	kvstore.Save(ctx, s.store, s.log, kvstore.Key(userCollection, userID), user)
	return user, nil
}

func (s *Service) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(user.ID, 10),
		"exp": s.now().Add(s.jwtExpiry).Unix(),
		"iat": s.now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
