package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

var nonUsernameChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// UserService manages accounts and profiles
type UserService struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
	gate    gate
}

func NewUserService(
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	vis repositories.VisibilityRepository,
) *UserService {
	return &UserService{users: users, follows: follows, gate: gate{users: users, visibility: vis}}
}

// Register creates a local account with a bcrypt password hash.
func (s *UserService) Register(req models.CreateLocalUserRequest) (*models.User, error) {
	exists, err := s.users.UsernameExists(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("A user with that username already exists.")
	}
	exists, err = s.users.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("A user with that email already exists.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		IsActive: true,
	}
	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, invalid("A user with that username or email already exists.")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks an email/password pair.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, unauthorized("Invalid email or password")
	}
	if !user.IsActive {
		return nil, unauthorized("This account is inactive.")
	}
	return user, nil
}

// FirebaseLogin resolves a verified Firebase identity to a local account,
// linking by email or creating one when needed.
func (s *UserService) FirebaseLogin(ctx context.Context, verifier TokenVerifier, idToken string) (*models.User, error) {
	if verifier == nil {
		return nil, unauthorized("Firebase authentication is not configured")
	}
	token, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, unauthorized("Invalid Firebase ID token")
	}
	return s.UserForFirebaseToken(token)
}

// UserForFirebaseToken finds or provisions the account behind a verified token.
func (s *UserService) UserForFirebaseToken(token *auth.Token) (*models.User, error) {
	if user, err := s.users.GetUserByFirebaseUID(token.UID); err == nil {
		return user, nil
	} else if !repositories.IsNotFound(err) {
		return nil, err
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, unauthorized("Firebase token carries no email")
	}

	uid := token.UID
	user, err := s.users.GetUserByEmail(email)
	switch {
	case err == nil:
		user.FirebaseUID = &uid
		if err := s.users.UpdateUser(user); err != nil {
			return nil, err
		}
		return user, nil
	case !repositories.IsNotFound(err):
		return nil, err
	}

	username, err := s.uniqueUsername(email)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Username:    username,
		Email:       strings.ToLower(email),
		FirebaseUID: &uid,
		IsActive:    true,
	}
	if name, _ := token.Claims["name"].(string); name != "" {
		first, last, _ := strings.Cut(name, " ")
		user.FirstName, user.LastName = first, last
	}
	if picture, _ := token.Claims["picture"].(string); picture != "" {
		user.AvatarURL = picture
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) uniqueUsername(email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	base := nonUsernameChars.ReplaceAllString(local, "")
	if len(base) < 3 {
		base = "user" + base
	}
	if len(base) > 140 {
		base = base[:140]
	}
	candidate := base
	for i := 1; ; i++ {
		exists, err := s.users.UsernameExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	u, err := s.users.GetUserByID(id)
	if err != nil {
		return nil, lookup(err, "User not found")
	}
	return u, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	return s.gate.userByUsername(username)
}

// Profile returns a user with follow counters, gated by the visibility engine.
func (s *UserService) Profile(viewerID uint, username string) (*models.UserProfile, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if err := s.gate.canViewUser(viewerID, user); err != nil {
		return nil, err
	}
	return s.profileOf(user)
}

func (s *UserService) Me(userID uint) (*models.UserProfile, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.profileOf(user)
}

func (s *UserService) profileOf(user *models.User) (*models.UserProfile, error) {
	followers, err := s.follows.GetFollowersCount(user.ID)
	if err != nil {
		return nil, err
	}
	followings, err := s.follows.GetFollowingCount(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		User:            *user,
		FullName:        strings.TrimSpace(user.FirstName + " " + user.LastName),
		FollowersCount:  followers,
		FollowingsCount: followings,
	}, nil
}

func (s *UserService) UpdateProfile(userID uint, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.IsPrivate != nil {
		user.IsPrivate = *req.IsPrivate
	}
	if err := s.users.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate hides the account from everyone but its owner.
func (s *UserService) Deactivate(userID uint) error {
	return lookup(s.users.Deactivate(userID), "User not found")
}

// List is the user directory: active accounts outside any block relation
// with the viewer.
func (s *UserService) List(viewerID uint, filter repositories.UserFilter, page repositories.Page) ([]models.User, int64, error) {
	return s.users.ListUsers(viewerID, filter, page)
}
