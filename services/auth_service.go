package services

import (
	"fmt"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
)

type IAuthService interface {
	Register(username, email, password string) (Token, domain.PublicUser, error)
	Login(email, password string) (Token, domain.PublicUser, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         auth.TokenIssuer
}

type Token string

func NewAuthService(repo repositories.IUserRepository, tokens auth.TokenIssuer) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens}
}

func (s *AuthService) Register(username, email, password string) (Token, domain.PublicUser, error) {
	valReq := auth.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}

	// 1. Validate business rules (email format, password complexity)
	// before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", domain.PublicUser{}, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	// 2. Hash the password using Argon2id. Done here so the repository
	// never sees a plain password.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", domain.PublicUser{}, fmt.Errorf("hashing failed: %w", err)
	}

	user := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	// 3. Persist the user; propagates ErrUserAlreadyExists when the email is taken.
	userID, err := s.userRepository.CreateUser(user)
	if err != nil {
		return "", domain.PublicUser{}, err
	}
	user.ID = userID

	// 4. Issue the initial session token.
	token, err := s.tokens.Generate(userID, username)
	if err != nil {
		return "", domain.PublicUser{}, errors.ErrTokenGeneration
	}

	return Token(token), user.Public(), nil
}

func (s *AuthService) Login(email, password string) (Token, domain.PublicUser, error) {
	// Keep failures indistinguishable to prevent user enumeration.
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return "", domain.PublicUser{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", domain.PublicUser{}, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return "", domain.PublicUser{}, errors.ErrTokenGeneration
	}

	return Token(token), user.Public(), nil
}
