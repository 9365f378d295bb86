// Package services contains the application services of the console:
// authentication and the fleet fetch-and-merge cycle.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/josselin06/Borobo-stage-2025/internal/api"
	"github.com/josselin06/Borobo-stage-2025/internal/common"
	"github.com/josselin06/Borobo-stage-2025/internal/logging"
	"github.com/josselin06/Borobo-stage-2025/internal/session"
)

// Password policy messages, shown inline when the client-side check fails.
// The backend enforces its own policy; this one only avoids a round trip.
const (
	PasswordPolicyMessage   = "Le mot de passe doit faire au moins 8 caractères, contenir une majuscule, un chiffre et un caractère spécial."
	PasswordMismatchMessage = "Les deux nouveaux mots de passe ne correspondent pas."
)

// passwordSymbols is the fixed set the policy accepts as "special character".
const passwordSymbols = "!@#$%^&*"

// AuthService owns the session lifecycle: it is the only component allowed
// to establish or clear the session held by the Manager.
type AuthService interface {
	// Login authenticates and installs the session. Failure leaves no
	// session behind.
	Login(ctx context.Context, username, password string) (session.Session, error)

	// Logout clears the session. Also the landing point for session expiry
	// signalled by any collaborator.
	Logout(ctx context.Context)

	// ChangePassword validates the new password locally and, only if the
	// policy holds, submits the change. Returns the backend's confirmation
	// message.
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) (string, error)
}

type authService struct {
	client   api.Client
	sessions *session.Manager
	validate *validator.Validate
	log      logging.Logger
}

func NewAuthService(client api.Client, sessions *session.Manager, log logging.Logger) AuthService {
	v := validator.New()
	// Registration only fails for a blank tag, which would be a programming
	// error here.
	_ = v.RegisterValidation("strongpw", strongPassword)
	return &authService{client: client, sessions: sessions, validate: v, log: log}
}

func (s *authService) Login(ctx context.Context, username, password string) (session.Session, error) {
	token, err := s.client.Authenticate(ctx, username, password)
	if err != nil {
		s.log.Warn(ctx, "login failed", "username", username, "error", err)
		return session.Session{}, err
	}

	sess := s.sessions.Establish(token)
	s.log.Info(ctx, "logged in", "subject", sess.Subject, "role", string(sess.Role))
	return sess, nil
}

func (s *authService) Logout(ctx context.Context) {
	s.sessions.Clear()
	s.log.Info(ctx, "logged out")
}

// passwordChange carries the change-password form through validation.
type passwordChange struct {
	Old     string `validate:"required"`
	New     string `validate:"required,min=8,strongpw"`
	Confirm string `validate:"required,eqfield=New"`
}

func (s *authService) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) (string, error) {
	form := passwordChange{Old: oldPassword, New: newPassword, Confirm: confirmPassword}
	if err := s.validate.Struct(form); err != nil {
		return "", validationMessage(err)
	}

	snap, ok := s.sessions.Snapshot()
	if !ok {
		return "", common.ErrSessionExpired
	}

	msg, err := s.client.ChangePassword(ctx, snap.Token, oldPassword, newPassword, confirmPassword)
	if err != nil {
		return "", err
	}

	s.log.Info(ctx, "password changed", "subject", snap.Subject)
	return msg, nil
}

// validationMessage maps validator output to the user-facing policy errors.
// A weak new password wins over a confirm mismatch, matching the order the
// form checks read in.
func validationMessage(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			if fe.Field() == "New" || fe.Field() == "Old" {
				return fmt.Errorf("%w: %s", common.ErrValidation, PasswordPolicyMessage)
			}
		}
		for _, fe := range fieldErrors {
			if fe.Field() == "Confirm" {
				return fmt.Errorf("%w: %s", common.ErrValidation, PasswordMismatchMessage)
			}
		}
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, PasswordPolicyMessage)
}

// strongPassword requires at least one uppercase letter, one digit and one
// symbol from the fixed set. Length is handled by the min tag.
func strongPassword(fl validator.FieldLevel) bool {
	var upper, digit, symbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && digit && symbol
}
