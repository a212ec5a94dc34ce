package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mussacharles60/hospital-booking/internal/mailer"
	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/store"
	"github.com/mussacharles60/hospital-booking/internal/tokens"
)

// Store is the account persistence the session manager needs.
type Store interface {
	store.Accounts
	store.Doctors
}

// TokenPair carries the two session credentials issued on login and
// refresh. The refresh token travels back in an httpOnly cookie, the
// access token in the response body.
type TokenPair struct {
	Access  string
	Refresh string
}

// Service implements the session flows: login, signup, the invited-doctor
// activation handshake, password recovery and password change. Token TTL
// enforcement lives entirely in the token service; there is no server-side
// revocation list, so logout only clears the refresh cookie and issued
// access tokens simply run out.
type Service struct {
	store  Store
	tokens *tokens.Service
	mailer mailer.Mailer
	log    zerolog.Logger
}

// NewService wires the session manager.
func NewService(st Store, tk *tokens.Service, m mailer.Mailer, log zerolog.Logger) *Service {
	return &Service{store: st, tokens: tk, mailer: m, log: log.With().Str("component", "auth").Logger()}
}

// Login checks the credentials of the given account kind and issues a
// fresh token pair. Unknown email is NotFound; wrong password is
// Unauthorized.
func (s *Service) Login(ctx context.Context, role models.Role, email, password string) (*store.AccountRecord, *TokenPair, error) {
	account, err := s.store.AccountByEmail(ctx, role, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(account)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("role", string(role)).Str("user_id", account.ID).Msg("login")
	return account, pair, nil
}

// Signup registers a new admin or patient account. Doctors go through the
// invitation handshake instead.
func (s *Service) Signup(ctx context.Context, role models.Role, name, email, phone, password string) (*store.AccountRecord, error) {
	if _, err := s.store.AccountByEmail(ctx, role, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	account := models.Account{Name: name, Email: email, Phone: phone, Password: hash}
	var id string
	switch role {
	case models.RoleAdmin:
		admin := models.Admin{Account: account}
		if err := s.store.CreateAdmin(ctx, &admin); err != nil {
			return nil, err
		}
		id = admin.ID
	default:
		patient := models.Patient{Account: account}
		if err := s.store.CreatePatient(ctx, &patient); err != nil {
			return nil, err
		}
		id = patient.ID
	}

	s.log.Info().Str("role", string(role)).Str("user_id", id).Msg("account created")
	return s.store.AccountByID(ctx, role, id)
}

// Refresh rotates the token pair. The account is re-read so revoked or
// deleted accounts stop refreshing even before the refresh token expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*store.AccountRecord, *TokenPair, error) {
	claims, err := s.tokens.Verify(tokens.KindRefresh, refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	account, err := s.store.AccountByID(ctx, claims.Role, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(account)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// RequestDoctorSignup creates a doctor record in the invited state. The
// account stays inactive until an admin verifies the request and the
// doctor completes signup with the mailed token.
func (s *Service) RequestDoctorSignup(ctx context.Context, name, email, phone, certificate, identity string) (*models.Doctor, error) {
	if _, err := s.store.AccountByEmail(ctx, models.RoleDoctor, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	doctor := models.Doctor{
		Account:            models.Account{Name: name, Email: email, Phone: phone},
		RegistrationStatus: models.RegistrationInvited,
		Certificate:        certificate,
		Identity:           identity,
	}
	if err := s.store.CreateDoctor(ctx, &doctor); err != nil {
		return nil, err
	}

	s.log.Info().Str("doctor_id", doctor.ID).Msg("doctor signup requested")
	return &doctor, nil
}

// VerifyDoctorSignupRequest issues the one-time signup token for an
// invited doctor, persists it and mails it out-of-band. The returned flag
// reports the mail outcome, recorded on the registration status.
func (s *Service) VerifyDoctorSignupRequest(ctx context.Context, doctorID string) (bool, error) {
	doctor, err := s.store.DoctorByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrAccountNotFound
		}
		return false, err
	}
	if doctor.RegistrationStatus == models.RegistrationCompleted {
		return false, ErrSignupCompleted
	}

	token, err := s.tokens.Issue(tokens.KindSignup, doctor.ID, models.RoleDoctor)
	if err != nil {
		return false, err
	}

	mailSent := true
	if err := s.mailer.SendDoctorSignupRequest(ctx, doctor.Email, doctor.Name, token); err != nil {
		s.log.Warn().Err(err).Str("doctor_id", doctor.ID).Msg("signup request mail not sent")
		mailSent = false
	}

	status := models.RegistrationEmailSent
	if !mailSent {
		status = models.RegistrationEmailNotSent
	}
	if err := s.store.SetSignupRequestToken(ctx, doctor.ID, token, status); err != nil {
		return false, err
	}
	return mailSent, nil
}

// CompleteDoctorSignup activates an invited doctor account. The presented
// token must verify and match the stored copy, which is consumed by the
// activation so it cannot be replayed.
func (s *Service) CompleteDoctorSignup(ctx context.Context, token, password string) (*models.Doctor, error) {
	claims, err := s.tokens.Verify(tokens.KindSignup, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	doctor, err := s.store.DoctorByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if doctor.RegistrationStatus == models.RegistrationCompleted {
		return nil, ErrSignupCompleted
	}
	if doctor.SignupRequestToken == "" || doctor.SignupRequestToken != token {
		return nil, ErrInvalidToken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.store.CompleteSignup(ctx, doctor.ID, hash); err != nil {
		return nil, err
	}

	s.log.Info().Str("doctor_id", doctor.ID).Msg("doctor signup completed")
	return s.store.DoctorByID(ctx, doctor.ID)
}

// ForgotPassword issues a short-lived recovery token, persists it on the
// account and mails it. The returned flag reports the mail outcome.
func (s *Service) ForgotPassword(ctx context.Context, role models.Role, email string) (bool, error) {
	account, err := s.store.AccountByEmail(ctx, role, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrAccountNotFound
		}
		return false, err
	}

	token, err := s.tokens.Issue(tokens.KindRecover, account.ID, role)
	if err != nil {
		return false, err
	}
	if err := s.store.SetRecoverToken(ctx, role, account.ID, token); err != nil {
		return false, err
	}

	mailSent := true
	if err := s.mailer.SendPasswordRecovery(ctx, account.Email, account.Name, token); err != nil {
		s.log.Warn().Err(err).Str("user_id", account.ID).Msg("recovery mail not sent")
		mailSent = false
	}
	return mailSent, nil
}

// RecoverPassword replaces the password of the account the token resolves
// to. The token must verify and match the stored copy; the stored copy is
// cleared so the token is single-use.
func (s *Service) RecoverPassword(ctx context.Context, role models.Role, token, password string) error {
	claims, err := s.tokens.Verify(tokens.KindRecover, token)
	if err != nil || claims.Role != role {
		return ErrInvalidToken
	}

	account, err := s.store.AccountByID(ctx, role, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if account.RecoverToken == "" || account.RecoverToken != token {
		return ErrInvalidToken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.UpdateAccountPassword(ctx, role, account.ID, hash); err != nil {
		return err
	}
	if err := s.store.SetRecoverToken(ctx, role, account.ID, ""); err != nil {
		return err
	}

	s.log.Info().Str("role", string(role)).Str("user_id", account.ID).Msg("password recovered")
	return nil
}

// ChangePassword replaces the password of an authenticated account after
// verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, role models.Role, id, oldPassword, newPassword string) error {
	account, err := s.store.AccountByID(ctx, role, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdateAccountPassword(ctx, role, id, hash)
}

// UpdateProfile edits the mutable profile fields of an account.
func (s *Service) UpdateProfile(ctx context.Context, role models.Role, id, name, phone string) (*store.AccountRecord, error) {
	account, err := s.store.UpdateAccountProfile(ctx, role, id, name, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *Service) issuePair(account *store.AccountRecord) (*TokenPair, error) {
	access, err := s.tokens.Issue(tokens.KindAccess, account.ID, account.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(tokens.KindRefresh, account.ID, account.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
