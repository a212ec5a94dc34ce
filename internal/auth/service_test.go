package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mussacharles60/hospital-booking/internal/config"
	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/store"
	"github.com/mussacharles60/hospital-booking/internal/tokens"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendAppointmentAssigned(ctx context.Context, to, patientName, departmentName string, appointedAt int64) error {
	args := m.Called(ctx, to, patientName, departmentName, appointedAt)
	return args.Error(0)
}

func (m *mockMailer) SendDoctorSignupRequest(ctx context.Context, to, name, token string) error {
	args := m.Called(ctx, to, name, token)
	return args.Error(0)
}

func (m *mockMailer) SendPasswordRecovery(ctx context.Context, to, name, token string) error {
	args := m.Called(ctx, to, name, token)
	return args.Error(0)
}

func testTokens(t *testing.T) *tokens.Service {
	t.Helper()
	return tokens.NewService(config.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		RecoverSecret: "recover-secret",
		SignupSecret:  "signup-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		RecoverTTL:    5 * time.Minute,
		SignupTTL:     24 * time.Hour,
	})
}

func testService(t *testing.T, m *mockMailer) *Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	db, err := store.New(gdb)
	require.NoError(t, err)
	return NewService(db, testTokens(t), m, zerolog.Nop())
}

func signupPatient(t *testing.T, svc *Service, email, password string) *store.AccountRecord {
	t.Helper()
	account, err := svc.Signup(context.Background(), models.RolePatient, "Jane Roe", email, "+255700000001", password)
	require.NoError(t, err)
	return account
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := testService(t, new(mockMailer))

	_, _, err := svc.Login(context.Background(), models.RolePatient, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := testService(t, new(mockMailer))
	signupPatient(t, svc, "jane@example.com", "password123")

	_, _, err := svc.Login(context.Background(), models.RolePatient, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginIssuesVerifiablePair(t *testing.T) {
	svc := testService(t, new(mockMailer))
	created := signupPatient(t, svc, "jane@example.com", "password123")

	account, pair, err := svc.Login(context.Background(), models.RolePatient, "jane@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)

	claims, err := svc.tokens.Verify(tokens.KindAccess, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.UserID)
	assert.Equal(t, models.RolePatient, claims.Role)

	_, err = svc.tokens.Verify(tokens.KindRefresh, pair.Refresh)
	require.NoError(t, err)
}

func TestLoginRoleKeying(t *testing.T) {
	svc := testService(t, new(mockMailer))
	signupPatient(t, svc, "jane@example.com", "password123")

	// The same credentials do not resolve an account of another kind.
	_, _, err := svc.Login(context.Background(), models.RoleAdmin, "jane@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := testService(t, new(mockMailer))
	signupPatient(t, svc, "jane@example.com", "password123")

	_, err := svc.Signup(context.Background(), models.RolePatient, "Jane Doe", "jane@example.com", "+255700000002", "password456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupNeverStoresPlaintext(t *testing.T) {
	svc := testService(t, new(mockMailer))
	account := signupPatient(t, svc, "jane@example.com", "password123")

	assert.NotEqual(t, "password123", account.PasswordHash)
	assert.NotEmpty(t, account.PasswordHash)
}

func TestRefreshRotatesPair(t *testing.T) {
	svc := testService(t, new(mockMailer))
	signupPatient(t, svc, "jane@example.com", "password123")

	_, pair, err := svc.Login(context.Background(), models.RolePatient, "jane@example.com", "password123")
	require.NoError(t, err)

	account, rotated, err := svc.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, models.RolePatient, account.Role)
	assert.NotEmpty(t, rotated.Access)
	assert.NotEmpty(t, rotated.Refresh)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := testService(t, new(mockMailer))

	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := testService(t, new(mockMailer))
	signupPatient(t, svc, "jane@example.com", "password123")

	_, pair, err := svc.Login(context.Background(), models.RolePatient, "jane@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDoctorSignupHandshake(t *testing.T) {
	m := new(mockMailer)
	var mailedToken string
	m.On("SendDoctorSignupRequest", mock.Anything, "doc@example.com", "Gregory House", mock.Anything).
		Run(func(args mock.Arguments) { mailedToken = args.String(3) }).
		Return(nil)

	svc := testService(t, m)
	ctx := context.Background()

	doctor, err := svc.RequestDoctorSignup(ctx, "Gregory House", "doc@example.com", "+255700000009", "cert.pdf", "id.pdf")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationInvited, doctor.RegistrationStatus)

	mailSent, err := svc.VerifyDoctorSignupRequest(ctx, doctor.ID)
	require.NoError(t, err)
	assert.True(t, mailSent)
	require.NotEmpty(t, mailedToken)

	stored, err := svc.store.DoctorByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationEmailSent, stored.RegistrationStatus)
	assert.Equal(t, mailedToken, stored.SignupRequestToken)

	completed, err := svc.CompleteDoctorSignup(ctx, mailedToken, "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationCompleted, completed.RegistrationStatus)
	assert.Empty(t, completed.SignupRequestToken)

	_, _, err = svc.Login(ctx, models.RoleDoctor, "doc@example.com", "password123")
	require.NoError(t, err)

	// The token was consumed by the activation.
	_, err = svc.CompleteDoctorSignup(ctx, mailedToken, "password456")
	assert.ErrorIs(t, err, ErrSignupCompleted)
}

func TestVerifyDoctorSignupRequestMailFailure(t *testing.T) {
	m := new(mockMailer)
	m.On("SendDoctorSignupRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp unreachable"))

	svc := testService(t, m)
	ctx := context.Background()

	doctor, err := svc.RequestDoctorSignup(ctx, "Gregory House", "doc@example.com", "+255700000009", "cert.pdf", "id.pdf")
	require.NoError(t, err)

	mailSent, err := svc.VerifyDoctorSignupRequest(ctx, doctor.ID)
	require.NoError(t, err)
	assert.False(t, mailSent)

	stored, err := svc.store.DoctorByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationEmailNotSent, stored.RegistrationStatus)
	// The token is still stored so the doctor can be reached another way.
	assert.NotEmpty(t, stored.SignupRequestToken)
}

func TestCompleteDoctorSignupForgedToken(t *testing.T) {
	m := new(mockMailer)
	m.On("SendDoctorSignupRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := testService(t, m)
	ctx := context.Background()

	doctor, err := svc.RequestDoctorSignup(ctx, "Gregory House", "doc@example.com", "+255700000009", "cert.pdf", "id.pdf")
	require.NoError(t, err)
	_, err = svc.VerifyDoctorSignupRequest(ctx, doctor.ID)
	require.NoError(t, err)

	// A token that verifies but was never persisted for this doctor is
	// rejected by the stored-copy check.
	forged, err := svc.tokens.Issue(tokens.KindSignup, doctor.ID, models.RoleDoctor)
	require.NoError(t, err)

	_, err = svc.CompleteDoctorSignup(ctx, forged, "password123")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordRecoveryFlow(t *testing.T) {
	m := new(mockMailer)
	var mailedToken string
	m.On("SendPasswordRecovery", mock.Anything, "jane@example.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { mailedToken = args.String(3) }).
		Return(nil)

	svc := testService(t, m)
	ctx := context.Background()
	signupPatient(t, svc, "jane@example.com", "password123")

	mailSent, err := svc.ForgotPassword(ctx, models.RolePatient, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, mailSent)
	require.NotEmpty(t, mailedToken)

	require.NoError(t, svc.RecoverPassword(ctx, models.RolePatient, mailedToken, "password456"))

	_, _, err = svc.Login(ctx, models.RolePatient, "jane@example.com", "password456")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, models.RolePatient, "jane@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The stored token was cleared, so the link is single-use.
	err = svc.RecoverPassword(ctx, models.RolePatient, mailedToken, "password789")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRecoverPasswordWrongRole(t *testing.T) {
	m := new(mockMailer)
	var mailedToken string
	m.On("SendPasswordRecovery", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { mailedToken = args.String(3) }).
		Return(nil)

	svc := testService(t, m)
	ctx := context.Background()
	signupPatient(t, svc, "jane@example.com", "password123")

	_, err := svc.ForgotPassword(ctx, models.RolePatient, "jane@example.com")
	require.NoError(t, err)

	err = svc.RecoverPassword(ctx, models.RoleAdmin, mailedToken, "password456")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc := testService(t, new(mockMailer))
	ctx := context.Background()
	account := signupPatient(t, svc, "jane@example.com", "password123")

	err := svc.ChangePassword(ctx, models.RolePatient, account.ID, "wrong-password", "password456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, models.RolePatient, account.ID, "password123", "password456"))

	_, _, err = svc.Login(ctx, models.RolePatient, "jane@example.com", "password456")
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := testService(t, new(mockMailer))
	ctx := context.Background()
	account := signupPatient(t, svc, "jane@example.com", "password123")

	updated, err := svc.UpdateProfile(ctx, models.RolePatient, account.ID, "Jane Doe", "+255700000099")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, "+255700000099", updated.Phone)

	_, err = svc.UpdateProfile(ctx, models.RolePatient, "missing-id", "Jane Doe", "+255700000099")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
