package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rkaram/bankms_backend/models"
	"github.com/rkaram/bankms_backend/utils"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, userID primitive.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == userID {
			user.Password = hash
			return nil
		}
	}
	return ErrNotFound
}

func (s *fakeUserStore) SetActive(_ context.Context, userID primitive.ObjectID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == userID {
			user.IsActive = active
			return nil
		}
	}
	return ErrNotFound
}

type fakeOTPStore struct {
	mu      sync.Mutex
	records map[string]*models.EmailOTP
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{records: make(map[string]*models.EmailOTP)}
}

func (s *fakeOTPStore) Replace(_ context.Context, record *models.EmailOTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records[record.Email] = &copied
	return nil
}

func (s *fakeOTPStore) Find(_ context.Context, email string) (*models.EmailOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *fakeOTPStore) MarkVerified(_ context.Context, email, code string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[email]
	if !ok || record.Verified || record.Consumed || record.OTP != code || now.After(record.ExpiresAt) {
		return false, nil
	}
	record.Verified = true
	return true, nil
}

func (s *fakeOTPStore) RegisterFailure(_ context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[email]
	if !ok {
		return 0, ErrNotFound
	}
	record.Attempts++
	return record.Attempts, nil
}

func (s *fakeOTPStore) Consume(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[email]; ok {
		record.Consumed = true
	}
	return nil
}

type sentMail struct {
	to, name, otp string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *fakeMailer) SendOTP(to, name, otp string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, name: name, otp: otp})
	return nil
}

func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "expected at least one OTP email")
	return m.sent[len(m.sent)-1].otp
}

const testEmail = "a@b.com"

func newTestService(t *testing.T) (*OTPService, *fakeUserStore, *fakeOTPStore, *fakeMailer) {
	t.Helper()
	hash, err := utils.HashPassword("oldPassword1")
	require.NoError(t, err)

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    testEmail,
		Username: "ayman",
		Password: hash,
	}
	users := newFakeUserStore(user)
	otps := newFakeOTPStore()
	mailer := &fakeMailer{}
	svc := NewOTPService(users, otps, mailer, 10*time.Minute)
	return svc, users, otps, mailer
}

// wrongCode returns a 4-digit code guaranteed to differ from the given one
func wrongCode(code string) string {
	if code == "0000" {
		return "1111"
	}
	return "0000"
}

func TestIssueUnknownEmail(t *testing.T) {
	svc, _, _, mailer := newTestService(t)

	err := svc.Issue(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, mailer.sent)
}

func TestIssueSendsOneEmail(t *testing.T) {
	svc, _, otps, mailer := newTestService(t)

	require.NoError(t, svc.Issue(context.Background(), testEmail))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, testEmail, mailer.sent[0].to)
	assert.Len(t, mailer.sent[0].otp, 4)

	record, err := otps.Find(context.Background(), testEmail)
	require.NoError(t, err)
	assert.Equal(t, mailer.sent[0].otp, record.OTP)
	assert.False(t, record.Verified)
	assert.False(t, record.Consumed)
}

func TestIssueMailFailure(t *testing.T) {
	svc, _, _, mailer := newTestService(t)
	mailer.fail = errors.New("smtp connection refused")

	err := svc.Issue(context.Background(), testEmail)
	assert.ErrorIs(t, err, ErrMailTransport)
}

func TestVerifyNoRecord(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	result, err := svc.Verify(context.Background(), testEmail, "1234")
	require.NoError(t, err)
	assert.Equal(t, NotFound, result)
	assert.Equal(t, "not_found", result.Reason())
}

func TestReissueSupersedesPriorCode(t *testing.T) {
	svc, _, _, mailer := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testEmail))
	firstCode := mailer.lastCode(t)

	require.NoError(t, svc.Issue(ctx, testEmail))
	secondCode := mailer.lastCode(t)

	if firstCode != secondCode {
		result, err := svc.Verify(ctx, testEmail, firstCode)
		require.NoError(t, err)
		assert.NotEqual(t, Valid, result, "superseded code must never verify")
	}

	result, err := svc.Verify(ctx, testEmail, secondCode)
	require.NoError(t, err)
	assert.Equal(t, Valid, result)
}

func TestVerifyReplayPrevented(t *testing.T) {
	svc, _, _, mailer := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testEmail))
	code := mailer.lastCode(t)

	result, err := svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)
	require.Equal(t, Valid, result)

	// Second verification with the same correct code must not be Valid again
	result, err = svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)
	assert.Equal(t, NotFound, result)
}

func TestVerifyExpired(t *testing.T) {
	svc, _, otps, mailer := newTestService(t)
	ctx := context.Background()

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	require.NoError(t, svc.Issue(ctx, testEmail))
	code := mailer.lastCode(t)

	// Even the exact code is rejected once the TTL has passed
	svc.now = func() time.Time { return issued.Add(11 * time.Minute) }
	result, err := svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)
	assert.Equal(t, Expired, result)
	assert.Equal(t, "expired", result.Reason())

	record, err := otps.Find(ctx, testEmail)
	require.NoError(t, err)
	assert.True(t, record.Consumed)
}

func TestVerifyWrongThenRightThenReplay(t *testing.T) {
	svc, _, _, mailer := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testEmail))
	code := mailer.lastCode(t)

	result, err := svc.Verify(ctx, testEmail, wrongCode(code))
	require.NoError(t, err)
	assert.Equal(t, Invalid, result)
	assert.Equal(t, "invalid", result.Reason())

	result, err = svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)
	assert.Equal(t, Valid, result)

	result, err = svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)
	assert.Equal(t, NotFound, result)
}

func TestVerifyAttemptCapConsumesRecord(t *testing.T) {
	svc, _, _, mailer := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testEmail))
	code := mailer.lastCode(t)
	bad := wrongCode(code)

	for i := 0; i < maxOTPAttempts; i++ {
		result, err := svc.Verify(ctx, testEmail, bad)
		require.NoError(t, err)
		assert.Equal(t, Invalid, result)
	}

	// The record is burned: even the correct code is no longer usable
	result, err := svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)
	assert.Equal(t, NotFound, result)
}

func TestResetRequiresVerification(t *testing.T) {
	svc, _, _, mailer := newTestService(t)
	ctx := context.Background()

	// Without any OTP record
	err := svc.Reset(ctx, testEmail, "newPassword1")
	assert.ErrorIs(t, err, ErrNotVerified)

	// With an issued but unverified record
	require.NoError(t, svc.Issue(ctx, testEmail))
	_ = mailer.lastCode(t)
	err = svc.Reset(ctx, testEmail, "newPassword1")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestResetPasswordPolicy(t *testing.T) {
	svc, _, _, mailer := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testEmail))
	code := mailer.lastCode(t)
	result, err := svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)
	require.Equal(t, Valid, result)

	err = svc.Reset(ctx, testEmail, "short")
	assert.ErrorIs(t, err, ErrPolicyViolation)

	err = svc.Reset(ctx, testEmail, "thisPasswordIsFarTooLongForThePolicy")
	assert.ErrorIs(t, err, ErrPolicyViolation)

	// Policy failures must not consume the verification
	require.NoError(t, svc.Reset(ctx, testEmail, "newPassword1"))
}

func TestResetCommitsNewPasswordAndConsumesOTP(t *testing.T) {
	svc, users, otps, mailer := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testEmail))
	code := mailer.lastCode(t)
	result, err := svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)
	require.Equal(t, Valid, result)

	require.NoError(t, svc.Reset(ctx, testEmail, "newPassword1"))

	user, err := users.FindByEmail(ctx, testEmail)
	require.NoError(t, err)
	assert.NoError(t, utils.CheckPassword("newPassword1", user.Password))
	assert.Error(t, utils.CheckPassword("oldPassword1", user.Password))

	record, err := otps.Find(ctx, testEmail)
	require.NoError(t, err)
	assert.True(t, record.Consumed)

	// The consumed record cannot back a second reset
	err = svc.Reset(ctx, testEmail, "anotherPass1")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestResetVerifiedButExpired(t *testing.T) {
	svc, _, _, mailer := newTestService(t)
	ctx := context.Background()

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	require.NoError(t, svc.Issue(ctx, testEmail))
	code := mailer.lastCode(t)

	result, err := svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)
	require.Equal(t, Valid, result)

	svc.now = func() time.Time { return issued.Add(11 * time.Minute) }
	err = svc.Reset(ctx, testEmail, "newPassword1")
	assert.ErrorIs(t, err, ErrNotVerified)
}
