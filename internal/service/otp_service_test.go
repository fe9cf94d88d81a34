package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/constant"
	"DreamEventsAPI/internal/helper"
	"DreamEventsAPI/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOTPStore mirrors the conditional-update semantics of the Postgres
// repository: increments and consumes only touch live records.
type fakeOTPStore struct {
	recs       map[string]*model.OTPVerification
	upsertErr  error
	getErr     error
	consumeErr error
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{recs: make(map[string]*model.OTPVerification)}
}

func storeKey(phone string, intent constant.OTPIntent) string {
	return phone + "|" + string(intent)
}

func (f *fakeOTPStore) Upsert(_ context.Context, rec *model.OTPVerification) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	stored := *rec
	stored.Verified = false
	stored.Attempts = 0
	stored.CreatedAt = time.Now()
	f.recs[storeKey(rec.Phone, rec.Intent)] = &stored
	return nil
}

func (f *fakeOTPStore) Get(_ context.Context, phone string, intent constant.OTPIntent) (*model.OTPVerification, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.recs[storeKey(phone, intent)]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeOTPStore) IncrementAttempts(_ context.Context, phone string, intent constant.OTPIntent) (int, bool, error) {
	rec, ok := f.recs[storeKey(phone, intent)]
	if !ok || rec.Verified || rec.Attempts >= constant.MaxOTPAttempts || !time.Now().Before(rec.ExpiresAt) {
		return 0, false, nil
	}
	rec.Attempts++
	return rec.Attempts, true, nil
}

func (f *fakeOTPStore) Consume(_ context.Context, phone string, intent constant.OTPIntent, code string) (bool, error) {
	if f.consumeErr != nil {
		return false, f.consumeErr
	}
	rec, ok := f.recs[storeKey(phone, intent)]
	if !ok || rec.Verified || rec.Attempts >= constant.MaxOTPAttempts || !time.Now().Before(rec.ExpiresAt) {
		return false, nil
	}
	if rec.Code != code {
		return false, nil
	}
	rec.Verified = true
	return true, nil
}

type fakeSMS struct {
	sent []string
	err  error
}

func (f *fakeSMS) SendOTP(phone string, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phone+":"+code)
	return nil
}

type fakeAccounts struct {
	created    []string
	createResp *model.AuthResponse
	createErr  error
	signInResp *model.AuthResponse
	signInErr  error
	byPhone    *model.UserDTO
	byPhoneErr error
}

func (f *fakeAccounts) CreateAccount(_ context.Context, email, password, fullName, phone string) (*model.AuthResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, email+"|"+phone)
	return f.createResp, nil
}

func (f *fakeAccounts) SignIn(_ context.Context, email, password string) (*model.AuthResponse, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInResp, nil
}

func (f *fakeAccounts) FindByPhone(_ context.Context, phone string) (*model.UserDTO, error) {
	if f.byPhoneErr != nil {
		return nil, f.byPhoneErr
	}
	return f.byPhone, nil
}

func testAppConfig() *config.AppConfig {
	return &config.AppConfig{
		OTPExp:              300,
		OTPRateLimitSeconds: 60,
		JWTSecret:           "test-secret",
		JWTExp:              3600,
		AdminPhone:          "+918766353710",
		AdminEmail:          "admin@example.com",
		AdminPassword:       "super-secret",
	}
}

func newTestService(store *fakeOTPStore, sms *fakeSMS, accounts *fakeAccounts) *OTPService {
	cfg := testAppConfig()
	policies := map[constant.OTPIntent]IntentPolicy{
		constant.IntentSignup:     NewSignupPolicy(accounts),
		constant.IntentLogin:      NewLoginPolicy(accounts),
		constant.IntentAdminLogin: NewAdminPolicy(accounts, cfg),
	}
	return NewOTPService(store, sms, cfg, config.NewValidator(), nil, policies)
}

func issuedCode(t *testing.T, store *fakeOTPStore, phone string, intent constant.OTPIntent) string {
	t.Helper()
	rec, ok := store.recs[storeKey(phone, intent)]
	require.True(t, ok, "expected a stored OTP record for %s/%s", phone, intent)
	return rec.Code
}

func TestSendOTPNormalizesAndStores(t *testing.T) {
	store := newFakeOTPStore()
	sms := &fakeSMS{}
	svc := newTestService(store, sms, &fakeAccounts{})

	resp, err := svc.SendOTP(context.Background(), model.SendOTPRequest{
		Phone: "+91 98765-43210",
		Type:  "signup",
		Email: "user@example.com",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "+919876543210", resp.Phone)
	assert.Equal(t, 300, resp.ExpiresIn)

	rec := store.recs[storeKey("+919876543210", constant.IntentSignup)]
	require.NotNil(t, rec)
	assert.Len(t, rec.Code, 6)
	assert.False(t, rec.Verified)
	assert.Equal(t, 0, rec.Attempts)
	assert.True(t, rec.ExpiresAt.After(time.Now().Add(4*time.Minute)))

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+919876543210:"+rec.Code, sms.sent[0])
}

func TestSendOTPMissingPhone(t *testing.T) {
	svc := newTestService(newFakeOTPStore(), &fakeSMS{}, &fakeAccounts{})

	_, err := svc.SendOTP(context.Background(), model.SendOTPRequest{Type: "login"})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestSendOTPUnknownIntent(t *testing.T) {
	svc := newTestService(newFakeOTPStore(), &fakeSMS{}, &fakeAccounts{})

	_, err := svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "9876543210", Type: "password_reset"})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestSendOTPDispatchFailureLeavesRecord(t *testing.T) {
	store := newFakeOTPStore()
	sms := &fakeSMS{err: errors.New("gateway down")}
	svc := newTestService(store, sms, &fakeAccounts{})

	_, err := svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "9876543210", Type: "login"})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)

	// The orphaned record is overwritten by the next issue call.
	assert.NotNil(t, store.recs[storeKey("+919876543210", constant.IntentLogin)])
}

func TestSendOTPRateLimited(t *testing.T) {
	store := newFakeOTPStore()
	cfg := testAppConfig()
	rl := config.NewRateLimiter(cfg)
	defer rl.Stop()

	svc := NewOTPService(store, &fakeSMS{}, cfg, config.NewValidator(), rl, nil)

	_, err := svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "9876543210", Type: "login"})
	require.NoError(t, err)

	_, err = svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "98765 43210", Type: "login"})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusTooManyRequests, appErr.Code)
}

func TestReissueInvalidatesPreviousCode(t *testing.T) {
	store := newFakeOTPStore()
	svc := newTestService(store, &fakeSMS{}, &fakeAccounts{byPhone: nil})

	_, err := svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "9876543210", Type: "login"})
	require.NoError(t, err)
	firstCode := issuedCode(t, store, "+919876543210", constant.IntentLogin)

	_, err = svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "9876543210", Type: "login"})
	require.NoError(t, err)
	secondCode := issuedCode(t, store, "+919876543210", constant.IntentLogin)

	if firstCode == secondCode {
		t.Skip("codes collided; nothing to assert")
	}

	_, err = svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
		Phone: "9876543210", OTP: firstCode, Type: "login",
	})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Invalid OTP. Please try again.", appErr.Message)
}

func TestVerifyOTPMalformedCode(t *testing.T) {
	svc := newTestService(newFakeOTPStore(), &fakeSMS{}, &fakeAccounts{})

	for _, otp := range []string{"12ab56", "12345", "1234567"} {
		_, err := svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
			Phone: "9876543210", OTP: otp, Type: "login",
		})
		require.Error(t, err, "otp %q", otp)

		appErr := err.(*helper.AppError)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, "OTP must be a 6-digit code", appErr.Message, "otp %q", otp)
	}
}

func TestVerifyOTPMissingFields(t *testing.T) {
	svc := newTestService(newFakeOTPStore(), &fakeSMS{}, &fakeAccounts{})

	_, err := svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{Type: "login"})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Phone and OTP are required", appErr.Message)
}

func TestVerifyOTPNoRecord(t *testing.T) {
	svc := newTestService(newFakeOTPStore(), &fakeSMS{}, &fakeAccounts{})

	_, err := svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
		Phone: "9876543210", OTP: "123456", Type: "login",
	})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestVerifyOTPExpired(t *testing.T) {
	store := newFakeOTPStore()
	svc := newTestService(store, &fakeSMS{}, &fakeAccounts{})

	_, err := svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "9876543210", Type: "signup"})
	require.NoError(t, err)

	rec := store.recs[storeKey("+919876543210", constant.IntentSignup)]
	code := rec.Code
	rec.ExpiresAt = time.Now().Add(-time.Second)

	_, err = svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
		Phone: "9876543210", OTP: code, Type: "signup", Email: "u@example.com", Password: "pw",
	})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "OTP has expired. Please request a new one.", appErr.Message)
}

func TestVerifyOTPAttemptCap(t *testing.T) {
	store := newFakeOTPStore()
	accounts := &fakeAccounts{byPhone: &model.UserDTO{Email: "u@example.com"}}
	svc := newTestService(store, &fakeSMS{}, accounts)

	_, err := svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "9876543210", Type: "login"})
	require.NoError(t, err)
	code := issuedCode(t, store, "+919876543210", constant.IntentLogin)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 1; i <= 3; i++ {
		_, err := svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
			Phone: "9876543210", OTP: wrong, Type: "login",
		})
		require.Error(t, err)

		appErr := err.(*helper.AppError)
		assert.Equal(t, http.StatusBadRequest, appErr.Code, "attempt %d", i)
		assert.Equal(t, "Invalid OTP. Please try again.", appErr.Message, "attempt %d", i)
		assert.Equal(t, i, store.recs[storeKey("+919876543210", constant.IntentLogin)].Attempts)
	}

	// Fourth submission fails before comparison, even with the right code.
	_, err = svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
		Phone: "9876543210", OTP: code, Type: "login",
	})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Too many failed attempts. Please request a new OTP.", appErr.Message)
	assert.Equal(t, 3, store.recs[storeKey("+919876543210", constant.IntentLogin)].Attempts)
}

func TestVerifyOTPSignupCreatesAccount(t *testing.T) {
	store := newFakeOTPStore()
	accounts := &fakeAccounts{
		createResp: &model.AuthResponse{
			Success: true,
			Session: &model.SessionDTO{AccessToken: "token", TokenType: "bearer", ExpiresIn: 3600},
			User:    &model.UserDTO{Email: "u@example.com"},
		},
	}
	svc := newTestService(store, &fakeSMS{}, accounts)

	_, err := svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "+91 98765-43210", Type: "signup"})
	require.NoError(t, err)
	code := issuedCode(t, store, "+919876543210", constant.IntentSignup)

	resp, err := svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
		Phone: "9876543210", OTP: code, Type: "signup",
		Email: "u@example.com", Password: "Password1!", FullName: "Test User",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Session)
	require.Len(t, accounts.created, 1)
	assert.Equal(t, "u@example.com|+919876543210", accounts.created[0])

	assert.True(t, store.recs[storeKey("+919876543210", constant.IntentSignup)].Verified)
}

func TestVerifyOTPDoubleSubmitRejected(t *testing.T) {
	store := newFakeOTPStore()
	accounts := &fakeAccounts{byPhone: &model.UserDTO{Email: "u@example.com"}}
	svc := newTestService(store, &fakeSMS{}, accounts)

	_, err := svc.SendOTP(context.Background(), model.SendOTPRequest{Phone: "9876543210", Type: "login"})
	require.NoError(t, err)
	code := issuedCode(t, store, "+919876543210", constant.IntentLogin)

	_, err = svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
		Phone: "9876543210", OTP: code, Type: "login",
	})
	require.NoError(t, err)

	// The record is consumed; replaying the same correct code must not succeed.
	_, err = svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
		Phone: "9876543210", OTP: code, Type: "login",
	})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestVerifyOTPStorageFailure(t *testing.T) {
	store := newFakeOTPStore()
	store.getErr = fmt.Errorf("connection reset")
	svc := newTestService(store, &fakeSMS{}, &fakeAccounts{})

	_, err := svc.VerifyOTP(context.Background(), model.VerifyOTPRequest{
		Phone: "9876543210", OTP: "123456", Type: "login",
	})
	require.Error(t, err)

	appErr := err.(*helper.AppError)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
