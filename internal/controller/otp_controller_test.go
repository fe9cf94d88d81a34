package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/constant"
	"DreamEventsAPI/internal/model"
	"DreamEventsAPI/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOTPStore struct {
	recs map[string]*model.OTPVerification
}

func key(phone string, intent constant.OTPIntent) string {
	return phone + "|" + string(intent)
}

func (m *memOTPStore) Upsert(_ context.Context, rec *model.OTPVerification) error {
	stored := *rec
	m.recs[key(rec.Phone, rec.Intent)] = &stored
	return nil
}

func (m *memOTPStore) Get(_ context.Context, phone string, intent constant.OTPIntent) (*model.OTPVerification, error) {
	rec, ok := m.recs[key(phone, intent)]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (m *memOTPStore) IncrementAttempts(_ context.Context, phone string, intent constant.OTPIntent) (int, bool, error) {
	rec, ok := m.recs[key(phone, intent)]
	if !ok || rec.Verified || rec.Attempts >= constant.MaxOTPAttempts || !time.Now().Before(rec.ExpiresAt) {
		return 0, false, nil
	}
	rec.Attempts++
	return rec.Attempts, true, nil
}

func (m *memOTPStore) Consume(_ context.Context, phone string, intent constant.OTPIntent, code string) (bool, error) {
	rec, ok := m.recs[key(phone, intent)]
	if !ok || rec.Verified || rec.Attempts >= constant.MaxOTPAttempts || !time.Now().Before(rec.ExpiresAt) || rec.Code != code {
		return false, nil
	}
	rec.Verified = true
	return true, nil
}

type noopSMS struct{}

func (noopSMS) SendOTP(string, string) error { return nil }

func newTestController() (*OTPController, *memOTPStore) {
	store := &memOTPStore{recs: make(map[string]*model.OTPVerification)}
	cfg := &config.AppConfig{OTPExp: 300}
	svc := service.NewOTPService(store, noopSMS{}, cfg, config.NewValidator(), nil, nil)
	return NewOTPController(svc), store
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestSendOTPEndpoint(t *testing.T) {
	c, store := newTestController()

	rr := postJSON(t, c.SendOTP, "/api/otp/send", model.SendOTPRequest{
		Phone: "98765 43210",
		Type:  "signup",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp model.SendOTPResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "+919876543210", resp.Phone)
	assert.Equal(t, 300, resp.ExpiresIn)

	assert.NotNil(t, store.recs[key("+919876543210", constant.IntentSignup)])
}

func TestSendOTPEndpointMissingPhone(t *testing.T) {
	c, _ := newTestController()

	rr := postJSON(t, c.SendOTP, "/api/otp/send", model.SendOTPRequest{Type: "signup"})

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestSendOTPEndpointBadBody(t *testing.T) {
	c, _ := newTestController()

	req := httptest.NewRequest(http.MethodPost, "/api/otp/send", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	c.SendOTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerifyOTPEndpoint(t *testing.T) {
	c, store := newTestController()

	store.recs[key("+919876543210", constant.IntentLogin)] = &model.OTPVerification{
		Phone:     "+919876543210",
		Code:      "482913",
		Intent:    constant.IntentLogin,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}

	rr := postJSON(t, c.VerifyOTP, "/api/otp/verify", model.VerifyOTPRequest{
		Phone: "9876543210",
		OTP:   "482913",
		Type:  "login",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp model.VerifyOTPResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Verified)
}

func TestVerifyOTPEndpointNoRecord(t *testing.T) {
	c, _ := newTestController()

	rr := postJSON(t, c.VerifyOTP, "/api/otp/verify", model.VerifyOTPRequest{
		Phone: "9876543210",
		OTP:   "482913",
		Type:  "login",
	})

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
