package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"DreamEventsAPI/internal/config"
)

// SMSAdapter sends one-time codes through the MSG91 flow API. The code is
// passed as the template variable VAR1; MSG91 expects the destination number
// without the leading "+".
type SMSAdapter struct {
	httpClient *http.Client
	cfg        *config.AppConfig
}

func NewSMSAdapter(cfg *config.AppConfig, httpClient *http.Client) *SMSAdapter {
	return &SMSAdapter{
		httpClient: httpClient,
		cfg:        cfg,
	}
}

type msg91FlowRequest struct {
	TemplateID string `json:"template_id"`
	Sender     string `json:"sender"`
	ShortURL   string `json:"short_url"`
	Mobiles    string `json:"mobiles"`
	VAR1       string `json:"VAR1"`
}

type msg91FlowResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (a *SMSAdapter) Configured() bool {
	return a.cfg.MSG91AuthKey != "" && a.cfg.MSG91TemplateID != ""
}

// SendOTP dispatches the code to phone (E.164). Exactly one outbound request
// per call: a transient gateway failure is surfaced as the dispatch error, and
// recovery is the caller reissuing, which replaces the pending code. Retrying
// here could deliver the same code twice.
func (a *SMSAdapter) SendOTP(phone string, code string) error {
	if !a.Configured() {
		return fmt.Errorf("sms gateway credentials not configured")
	}

	payload := msg91FlowRequest{
		TemplateID: a.cfg.MSG91TemplateID,
		Sender:     a.cfg.MSG91SenderID,
		ShortURL:   "0",
		Mobiles:    strings.TrimPrefix(phone, "+"),
		VAR1:       code,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %w", err)
	}

	url := a.cfg.MSG91BaseURL + "/api/v5/flow/"

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return err
	}
	req.Header.Set("authkey", a.cfg.MSG91AuthKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach sms gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read sms gateway response: %w", err)
	}

	var flowResp msg91FlowResponse
	if err := json.Unmarshal(body, &flowResp); err != nil {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	if flowResp.Type != "success" {
		return fmt.Errorf("sms gateway rejected the send: %s", flowResp.Message)
	}

	return nil
}
