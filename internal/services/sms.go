package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	smsToken       string
	smsTokenExpiry time.Time
	smsTokenMu     sync.RWMutex
	smsHTTPClient  = &http.Client{Timeout: 15 * time.Second}
)

// SMSConfig holds gateway credentials loaded from environment variables.
type SMSConfig struct {
	BaseURL  string
	Username string
	Password string
	Enabled  bool
}

// LoadSMSConfig reads SMS gateway configuration from environment.
func LoadSMSConfig() SMSConfig {
	return SMSConfig{
		BaseURL:  strings.TrimRight(getEnvOrDefault("SMS_BASE_URL", "https://sms.aakashsms.com/api"), "/"),
		Username: getEnvOrDefault("SMS_USERNAME", ""),
		Password: getEnvOrDefault("SMS_PASSWORD", ""),
		Enabled:  getEnvOrDefault("SMS_ENABLED", "false") == "true",
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

type smsAuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// GetSMSToken returns a cached gateway token, fetching a new one if needed.
func GetSMSToken() (string, error) {
	return getSMSToken(false)
}

func getSMSToken(force bool) (string, error) {
	cfg := LoadSMSConfig()
	if !cfg.Enabled {
		return "", errors.New("sms gateway is disabled")
	}

	if !force {
		smsTokenMu.RLock()
		if smsToken != "" && time.Now().Before(smsTokenExpiry) {
			t := smsToken
			smsTokenMu.RUnlock()
			return t, nil
		}
		smsTokenMu.RUnlock()
	}

	smsTokenMu.Lock()
	defer smsTokenMu.Unlock()

	// Double-check after acquiring write lock.
	if !force && smsToken != "" && time.Now().Before(smsTokenExpiry) {
		return smsToken, nil
	}

	payload, _ := json.Marshal(map[string]string{
		"username": cfg.Username,
		"password": cfg.Password,
	})

	req, err := http.NewRequest(http.MethodPost, cfg.BaseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("sms auth request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := smsHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms auth request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sms auth failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var authResp smsAuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return "", fmt.Errorf("sms auth unmarshal: %w", err)
	}

	if authResp.Token == "" {
		return "", errors.New("sms auth: empty token")
	}

	smsToken = authResp.Token
	if authResp.ExpiresIn > 0 {
		smsTokenExpiry = time.Now().Add(time.Duration(authResp.ExpiresIn)*time.Second - 30*time.Second)
	} else {
		smsTokenExpiry = time.Now().Add(55 * time.Minute)
	}

	return smsToken, nil
}

// SendSMS sends a text message through the gateway, retrying once on 401.
func SendSMS(phone, message string) error {
	cfg := LoadSMSConfig()
	if !cfg.Enabled {
		return errors.New("sms gateway is disabled")
	}

	send := func(token string) (int, []byte, error) {
		payload, err := json.Marshal(map[string]string{
			"phone":   phone,
			"message": message,
		})
		if err != nil {
			return 0, nil, fmt.Errorf("sms send marshal: %w", err)
		}

		req, err := http.NewRequest(http.MethodPost, cfg.BaseURL+"/sms/send", bytes.NewReader(payload))
		if err != nil {
			return 0, nil, fmt.Errorf("sms send request build: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := smsHTTPClient.Do(req)
		if err != nil {
			return 0, nil, fmt.Errorf("sms send request: %w", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, body, nil
	}

	token, err := GetSMSToken()
	if err != nil {
		return err
	}

	status, body, err := send(token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		token, err = getSMSToken(true)
		if err != nil {
			return err
		}
		status, body, err = send(token)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("sms send: status %d, body: %s", status, string(body))
	}
	return nil
}

// SendOTP delivers a login code to the given phone number.
func SendOTP(phone, code string) error {
	return SendSMS(phone, fmt.Sprintf("Your Game Shop Nepal login code is %s. It expires in 10 minutes.", code))
}
