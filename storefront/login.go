package storefront

import (
	"context"
	"net/http"
	"sync"

	"github.com/example/gameshop/internal/utils"
)

// Step is the login flow position. The flow is a two-step machine:
// collect the phone, then collect the code sent to it.
type Step int

const (
	// StepPhone is collecting the phone number.
	StepPhone Step = iota
	// StepOTP is collecting the verification code.
	StepOTP
)

func (s Step) String() string {
	switch s {
	case StepPhone:
		return "phone"
	case StepOTP:
		return "otp"
	default:
		return "unknown"
	}
}

// LoginFlow drives the OTP login for one dialog. It is not the session:
// a successful verification hands the session to the owning Client and
// resets the flow for the next use. At most one request is in flight
// per flow at a time; a second call returns ErrBusy.
type LoginFlow struct {
	client *Client

	mu       sync.Mutex
	inFlight bool
	step     Step
	phone    string
	devOTP   string
}

// NewLoginFlow creates a login flow bound to this client.
func (c *Client) NewLoginFlow() *LoginFlow {
	return &LoginFlow{client: c}
}

// Step returns the current flow position.
func (f *LoginFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Phone returns the number a code was requested for.
func (f *LoginFlow) Phone() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phone
}

// DevOTP returns the code echoed by non-production backends, empty
// otherwise. Display it only in development builds.
func (f *LoginFlow) DevOTP() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devOTP
}

func (f *LoginFlow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrBusy
	}
	f.inFlight = true
	return nil
}

func (f *LoginFlow) end() {
	f.mu.Lock()
	f.inFlight = false
	f.mu.Unlock()
}

// RequestCode asks the backend to send a login code. Non-digits are
// stripped from the phone first; an empty result makes no network call.
// The flow moves to StepOTP only when the backend accepts the request.
func (f *LoginFlow) RequestCode(ctx context.Context, phone string) error {
	phone = utils.DigitsOnly(phone)
	if phone == "" {
		return ErrEmptyPhone
	}

	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	var resp struct {
		OTPSent bool   `json:"otp_sent"`
		DevOTP  string `json:"dev_otp"`
	}
	payload := map[string]string{"phone": phone}
	if err := f.client.do(ctx, http.MethodPost, "/api/customers/login", payload, "", &resp); err != nil {
		return err
	}

	f.mu.Lock()
	f.step = StepOTP
	f.phone = phone
	f.devOTP = resp.DevOTP
	f.mu.Unlock()
	return nil
}

// VerifyCode submits the code for the previously entered phone. On
// success the session token is persisted, the profile cached on the
// client, and the flow reset for the next login. On failure the flow
// stays at StepOTP so the user can retry or go back via Reset.
func (f *LoginFlow) VerifyCode(ctx context.Context, code string) error {
	code = utils.DigitsOnly(code)
	if code == "" {
		return ErrEmptyCode
	}

	f.mu.Lock()
	if f.step != StepOTP {
		f.mu.Unlock()
		return ErrWrongStep
	}
	phone := f.phone
	f.mu.Unlock()

	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	var resp struct {
		Token    string   `json:"token"`
		Customer Customer `json:"customer"`
	}
	payload := map[string]string{"phone": phone, "otp": code}
	if err := f.client.do(ctx, http.MethodPost, "/api/customers/login", payload, "", &resp); err != nil {
		return err
	}

	f.client.setSession(resp.Token, &resp.Customer)

	f.mu.Lock()
	f.step = StepPhone
	f.phone = ""
	f.devOTP = ""
	f.mu.Unlock()

	return f.client.store.Save(resp.Token)
}

// Reset returns the flow to StepPhone, the "change phone number" action.
func (f *LoginFlow) Reset() {
	f.mu.Lock()
	f.step = StepPhone
	f.phone = ""
	f.devOTP = ""
	f.mu.Unlock()
}
