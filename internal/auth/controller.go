package auth

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fashionpulse/assistant/internal/reliability"
	"github.com/fashionpulse/assistant/internal/storage"
)

// Mode selects which form the controller is presenting.
type Mode string

const (
	ModeLogin Mode = "login"
	ModeReset Mode = "reset"
)

// ErrBusy rejects a submission while another one is still in flight.
var ErrBusy = errors.New("a submission is already in progress")

// Navigator is invoked with the target route after a successful login.
type Navigator func(route string)

// State is a point-in-time snapshot of the form.
type State struct {
	Mode       Mode
	Error      string
	Notice     string
	ShowForgot bool
	ResetToken string
	Busy       bool
}

// Controller drives the sign-in form: it validates locally before any
// network call, serializes submissions, persists the profile on success
// and hands navigation to the injected Navigator.
type Controller struct {
	svc      Service
	store    storage.Store
	navigate Navigator

	mu    sync.Mutex
	state State
}

func NewController(svc Service, store storage.Store, navigate Navigator) *Controller {
	if navigate == nil {
		navigate = func(string) {}
	}
	c := &Controller{
		svc:      svc,
		store:    store,
		navigate: navigate,
	}
	c.state.Mode = ModeLogin
	return c
}

// Snapshot returns the current form state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// begin claims the busy flag and clears stale feedback. Callers must pair
// it with finish.
func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Busy {
		return ErrBusy
	}
	c.state.Busy = true
	c.state.Error = ""
	c.state.Notice = ""
	return nil
}

func (c *Controller) finish(mutate func(s *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Busy = false
	if mutate != nil {
		mutate(&c.state)
	}
}

// Login validates the credentials locally, then submits them. Validation
// failures never reach the network. On success the profile is persisted
// and the navigator is invoked with the home route.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if err := c.begin(); err != nil {
		return err
	}

	if email == "" || password == "" {
		c.finish(func(s *State) { s.Error = "Please fill in all fields" })
		return reliability.ErrValidation
	}
	if !validEmail(email) {
		c.finish(func(s *State) { s.Error = "Please enter a valid email" })
		return reliability.ErrValidation
	}

	user, err := c.svc.Login(ctx, email, password)
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) {
			c.finish(func(s *State) {
				s.Error = rej.Message
				if rej.ShowForgot {
					s.ShowForgot = true
				}
			})
			return err
		}
		c.finish(func(s *State) {
			s.Error = "Connection error. Please check if the authentication server is running on port 5002."
		})
		return err
	}

	if c.store != nil {
		profile := storage.Profile{
			UserID:    user.Email,
			Email:     user.Email,
			Name:      user.Name,
			LoggedIn:  true,
			UpdatedAt: time.Now(),
		}
		if err := c.store.SaveProfile(ctx, profile); err != nil {
			log.Printf("auth: persist profile: %v", err)
		}
	}

	c.finish(func(s *State) { s.ShowForgot = false })
	c.navigate("/home")
	return nil
}

// ForgotPassword requests a reset token for the email. On success the form
// switches to reset mode with the token prefilled.
func (c *Controller) ForgotPassword(ctx context.Context, email string) error {
	if err := c.begin(); err != nil {
		return err
	}

	if email == "" {
		c.finish(func(s *State) { s.Error = "Please enter your email first" })
		return reliability.ErrValidation
	}

	token, err := c.svc.ForgotPassword(ctx, email)
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) {
			c.finish(func(s *State) { s.Error = rej.Message })
			return err
		}
		c.finish(func(s *State) { s.Error = "Connection error. Please try again." })
		return err
	}

	c.finish(func(s *State) {
		s.Mode = ModeReset
		s.ResetToken = token
		s.ShowForgot = false
	})
	return nil
}

// ResetPassword submits the token and new password. On success the form
// returns to login mode.
func (c *Controller) ResetPassword(ctx context.Context, token, password string) error {
	if err := c.begin(); err != nil {
		return err
	}

	if token == "" || password == "" {
		c.finish(func(s *State) { s.Error = "Please enter both token and new password" })
		return reliability.ErrValidation
	}

	err := c.svc.ResetPassword(ctx, token, password)
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) {
			c.finish(func(s *State) { s.Error = rej.Message })
			return err
		}
		c.finish(func(s *State) { s.Error = "Connection error. Please try again." })
		return err
	}

	c.finish(func(s *State) {
		s.Mode = ModeLogin
		s.ResetToken = ""
		s.Notice = "Password reset successful! You can now login with your new password."
	})
	return nil
}

// EnterReset and ExitReset toggle the reset form manually.
func (c *Controller) EnterReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mode = ModeReset
	c.state.Error = ""
}

func (c *Controller) ExitReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mode = ModeLogin
	c.state.ResetToken = ""
	c.state.Error = ""
}

func validEmail(email string) bool {
	for _, r := range email {
		if r == '@' {
			return true
		}
	}
	return false
}
