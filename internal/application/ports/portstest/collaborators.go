package portstest

import (
	"context"
	"strings"
	"sync"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// Transactor runs fn directly and counts how each unit of work was opened.
type Transactor struct {
	mu     sync.Mutex
	Writes int
	Reads  int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Writes++
	t.mu.Unlock()
	return fn(ctx)
}

func (t *Transactor) WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Reads++
	t.mu.Unlock()
	return fn(ctx)
}

// Hasher prefixes passwords instead of hashing them.
type Hasher struct{}

func (Hasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (Hasher) Verify(password, hash string) bool { return hash == "hashed:"+password }

// Message is one email captured by Mailer.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer records every message it is asked to send.
type Mailer struct {
	mu   sync.Mutex
	Sent []Message
	Err  error
}

func (m *Mailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Last returns the most recent message, or the zero value.
func (m *Mailer) Last() Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return Message{}
	}
	return m.Sent[len(m.Sent)-1]
}

// Identity is an in-memory ports.IdentityProvider. Tokens are "token:"+email.
// Setting Err makes every call fail with an identity provider error.
type Identity struct {
	mu       sync.Mutex
	accounts map[string]ports.Account
	Revoked  []string
	Err      error
}

// NewIdentity returns an empty identity provider.
func NewIdentity() *Identity {
	return &Identity{accounts: map[string]ports.Account{}}
}

func key(email string) string { return strings.ToLower(email) }

func (p *Identity) fail(op string) error {
	if p.Err != nil {
		return domerrors.IdentityProvider(op, p.Err)
	}
	return nil
}

func (p *Identity) CreateAccount(_ context.Context, a ports.Account) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("create account"); err != nil {
		return err
	}
	if _, ok := p.accounts[key(a.Email)]; ok {
		return domerrors.ErrUserExists
	}
	p.accounts[key(a.Email)] = a
	return nil
}

func (p *Identity) AccountExists(_ context.Context, email string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("account exists"); err != nil {
		return false, err
	}
	_, ok := p.accounts[key(email)]
	return ok, nil
}

func (p *Identity) FindByEmail(_ context.Context, email string) (*ports.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("find account"); err != nil {
		return nil, err
	}
	a, ok := p.accounts[key(email)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (p *Identity) Authenticate(_ context.Context, email, password string) (*ports.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("authenticate"); err != nil {
		return nil, err
	}
	a, ok := p.accounts[key(email)]
	if !ok || a.PasswordHash != "hashed:"+password {
		return nil, domerrors.ErrInvalidCredentials
	}
	if !a.Enabled {
		return nil, domerrors.ErrAccountDisabled
	}
	return &ports.Session{AccessToken: "token:" + a.Email, ExpiresIn: 900}, nil
}

func (p *Identity) DeleteAccount(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("delete account"); err != nil {
		return err
	}
	delete(p.accounts, key(email))
	return nil
}

func (p *Identity) ChangePassword(_ context.Context, email, oldPassword, newHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("change password"); err != nil {
		return err
	}
	a, ok := p.accounts[key(email)]
	if !ok || a.PasswordHash != "hashed:"+oldPassword {
		return domerrors.ErrInvalidCredentials
	}
	a.PasswordHash = newHash
	p.accounts[key(email)] = a
	return nil
}

func (p *Identity) ResetPassword(_ context.Context, email, newHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("reset password"); err != nil {
		return err
	}
	a, ok := p.accounts[key(email)]
	if !ok {
		return domerrors.ErrUserNotFound
	}
	a.PasswordHash = newHash
	p.accounts[key(email)] = a
	return nil
}

func (p *Identity) RevokeSession(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("revoke session"); err != nil {
		return err
	}
	p.Revoked = append(p.Revoked, token)
	return nil
}

func (p *Identity) ActivateAccount(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail("activate account"); err != nil {
		return err
	}
	a, ok := p.accounts[key(email)]
	if !ok {
		return domerrors.ErrUserNotFound
	}
	a.Enabled = true
	p.accounts[key(email)] = a
	return nil
}

// Lockout locks an email after Max recorded failures.
type Lockout struct {
	mu       sync.Mutex
	Max      int
	failures map[string]int
}

func (l *Lockout) IsLocked(_ context.Context, email string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Max > 0 && l.failures[email] >= l.Max {
		return true, 60
	}
	return false, 0
}

func (l *Lockout) RecordFailure(_ context.Context, email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failures == nil {
		l.failures = map[string]int{}
	}
	l.failures[email]++
}

func (l *Lockout) RecordSuccess(_ context.Context, email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, email)
}

// Audit records emitted events.
type Audit struct {
	mu     sync.Mutex
	Events []ports.AuditEvent
}

func (a *Audit) Emit(_ context.Context, e ports.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Events = append(a.Events, e)
	return nil
}

// Names returns the emitted event names in order.
func (a *Audit) Names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.Events))
	for _, e := range a.Events {
		out = append(out, e.Event)
	}
	return out
}
