package verification_test

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
)

// fakeVerifier is a scriptable backend.EmailVerifier.
type fakeVerifier struct {
	mu sync.Mutex

	duplicates map[string]bool
	checkErr   error
	sendErr    error
	validCode  string

	// gate, when set, blocks each call until a value is received.
	gate chan struct{}

	checks, sends, verifies int
}

var _ backend.EmailVerifier = (*fakeVerifier)(nil)

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{duplicates: map[string]bool{}, validCode: "123456"}
}

func (f *fakeVerifier) wait() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeVerifier) CheckEmailDuplicate(_ context.Context, email string) (*domain.EmailCheck, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	if f.duplicates[email] {
		return &domain.EmailCheck{Email: email, IsDuplicate: true, Message: "already in use by another tenant"}, nil
	}
	return &domain.EmailCheck{Email: email, Available: true}, nil
}

func (f *fakeVerifier) SendEmailVerificationCode(_ context.Context, _ string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends++
	return f.sendErr
}

func (f *fakeVerifier) VerifyEmailCode(_ context.Context, _ string, code string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifies++
	if code != f.validCode {
		return &backend.Error{Status: 400, Message: "code mismatch"}
	}
	return nil
}

func (f *fakeVerifier) counts() (checks, sends, verifies int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks, f.sends, f.verifies
}
