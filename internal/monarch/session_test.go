package monarch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func testCreds() Credentials {
	return Credentials{Email: "a@b.c", Password: "pw"}
}

func TestSessionEnsureMissingCredentials(t *testing.T) {
	calls := 0
	s := &Session{login: func(ctx context.Context, email, password, mfaSecret string) error {
		calls++
		return nil
	}}

	err := s.Ensure(context.Background())
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
	// Configuration errors never reach the network.
	if calls != 0 {
		t.Errorf("login attempted %d times", calls)
	}
}

func TestSessionEnsureLoginOnce(t *testing.T) {
	calls := 0
	s := &Session{creds: testCreds(), login: func(ctx context.Context, email, password, mfaSecret string) error {
		calls++
		return nil
	}}

	for i := 0; i < 3; i++ {
		if err := s.Ensure(context.Background()); err != nil {
			t.Fatalf("Ensure #%d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("login called %d times, want 1", calls)
	}
	if !s.Authenticated() {
		t.Errorf("session not marked authenticated")
	}
}

func TestSessionEnsureConcurrentSingleLogin(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	s := &Session{creds: testCreds(), login: func(ctx context.Context, email, password, mfaSecret string) error {
		calls.Add(1)
		<-release
		return nil
	}}

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Ensure(context.Background())
		}(i)
	}
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("login called %d times, want 1", n)
	}
	for i, err := range errs {
		if err != nil {
			t.Errorf("worker %d: %v", i, err)
		}
	}
}

func TestSessionEnsureRetriesAfterFailure(t *testing.T) {
	calls := 0
	s := &Session{creds: testCreds(), login: func(ctx context.Context, email, password, mfaSecret string) error {
		calls++
		if calls == 1 {
			return errors.New("403 Forbidden")
		}
		return nil
	}}

	err := s.Ensure(context.Background())
	if err == nil {
		t.Fatal("first Ensure succeeded")
	}
	var loginErr *LoginError
	if !errors.As(err, &loginErr) {
		t.Fatalf("err = %T, want *LoginError", err)
	}
	if s.Authenticated() {
		t.Errorf("failed login left session authenticated")
	}

	// A later call retries and succeeds.
	if err := s.Ensure(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("login called %d times, want 2", calls)
	}
}
