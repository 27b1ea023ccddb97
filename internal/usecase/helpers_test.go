package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	"github.com/wekeepgrowing/identity-server/internal/domain/service"
)

// fakeUserRepo is an in-memory UserRepository. It hands out copies so a
// use case mutating an entity does not change stored state until Update.
type fakeUserRepo struct {
	mu          sync.Mutex
	byID        map[string]*entity.User
	updateCalls int
	findErr     error
	createErr   error
	updateErr   error

	// afterFind, when set, runs after a lookup returns its copy. Lets a
	// test rendezvous two concurrent callers on the same stale read.
	afterFind func()
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*entity.User{}}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.Phone != nil {
		phone := *u.Phone
		c.Phone = &phone
	}
	if u.TFACode != nil {
		code := *u.TFACode
		c.TFACode = &code
	}
	if u.TFACodeExpiresAt != nil {
		exp := *u.TFACodeExpiresAt
		c.TFACodeExpiresAt = &exp
	}
	if u.RefreshSessionID != nil {
		sid := *u.RefreshSessionID
		c.RefreshSessionID = &sid
	}
	return &c
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	var found *entity.User
	normalized := entity.NormalizeUsername(username)
	if r.findErr == nil {
		for _, u := range r.byID {
			if u.Username == normalized {
				found = cloneUser(u)
				break
			}
		}
	}
	findErr := r.findErr
	r.mu.Unlock()

	if r.afterFind != nil {
		r.afterFind()
	}
	if findErr != nil {
		return nil, findErr
	}
	return found, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) IncrementFailedLogins(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	u, ok := r.byID[id]
	if !ok {
		return 0, fmt.Errorf("no user %s", id)
	}
	u.FailedLoginCount++
	u.UpdatedAt = time.Now()
	return u.FailedLoginCount, nil
}

func (r *fakeUserRepo) stored(id string) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return cloneUser(u)
	}
	return nil
}

func (r *fakeUserRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateCalls
}

// fakeAuditRepo collects audit entries.
type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, log)
	return nil
}

func (r *fakeAuditRepo) types() []entity.AuditLogType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.AuditLogType, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Type)
	}
	return out
}

// fakeTxnStore runs steps immediately against the backing repositories,
// mirroring the begin/step/commit contract without a real store.
type fakeTxnStore struct {
	mu       sync.Mutex
	commits  int
	aborts   int
	beginErr error
}

func (s *fakeTxnStore) Begin(ctx context.Context) (repository.Transaction, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &fakeTxn{store: s}, nil
}

func (s *fakeTxnStore) commitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

type fakeTxn struct {
	store *fakeTxnStore
}

func (t *fakeTxn) Step(ctx context.Context, op repository.Operation) error {
	return op(ctx)
}

func (t *fakeTxn) Commit(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.commits++
	return nil
}

func (t *fakeTxn) Abort(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.aborts++
	return nil
}

// notifierCall records one dispatched notification.
type notifierCall struct {
	kind  string
	user  *entity.User
	phone string
	code  string
	link  string
}

// fakeNotifier reports deliveries on a channel; dispatch runs on its own
// goroutine, so tests receive with a timeout.
type fakeNotifier struct {
	calls chan notifierCall
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan notifierCall, 8)}
}

func (n *fakeNotifier) SendAuthEmail(ctx context.Context, user *entity.User, code string) error {
	n.calls <- notifierCall{kind: "auth_email", user: user, code: code}
	return nil
}

func (n *fakeNotifier) SendAuthTextMsg(ctx context.Context, user *entity.User, phone, code string) error {
	n.calls <- notifierCall{kind: "auth_text", user: user, phone: phone, code: code}
	return nil
}

func (n *fakeNotifier) SendVerificationEmail(ctx context.Context, user *entity.User, link string) error {
	n.calls <- notifierCall{kind: "verification_email", user: user, link: link}
	return nil
}

func (n *fakeNotifier) SendTfaTextMsg(ctx context.Context, user *entity.User, phone, code string) error {
	n.calls <- notifierCall{kind: "tfa_text", user: user, phone: phone, code: code}
	return nil
}

func (n *fakeNotifier) waitForCall(t *testing.T) notifierCall {
	t.Helper()
	select {
	case call := <-n.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification dispatch")
		return notifierCall{}
	}
}

func (n *fakeNotifier) assertNoCall(t *testing.T) {
	t.Helper()
	select {
	case call := <-n.calls:
		t.Fatalf("unexpected notification dispatch: %s", call.kind)
	case <-time.After(100 * time.Millisecond):
	}
}

// testCredentials uses the minimum bcrypt cost to keep the suite fast.
func testCredentials() *service.CredentialService {
	return service.NewCredentialService(bcrypt.MinCost, "test-secret-key")
}

// countingCredentials wraps the real credential service and counts password
// verifications, so tests can assert the hash never ran.
type countingCredentials struct {
	*service.CredentialService
	verifyCalls int32
}

func newCountingCredentials() *countingCredentials {
	return &countingCredentials{CredentialService: testCredentials()}
}

func (c *countingCredentials) VerifyPassword(digest, password string) bool {
	atomic.AddInt32(&c.verifyCalls, 1)
	return c.CredentialService.VerifyPassword(digest, password)
}

func (c *countingCredentials) verifyCount() int {
	return int(atomic.LoadInt32(&c.verifyCalls))
}

func testTokens() *service.TokenService {
	return service.NewTokenService("test-signing-secret", "identity-server-test")
}
