package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/gateway"
	"github.com/spec-kit/admin-console/internal/session"
)

// fakeGateway implements gateway.API with per-method hooks.
type fakeGateway struct {
	loginFunc       func(ctx context.Context, username, password string) (*gateway.LoginResult, error)
	dashboardFunc   func(ctx context.Context, token string) ([]domain.DashboardEntry, error)
	adminDataFunc   func(ctx context.Context, token string) (*gateway.AdminData, error)
	actionLogFunc   func(ctx context.Context, token string) ([]domain.ActionLogEntry, error)
	addUserFunc     func(ctx context.Context, token, username, password string, role domain.Role) error
	archiveUserFunc func(ctx context.Context, token, id string) error
	impersonateFunc func(ctx context.Context, token, targetID string) (*gateway.LoginResult, error)
}

var errFakeNotWired = errors.New("fake gateway method not wired")

func (f *fakeGateway) Login(ctx context.Context, username, password string) (*gateway.LoginResult, error) {
	if f.loginFunc == nil {
		return nil, errFakeNotWired
	}
	return f.loginFunc(ctx, username, password)
}

func (f *fakeGateway) GetDashboardData(ctx context.Context, token string) ([]domain.DashboardEntry, error) {
	if f.dashboardFunc == nil {
		return nil, errFakeNotWired
	}
	return f.dashboardFunc(ctx, token)
}

func (f *fakeGateway) GetAdminData(ctx context.Context, token string) (*gateway.AdminData, error) {
	if f.adminDataFunc == nil {
		return nil, errFakeNotWired
	}
	return f.adminDataFunc(ctx, token)
}

func (f *fakeGateway) GetActionLog(ctx context.Context, token string) ([]domain.ActionLogEntry, error) {
	if f.actionLogFunc == nil {
		return nil, errFakeNotWired
	}
	return f.actionLogFunc(ctx, token)
}

func (f *fakeGateway) AddUser(ctx context.Context, token, username, password string, role domain.Role) error {
	if f.addUserFunc == nil {
		return errFakeNotWired
	}
	return f.addUserFunc(ctx, token, username, password, role)
}

func (f *fakeGateway) ArchiveUser(ctx context.Context, token, id string) error {
	if f.archiveUserFunc == nil {
		return errFakeNotWired
	}
	return f.archiveUserFunc(ctx, token, id)
}

func (f *fakeGateway) ImpersonateUser(ctx context.Context, token, targetID string) (*gateway.LoginResult, error) {
	if f.impersonateFunc == nil {
		return nil, errFakeNotWired
	}
	return f.impersonateFunc(ctx, token, targetID)
}

// fakeSessionRepo keeps slots in memory and counts deletions so forced-logout
// tests can assert exactly-once behavior.
type fakeSessionRepo struct {
	mu        sync.Mutex
	slots     map[string]map[string]string
	saveCalls int
	deletions int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{slots: make(map[string]map[string]string)}
}

func (f *fakeSessionRepo) Save(_ context.Context, sessionID string, slots map[string]string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := make(map[string]string, len(slots))
	for k, v := range slots {
		copied[k] = v
	}
	f.slots[sessionID] = copied
	f.saveCalls++
	return nil
}

func (f *fakeSessionRepo) Load(_ context.Context, sessionID string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.slots[sessionID]
	if !ok {
		return map[string]string{}, nil
	}
	copied := make(map[string]string, len(stored))
	for k, v := range stored {
		copied[k] = v
	}
	return copied, nil
}

func (f *fakeSessionRepo) Clear(_ context.Context, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, existed := f.slots[sessionID]
	if existed {
		delete(f.slots, sessionID)
		f.deletions++
	}
	return existed, nil
}

func (f *fakeSessionRepo) clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deletions
}

// eventRecorder captures published events per type.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) subscribe(dispatcher events.Dispatcher, types ...events.EventType) {
	for _, t := range types {
		dispatcher.Subscribe(t, func(_ context.Context, event events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, event)
			return nil
		})
	}
}

func (r *eventRecorder) count(eventType events.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func authenticatedSession(id string, role domain.Role, token string) *session.Session {
	sess := session.New(id)
	_ = sess.Login(domain.UserDescriptor{ID: "u-" + id, Username: "op-" + id, Role: role}, token)
	return sess
}
