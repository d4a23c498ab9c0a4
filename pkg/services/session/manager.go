package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/de-tools/license-atlas/pkg/models/domain"
	sessionstore "github.com/de-tools/license-atlas/pkg/store/session"
)

// Config carries the fixed lifecycle parameters every session is created
// with. TotalSteps and InitialStep come from the pipeline definition.
type Config struct {
	TTL         time.Duration
	TotalSteps  int
	InitialStep string
}

func DefaultConfig() Config {
	return Config{
		TTL:         time.Hour,
		TotalSteps:  4,
		InitialStep: "fetching_workspace_data",
	}
}

type CreateParams struct {
	GoogleDomain string
	IsDemo       bool
	DemoDataset  domain.DemoDataset
}

// Manager is the session state machine. All mutations go through it and are
// serialized per session with a keyed mutex, so a session is never observed
// in a torn state and racing writers cannot reorder the monotonic progress.
type Manager struct {
	store  sessionstore.Store
	config Config
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is reference-counted so the lock table only holds entries for
// sessions with an operation in flight instead of every session ever touched.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store sessionstore.Store, config Config) *Manager {
	return &Manager{
		store:  store,
		config: config,
		now:    time.Now,
		locks:  make(map[string]*sessionLock),
	}
}

func (m *Manager) lockSession(id string) func() {
	m.mu.Lock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sessionLock{}
		m.locks[id] = lock
	}
	lock.refs++
	m.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		m.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// Create allocates a new session in the processing state. A demo session
// must name its dataset and a live session must not.
func (m *Manager) Create(ctx context.Context, params CreateParams) (*domain.Session, error) {
	if params.IsDemo && params.DemoDataset == "" {
		return nil, &domain.ValidationError{Field: "demoDataset", Reason: "required when isDemo is true"}
	}
	if !params.IsDemo && params.DemoDataset != "" {
		return nil, &domain.ValidationError{Field: "demoDataset", Reason: "only allowed when isDemo is true"}
	}
	if params.IsDemo && !params.DemoDataset.Valid() {
		return nil, &domain.ValidationError{Field: "demoDataset", Reason: "unknown dataset"}
	}

	now := m.now()
	sess := &domain.Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.config.TTL),
		GoogleDomain: params.GoogleDomain,
		Status:       domain.SessionStatusProcessing,
		IsDemo:       params.IsDemo,
		DemoDataset:  params.DemoDataset,
		Progress: domain.Progress{
			CurrentStep:    m.config.InitialStep,
			TotalSteps:     m.config.TotalSteps,
			CompletedSteps: 0,
		},
	}

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Advance moves a processing session's progress forward. CompletedSteps must
// not decrease and must not exceed TotalSteps.
func (m *Manager) Advance(ctx context.Context, id, step string, completedSteps int, estimatedTimeRemaining *int) (*domain.Session, error) {
	unlock := m.lockSession(id)
	defer unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status.Terminal() {
		return nil, &domain.InvalidTransitionError{SessionID: id, Status: sess.Status, Op: "advance"}
	}
	if completedSteps < sess.Progress.CompletedSteps {
		return nil, &domain.ValidationError{Field: "completedSteps", Reason: "must not decrease"}
	}
	if completedSteps > sess.Progress.TotalSteps {
		return nil, &domain.ValidationError{Field: "completedSteps", Reason: "exceeds totalSteps"}
	}

	sess.Progress.CurrentStep = step
	sess.Progress.CompletedSteps = completedSteps
	sess.Progress.EstimatedTimeRemaining = estimatedTimeRemaining

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Complete transitions processing -> completed and records the report URL.
// Completing an already-terminal session is an invalid transition, even with
// the same URL.
func (m *Manager) Complete(ctx context.Context, id, reportURL string) (*domain.Session, error) {
	if reportURL == "" {
		return nil, &domain.ValidationError{Field: "reportUrl", Reason: "must not be empty"}
	}

	unlock := m.lockSession(id)
	defer unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status != domain.SessionStatusProcessing {
		return nil, &domain.InvalidTransitionError{SessionID: id, Status: sess.Status, Op: "complete"}
	}

	sess.Status = domain.SessionStatusCompleted
	sess.ReportURL = reportURL
	sess.Progress.CompletedSteps = sess.Progress.TotalSteps
	sess.Progress.EstimatedTimeRemaining = nil

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Fail transitions processing -> failed. A failed session always carries a
// non-empty error message and code. Failing again with the same code is a
// no-op; any other transition out of a terminal state is invalid.
func (m *Manager) Fail(ctx context.Context, id string, sessionErr domain.SessionError) (*domain.Session, error) {
	if sessionErr.Message == "" || sessionErr.Code == "" {
		return nil, &domain.ValidationError{Field: "error", Reason: "message and code are required"}
	}

	unlock := m.lockSession(id)
	defer unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status == domain.SessionStatusFailed {
		if sess.Error != nil && sess.Error.Code == sessionErr.Code {
			return sess, nil
		}
		return nil, &domain.InvalidTransitionError{SessionID: id, Status: sess.Status, Op: "fail"}
	}
	if sess.Status != domain.SessionStatusProcessing {
		return nil, &domain.InvalidTransitionError{SessionID: id, Status: sess.Status, Op: "fail"}
	}

	sess.Status = domain.SessionStatusFailed
	sess.Error = &sessionErr
	sess.Progress.EstimatedTimeRemaining = nil

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the current session. A session past its TTL reports expiry
// regardless of its stored status; expiry is checked at read time, never
// written back.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.now()) {
		return nil, &domain.ExpiredError{SessionID: id, ExpiredAt: sess.ExpiresAt}
	}
	return sess, nil
}
