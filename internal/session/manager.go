package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"isktrack/internal/log"
	"isktrack/internal/model"
	"isktrack/internal/valuation"
)

// Settings key for the durable active-session slot
const activeSessionKey = "active_session"

var (
	// ErrAlreadyActive blocks a second Start while a mission is running
	ErrAlreadyActive = errors.New("a mission session is already active")

	// ErrNoActiveSession blocks Complete/Abandon with nothing running
	ErrNoActiveSession = errors.New("no active mission session")
)

// State is the manager's position in the Idle -> Running -> Completing -> Idle cycle
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleting
)

// Store is the slice of the persistent store the session manager needs:
// the settings slot that survives a restart, and the mission archive.
type Store interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
	AddMission(m model.MissionSession) error
}

// StartData carries the user's inputs when opening a session
type StartData struct {
	MissionName  string
	MissionLevel int
	Notes        string
}

// Completion carries the caller-supplied finalization inputs: selected
// transaction totals, staged loot value, and expense fields.
type Completion struct {
	Bounties      decimal.Decimal
	MissionReward decimal.Decimal
	TimeBonus     decimal.Decimal
	LootValue     decimal.Decimal

	Ammo    decimal.Decimal
	Repairs decimal.Decimal
	Other   decimal.Decimal

	Notes string
}

// Manager owns the single active mission session and its timer. At most one
// session is open at a time; transitions are UI-agnostic, the only UI-facing
// side effect is the optional tick callback.
type Manager struct {
	mu       sync.Mutex
	store    Store
	state    State
	active   *model.MissionSession
	onTick   func(elapsed time.Duration)
	stopTick chan struct{}

	now func() time.Time
}

// NewManager creates an idle session manager over the given store
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		now:   time.Now,
	}
}

// OnTick registers the observational 1-second timer callback. The callback
// receives elapsed wall-clock time recomputed from the start timestamp, so
// missed ticks lose nothing.
func (m *Manager) OnTick(fn func(elapsed time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTick = fn
}

// State returns the current machine state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start opens a new mission session. Valid only from Idle; a running session
// (in memory or recovered from the durable slot) makes it fail with
// ErrAlreadyActive.
func (m *Manager) Start(data StartData) (model.MissionSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil || m.recoverLocked() != nil {
		return model.MissionSession{}, ErrAlreadyActive
	}

	session := model.MissionSession{
		ID:           uuid.NewString(),
		MissionName:  data.MissionName,
		MissionLevel: data.MissionLevel,
		StartTime:    m.now(),
		Notes:        data.Notes,
	}

	if err := m.persistActiveLocked(session); err != nil {
		// The slot only matters for restart recovery; keep going in memory
		log.Warn("Could not persist active session slot", "error", err)
	}

	m.active = &session
	m.state = StateRunning
	m.startTickerLocked()

	log.Info("Mission session started", "id", session.ID, "mission", session.MissionName)
	return session, nil
}

// Complete finalizes the active session: stops the timer, folds in the
// caller's income and expense figures, computes the derived metrics, hands
// the record to the store, and returns to Idle. On a persistence failure the
// session stays active so nothing is lost and the caller can retry.
func (m *Manager) Complete(c Completion) (model.MissionSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil && m.recoverLocked() == nil {
		return model.MissionSession{}, ErrNoActiveSession
	}
	m.state = StateCompleting

	session := *m.active
	end := m.now()
	session.EndTime = end

	elapsed := end.Sub(session.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	// A completed mission always counts at least one minute
	minutes := int(elapsed.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	session.TotalTimeMinutes = minutes

	session.Income = model.MissionIncome{
		Bounties:      c.Bounties,
		MissionReward: c.MissionReward,
		TimeBonus:     c.TimeBonus,
		LootValue:     c.LootValue,
	}
	session.Expenses = model.MissionExpenses{
		Ammo:    c.Ammo,
		Repairs: c.Repairs,
		Other:   c.Other,
	}
	if c.Notes != "" {
		if session.Notes != "" {
			session.Notes += "\n" + c.Notes
		} else {
			session.Notes = c.Notes
		}
	}
	session.IskPerHour = valuation.IskPerHour(session.Profit(), minutes)

	if err := m.store.AddMission(session); err != nil {
		return model.MissionSession{}, fmt.Errorf("saving completed mission: %w", err)
	}

	m.stopTickerLocked()
	if err := m.store.DeleteSetting(activeSessionKey); err != nil {
		log.Warn("Could not clear active session slot", "error", err)
	}
	m.active = nil
	m.state = StateIdle

	log.Info("Mission session completed", "id", session.ID,
		"minutes", session.TotalTimeMinutes, "isk_per_hour", session.IskPerHour.String())
	return session, nil
}

// Abandon discards the active session without persisting a mission record
func (m *Manager) Abandon() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil && m.recoverLocked() == nil {
		return ErrNoActiveSession
	}

	m.stopTickerLocked()
	if err := m.store.DeleteSetting(activeSessionKey); err != nil {
		log.Warn("Could not clear active session slot", "error", err)
	}
	log.Info("Mission session abandoned", "id", m.active.ID)
	m.active = nil
	m.state = StateIdle
	return nil
}

// GetActiveSession returns the open session if any, checking memory first
// and then the durable slot so a restart resumes where it left off.
func (m *Manager) GetActiveSession() (model.MissionSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return *m.active, true
	}
	if recovered := m.recoverLocked(); recovered != nil {
		return *recovered, true
	}
	return model.MissionSession{}, false
}

// Elapsed returns wall-clock time since start, clamped to zero against
// clock skew. Zero when no session is active.
func (m *Manager) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsedLocked()
}

func (m *Manager) elapsedLocked() time.Duration {
	if m.active == nil {
		return 0
	}
	elapsed := m.now().Sub(m.active.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// recoverLocked loads the durable slot into memory. A corrupt record is
// discarded and treated as no active session.
func (m *Manager) recoverLocked() *model.MissionSession {
	raw, err := m.store.GetSetting(activeSessionKey)
	if err != nil || raw == "" {
		return nil
	}

	var session model.MissionSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil || session.ID == "" {
		log.Warn("Discarding corrupt active session slot", "error", err)
		if err := m.store.DeleteSetting(activeSessionKey); err != nil {
			log.Warn("Could not clear corrupt session slot", "error", err)
		}
		return nil
	}

	m.active = &session
	m.state = StateRunning
	m.startTickerLocked()
	log.Info("Recovered active mission session", "id", session.ID, "started", session.StartTime)
	return m.active
}

func (m *Manager) persistActiveLocked(session model.MissionSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return m.store.SetSetting(activeSessionKey, string(raw))
}

// startTickerLocked runs the observational timer. Elapsed time is always
// recomputed from the start timestamp; the ticker itself is not a clock.
func (m *Manager) startTickerLocked() {
	if m.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	m.stopTick = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.mu.Lock()
				fn := m.onTick
				elapsed := m.elapsedLocked()
				m.mu.Unlock()
				if fn != nil {
					fn(elapsed)
				}
			}
		}
	}()
}

func (m *Manager) stopTickerLocked() {
	if m.stopTick != nil {
		close(m.stopTick)
		m.stopTick = nil
	}
}
