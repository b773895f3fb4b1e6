package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"akd/internal/catalog"
	"akd/internal/models"
	"akd/internal/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockAchievements struct {
	ledger       models.Ledger
	seenCalls    [][]string
	pending      []catalog.Definition
	forceCalls   []string
	forceResult  bool
	resetCalls   int
	unlockCalls  []string
	unlockResult bool
}

func (m *mockAchievements) IsUnlocked(id string) bool {
	return m.ledger[id].Unlocked
}
func (m *mockAchievements) GetAll() models.Ledger {
	if m.ledger == nil {
		return models.Ledger{}
	}
	return m.ledger
}
func (m *mockAchievements) Unlock(id string) bool {
	m.unlockCalls = append(m.unlockCalls, id)
	return m.unlockResult
}
func (m *mockAchievements) MarkSeen(ids []string) { m.seenCalls = append(m.seenCalls, ids) }
func (m *mockAchievements) PendingUnlocks() []catalog.Definition {
	p := m.pending
	m.pending = nil
	return p
}
func (m *mockAchievements) ForceUnlock(id string) bool {
	m.forceCalls = append(m.forceCalls, id)
	return m.forceResult
}
func (m *mockAchievements) ResetAll() { m.resetCalls++ }

type mockNotifier struct {
	completes int
	shown     []catalog.Definition
}

func (m *mockNotifier) Subscribe(_ func(catalog.Definition)) func() { return func() {} }
func (m *mockNotifier) Show(def catalog.Definition)                 { m.shown = append(m.shown, def) }
func (m *mockNotifier) Complete()                                   { m.completes++ }
func (m *mockNotifier) Active() (catalog.Definition, bool)          { return catalog.Definition{}, false }
func (m *mockNotifier) QueueDepth() int                             { return len(m.shown) }

type mockStreak struct {
	current      int
	highest      int
	loginCalls   []models.Tier
	recheckCalls []models.Tier
	setCalls     []int
}

func (m *mockStreak) RecordLogin(tier models.Tier) {
	m.loginCalls = append(m.loginCalls, tier)
	m.current++
	if m.current > m.highest {
		m.highest = m.current
	}
}
func (m *mockStreak) CurrentStreak() int { return m.current }
func (m *mockStreak) HighestStreak() int { return m.highest }
func (m *mockStreak) RecheckTierGated(tier models.Tier) {
	m.recheckCalls = append(m.recheckCalls, tier)
}
func (m *mockStreak) SetTestStreak(days int, _ models.Tier) {
	m.setCalls = append(m.setCalls, days)
	m.current = days
}

type mockTracker struct {
	actions []models.ActionType
	data    []models.TrackData
}

func (m *mockTracker) Track(action models.ActionType, data models.TrackData) {
	m.actions = append(m.actions, action)
	m.data = append(m.data, data)
}
func (m *mockTracker) RegisterRefreshHook(_ func()) {}

type mockRules struct {
	events []models.Event
}

func (m *mockRules) Evaluate(evt models.Event) { m.events = append(m.events, evt) }

type mockCache struct {
	data map[string][]byte
	dels []string
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }
func (m *mockCache) Del(key string) {
	m.dels = append(m.dels, key)
	delete(m.data, key)
}

// --- helpers ---

type controllerFixture struct {
	achievements *mockAchievements
	notifier     *mockNotifier
	streak       *mockStreak
	tracker      *mockTracker
	rules        *mockRules
	cache        *mockCache
	ac           *ApiController
}

func newFixture() *controllerFixture {
	f := &controllerFixture{
		achievements: &mockAchievements{},
		notifier:     &mockNotifier{},
		streak:       &mockStreak{},
		tracker:      &mockTracker{},
		rules:        &mockRules{},
		cache:        newMockCache(),
	}
	f.ac = NewApiController(&mockLogger{}, f.achievements, f.notifier, f.streak, f.tracker, f.rules, f.cache)
	return f
}

func postJSON(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// --- Track tests ---

func TestTrack_ValidPayload(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.Track, `{"action":"goal_created","data":{"goals":[{"id":"g1","title":"Run","icon":"💪"}],"pro":true}}`)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, f.tracker.actions, 1)
	assert.Equal(t, models.ActionGoalCreated, f.tracker.actions[0])
	require.Len(t, f.tracker.data[0].Goals, 1)
	assert.Equal(t, "g1", f.tracker.data[0].Goals[0].ID)
	assert.True(t, f.tracker.data[0].Pro)
}

func TestTrack_InvalidJSON(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.Track, `{"action":`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, f.tracker.actions)
}

func TestTrack_MissingAction(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.Track, `{"data":{}}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, f.tracker.actions)
}

func TestTrack_EmptyBody(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.Track, ``)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- Check tests ---

func TestCheck_ForwardsEventToRules(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.Check, `{"type":"goal_completed","goals":[{"id":"g1","completed":true}],"pro":true}`)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, f.rules.events, 1)
	assert.Equal(t, models.EventGoalCompleted, f.rules.events[0].Type)
	assert.True(t, f.rules.events[0].Pro)
}

func TestCheck_MissingType(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.Check, `{"pro":true}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, f.rules.events)
}

// --- Login / streak tests ---

func TestLogin_RecordsAndReportsCounters(t *testing.T) {
	f := newFixture()
	f.streak.current = 4
	f.streak.highest = 9

	rr := postJSON(f.ac.Login, `{"tier":"pro"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, f.streak.loginCalls, 1)
	assert.Equal(t, models.TierPro, f.streak.loginCalls[0])

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp["current"])
	assert.Equal(t, 9, resp["highest"])
}

func TestTierChanged_TriggersRecheck(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.TierChanged, `{"tier":"premium"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, f.streak.recheckCalls, 1)
	assert.Equal(t, models.TierPremium, f.streak.recheckCalls[0])
}

func TestGetStreak_ReportsCounters(t *testing.T) {
	f := newFixture()
	f.streak.current = 12
	f.streak.highest = 40

	req := httptest.NewRequest(http.MethodGet, "/streak", nil)
	rr := httptest.NewRecorder()
	f.ac.GetStreak(rr, req)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp["current"])
	assert.Equal(t, 40, resp["highest"])
}

// --- GetAchievements tests ---

func TestGetAchievements_JoinsCatalogWithLedger(t *testing.T) {
	f := newFixture()
	f.achievements.ledger = models.Ledger{
		catalog.FirstGoal: {Unlocked: true, Date: "2026-08-30T10:00:00Z", Seen: false},
	}

	req := httptest.NewRequest(http.MethodGet, "/achievements", nil)
	rr := httptest.NewRecorder()
	f.ac.GetAchievements(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Achievements []struct {
			ID       string `json:"id"`
			Unlocked bool   `json:"unlocked"`
			Date     string `json:"date"`
		} `json:"achievements"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Achievements, catalog.Len())

	found := false
	for _, a := range resp.Achievements {
		if a.ID == catalog.FirstGoal {
			found = true
			assert.True(t, a.Unlocked)
			assert.Equal(t, "2026-08-30T10:00:00Z", a.Date)
		} else {
			assert.False(t, a.Unlocked)
		}
	}
	assert.True(t, found)
}

func TestGetAchievements_ServedFromCache(t *testing.T) {
	f := newFixture()
	f.cache.Set("achievements", []byte(`{"achievements":[]}`))

	req := httptest.NewRequest(http.MethodGet, "/achievements", nil)
	rr := httptest.NewRecorder()
	f.ac.GetAchievements(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"achievements":[]}`, rr.Body.String())
}

func TestGetAchievements_PopulatesCache(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodGet, "/achievements", nil)
	rr := httptest.NewRecorder()
	f.ac.GetAchievements(rr, req)

	_, ok := f.cache.Get("achievements")
	assert.True(t, ok)
}

func TestTrack_InvalidatesAchievementsCache(t *testing.T) {
	f := newFixture()
	f.cache.Set("achievements", []byte(`{"achievements":[]}`))

	rr := postJSON(f.ac.Track, `{"action":"goal_created","data":{}}`)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	_, ok := f.cache.Get("achievements")
	assert.False(t, ok, "cached achievements must be dropped on track")
}

func TestMarkSeen_InvalidatesAchievementsCache(t *testing.T) {
	f := newFixture()
	f.cache.Set("achievements", []byte(`{"achievements":[]}`))

	rr := postJSON(f.ac.MarkSeen, `{"ids":["goal-pioneer"]}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	_, ok := f.cache.Get("achievements")
	assert.False(t, ok, "cached achievements must be dropped on seen update")
}

func TestLogin_InvalidatesAchievementsCache(t *testing.T) {
	f := newFixture()
	f.cache.Set("achievements", []byte(`{"achievements":[]}`))

	postJSON(f.ac.Login, `{"tier":"free"}`)

	assert.Contains(t, f.cache.dels, "achievements")
}

// --- MarkSeen tests ---

func TestMarkSeen_ForwardsIds(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.MarkSeen, `{"ids":["goal-pioneer","task-tamer"]}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, f.achievements.seenCalls, 1)
	assert.Equal(t, []string{"goal-pioneer", "task-tamer"}, f.achievements.seenCalls[0])
}

// --- notification tests ---

func TestPendingNotifications_DrainsQueue(t *testing.T) {
	f := newFixture()
	def, _ := catalog.Get(catalog.FirstGoal)
	f.achievements.pending = []catalog.Definition{def}

	req := httptest.NewRequest(http.MethodGet, "/notifications/pending", nil)
	rr := httptest.NewRecorder()
	f.ac.PendingNotifications(rr, req)

	var resp struct {
		Pending []struct {
			ID string `json:"id"`
		} `json:"pending"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Pending, 1)
	assert.Equal(t, catalog.FirstGoal, resp.Pending[0].ID)

	// second call returns an empty array, not null
	rr = httptest.NewRecorder()
	f.ac.PendingNotifications(rr, req)
	assert.JSONEq(t, `{"pending":[]}`, rr.Body.String())
}

func TestCompleteNotification_ReleasesSlot(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.CompleteNotification, `{}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, f.notifier.completes)
}

// --- debug handler tests ---

func TestDebugUnlock_ForwardsId(t *testing.T) {
	f := newFixture()
	f.achievements.forceResult = true

	rr := postJSON(f.ac.DebugUnlock, `{"id":"goal-pioneer"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, f.achievements.forceCalls, 1)
	assert.Equal(t, "goal-pioneer", f.achievements.forceCalls[0])
	assert.JSONEq(t, `{"unlocked":true}`, rr.Body.String())
}

func TestDebugReset_CallsResetAll(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.DebugReset, `{}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, f.achievements.resetCalls)
}

func TestDebugStreak_OverridesCounter(t *testing.T) {
	f := newFixture()

	rr := postJSON(f.ac.DebugStreak, `{"days":90,"tier":"free"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, f.streak.setCalls, 1)
	assert.Equal(t, 90, f.streak.setCalls[0])
	assert.JSONEq(t, `{"current":90}`, rr.Body.String())
}
