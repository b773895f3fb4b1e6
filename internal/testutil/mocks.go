package testutil

import (
	"akd/internal/catalog"
	"akd/internal/models"
	"akd/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountByLevel returns how many entries were recorded at the given level.
func (m *MockLogger) CountByLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockStore implements kvstore.Store on a plain map, with injectable
// failures per method.
type MockStore struct {
	mu            sync.Mutex
	Data          map[string]string
	GetErr        error
	SetErr        error
	RemoveErr     error
	GetAllKeysErr error
	SetCalls      int
}

func NewMockStore() *MockStore {
	return &MockStore{Data: make(map[string]string)}
}

func (m *MockStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	val, ok := m.Data[key]
	return val, ok, nil
}

func (m *MockStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.SetCalls++
	m.Data[key] = value
	return nil
}

func (m *MockStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.Data, key)
	return nil
}

func (m *MockStore) GetAllKeys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllKeysErr != nil {
		return nil, m.GetAllKeysErr
	}
	keys := make([]string, 0, len(m.Data))
	for k := range m.Data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *MockStore) MultiRemove(keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	for _, k := range keys {
		delete(m.Data, k)
	}
	return nil
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// calls.
type MockMetrics struct {
	mu               sync.Mutex
	Unlocks          map[string]int
	Notifications    int
	QueueDepths      []int
	StreakValues     []int
	PersistenceCalls int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Unlocks: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceCalls++
}

func (m *MockMetrics) IncUnlocks(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unlocks[id]++
}

func (m *MockMetrics) IncNotificationsShown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications++
}

func (m *MockMetrics) SetNotificationQueueDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueueDepths = append(m.QueueDepths, depth)
}

func (m *MockMetrics) SetCurrentStreak(days int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StreakValues = append(m.StreakValues, days)
}

func (m *MockMetrics) SetStoreKeysTotal(_ int) {}

// MockCompressor implements interfaces.CompressorInterface with injectable
// behavior; the default is identity.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// MockNotifier implements services.NotifierServiceInterface and records
// every Show call.
type MockNotifier struct {
	mu        sync.Mutex
	Shown     []catalog.Definition
	Completes int
}

func (m *MockNotifier) Subscribe(_ func(catalog.Definition)) func() {
	return func() {}
}

func (m *MockNotifier) Show(def catalog.Definition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Shown = append(m.Shown, def)
}

func (m *MockNotifier) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completes++
}

func (m *MockNotifier) Active() (catalog.Definition, bool) {
	return catalog.Definition{}, false
}

func (m *MockNotifier) QueueDepth() int {
	return 0
}

// ShownIDs returns the ids of all notified definitions in order.
func (m *MockNotifier) ShownIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.Shown))
	for i, d := range m.Shown {
		ids[i] = d.ID
	}
	return ids
}

// MockRules implements services.RulesServiceInterface and records events,
// with an optional callback invoked on every Evaluate.
type MockRules struct {
	mu     sync.Mutex
	Events []models.Event
	OnEval func(models.Event)
}

func (m *MockRules) Evaluate(evt models.Event) {
	m.mu.Lock()
	m.Events = append(m.Events, evt)
	cb := m.OnEval
	m.mu.Unlock()
	if cb != nil {
		cb(evt)
	}
}
