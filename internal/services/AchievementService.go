package services

import (
	"akd/internal/catalog"
	"akd/internal/kvstore"
	"akd/internal/models"
	"akd/internal/providers"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// Store keys owned by the achievement core. The UI never writes these.
const (
	ledgerKey     = "achievements:ledger"
	trackerPrefix = "tracker:"
	streakPrefix  = "streak:"
)

type AchievementServiceInterface interface {
	IsUnlocked(id string) bool
	GetAll() models.Ledger
	Unlock(id string) bool
	MarkSeen(ids []string)
	PendingUnlocks() []catalog.Definition
	ForceUnlock(id string) bool
	ResetAll()
}

// AchievementService is the unlock ledger. Unlock is the single idempotent
// entry point every trigger path funnels through: whatever races into it, an
// achievement is unlocked at most once and notified at most once.
type AchievementService struct {
	mu       sync.Mutex
	store    kvstore.Store
	notifier NotifierServiceInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	cache    models.Ledger
	cached   bool
	pending  []catalog.Definition
}

func NewAchievementService(store kvstore.Store, notifier NotifierServiceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) AchievementServiceInterface {
	return &AchievementService{
		store:    store,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// readLedger fetches the ledger from the durable store. Missing key or
// garbled JSON both mean "nothing unlocked yet". Must be called with the
// lock held.
func (as *AchievementService) readLedger() (models.Ledger, error) {
	raw, ok, err := as.store.Get(ledgerKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return models.Ledger{}, nil
	}

	var ledger models.Ledger
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		as.logger.Warnf(providers.TypeApp, "Unlock ledger unreadable, treating as empty: %s", err)
		return models.Ledger{}, nil
	}
	return ledger, nil
}

// writeLedger persists the mapping and refreshes the in-memory cache.
// Must be called with the lock held.
func (as *AchievementService) writeLedger(ledger models.Ledger) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return err
	}
	if err := as.store.Set(ledgerKey, string(raw)); err != nil {
		return err
	}
	as.cache = ledger
	as.cached = true
	return nil
}

func (as *AchievementService) IsUnlocked(id string) bool {
	as.mu.Lock()
	defer as.mu.Unlock()

	if !as.cached {
		ledger, err := as.readLedger()
		if err != nil {
			as.logger.Errorf(providers.TypeApp, "Cannot read unlock ledger: %s", err)
			return false
		}
		as.cache = ledger
		as.cached = true
	}
	return as.cache[id].Unlocked
}

func (as *AchievementService) GetAll() models.Ledger {
	as.mu.Lock()
	defer as.mu.Unlock()

	ledger, err := as.readLedger()
	if err != nil {
		as.logger.Errorf(providers.TypeApp, "Cannot read unlock ledger: %s", err)
		if as.cached {
			return as.cache.Clone()
		}
		return models.Ledger{}
	}
	as.cache = ledger
	as.cached = true
	return ledger.Clone()
}

// Unlock performs an idempotent unlock. It returns true only when this call
// created the unlock; already-unlocked ids and unknown ids return false.
// The ledger write lands before any notification goes out, so a crash right
// after the toast still leaves the persisted state consistent.
func (as *AchievementService) Unlock(id string) bool {
	def, known := catalog.Get(id)
	if !known {
		as.logger.Warnf(providers.TypeApp, "Unlock requested for unknown achievement %q", id)
		return false
	}

	as.mu.Lock()
	// The cache is advisory only: redundant trigger paths may race here, so
	// the decision is always made against the durable store.
	ledger, err := as.readLedger()
	if err != nil {
		as.mu.Unlock()
		as.logger.Errorf(providers.TypeApp, "Cannot read unlock ledger: %s", err)
		return false
	}

	if ledger[id].Unlocked {
		as.cache = ledger
		as.cached = true
		as.mu.Unlock()
		return false
	}

	ledger[id] = models.UnlockRecord{
		Unlocked: true,
		Date:     time.Now().UTC().Format(time.RFC3339),
		Seen:     false,
	}
	if err := as.writeLedger(ledger); err != nil {
		as.mu.Unlock()
		as.logger.Errorf(providers.TypeApp, "Cannot persist unlock of %s: %s", id, err)
		return false
	}

	as.pending = append(as.pending, def)
	as.mu.Unlock()

	as.metrics.IncUnlocks(id)
	as.logger.Infof(providers.TypeApp, "Achievement unlocked: %s", id)
	as.notifier.Show(def)
	return true
}

// MarkSeen flips the seen flag for the given ids. Seen never reverts.
func (as *AchievementService) MarkSeen(ids []string) {
	as.mu.Lock()
	defer as.mu.Unlock()

	ledger, err := as.readLedger()
	if err != nil {
		as.logger.Errorf(providers.TypeApp, "Cannot read unlock ledger: %s", err)
		return
	}

	changed := false
	for _, id := range ids {
		rec, ok := ledger[id]
		if !ok || !rec.Unlocked || rec.Seen {
			continue
		}
		rec.Seen = true
		ledger[id] = rec
		changed = true
	}
	if !changed {
		return
	}

	if err := as.writeLedger(ledger); err != nil {
		as.logger.Errorf(providers.TypeApp, "Cannot persist seen flags: %s", err)
	}
}

// PendingUnlocks drains the poll queue of unlocks accumulated since the
// last call. It exists for host shells that poll instead of subscribing.
func (as *AchievementService) PendingUnlocks() []catalog.Definition {
	as.mu.Lock()
	defer as.mu.Unlock()

	out := as.pending
	as.pending = nil
	return out
}

// ForceUnlock is the debug escape hatch; it goes through the same
// idempotent path as a real unlock.
func (as *AchievementService) ForceUnlock(id string) bool {
	as.logger.Warnf(providers.TypeApp, "Force unlock of %s", id)
	return as.Unlock(id)
}

// ResetAll wipes every key the core owns: the ledger, all one-shot action
// flags, and all streak state. Debug/test surface only.
func (as *AchievementService) ResetAll() {
	as.mu.Lock()
	defer as.mu.Unlock()

	keys, err := as.store.GetAllKeys()
	if err != nil {
		as.logger.Errorf(providers.TypeApp, "Cannot list store keys for reset: %s", err)
		return
	}

	var owned []string
	for _, k := range keys {
		if k == ledgerKey || strings.HasPrefix(k, trackerPrefix) || strings.HasPrefix(k, streakPrefix) {
			owned = append(owned, k)
		}
	}
	if err := as.store.MultiRemove(owned); err != nil {
		as.logger.Errorf(providers.TypeApp, "Cannot reset achievement state: %s", err)
		return
	}

	as.cache = models.Ledger{}
	as.cached = true
	as.pending = nil
	as.logger.Infof(providers.TypeApp, "Achievement state reset, %d keys removed", len(owned))
}
