package services

import (
	"akd/internal/kvstore"
	"akd/internal/models"
	"akd/internal/providers"
	"sync"
)

type TrackerServiceInterface interface {
	Track(action models.ActionType, data models.TrackData)
	RegisterRefreshHook(fn func())
}

// TrackerService guards the "first time" achievements with a persisted
// one-shot flag per action, then hands the event to the rules. The flag is
// written before any unlock attempt so a double-fired action cannot race
// into two first-time notifications through the rules path; the ledger's
// idempotence covers everything else.
type TrackerService struct {
	mu     sync.Mutex
	store  kvstore.Store
	rules  RulesServiceInterface
	logger providers.Logger
	hooks  []func()
}

func NewTrackerService(store kvstore.Store, rules RulesServiceInterface, logger providers.Logger) TrackerServiceInterface {
	return &TrackerService{
		store:  store,
		rules:  rules,
		logger: logger,
	}
}

func (ts *TrackerService) Track(action models.ActionType, data models.TrackData) {
	evtType, known := eventTypeFor(action)
	if !known {
		ts.logger.Warnf(providers.TypeApp, "Track called with unknown action %q", action)
		return
	}

	ts.mu.Lock()
	key := trackerPrefix + string(action)
	raw, ok, err := ts.store.Get(key)
	if err != nil {
		ts.mu.Unlock()
		ts.logger.Errorf(providers.TypeApp, "Cannot read one-shot flag %s: %s", key, err)
		return
	}

	first := !ok || raw != "1"
	if first {
		if err := ts.store.Set(key, "1"); err != nil {
			ts.mu.Unlock()
			ts.logger.Errorf(providers.TypeApp, "Cannot persist one-shot flag %s: %s", key, err)
			return
		}
	}
	ts.mu.Unlock()

	ts.rules.Evaluate(models.Event{
		Type:  evtType,
		Goals: data.Goals,
		First: first,
		Pro:   data.Pro,
	})

	ts.fireRefreshHooks()
}

// RegisterRefreshHook adds a best-effort observer invoked after every
// state-changing Track call, so a host can reload cached state.
func (ts *TrackerService) RegisterRefreshHook(fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.hooks = append(ts.hooks, fn)
}

// fireRefreshHooks notifies observers; a failing hook is logged and
// ignored.
func (ts *TrackerService) fireRefreshHooks() {
	ts.mu.Lock()
	hooks := make([]func(), len(ts.hooks))
	copy(hooks, ts.hooks)
	ts.mu.Unlock()

	for _, hook := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					ts.logger.Warnf(providers.TypeApp, "Refresh hook failed: %v", r)
				}
			}()
			hook()
		}()
	}
}

func eventTypeFor(action models.ActionType) (models.EventType, bool) {
	switch action {
	case models.ActionGoalCreated:
		return models.EventGoalCreated, true
	case models.ActionProjectCreated:
		return models.EventProjectCreated, true
	case models.ActionTaskCompleted:
		return models.EventTaskCompleted, true
	case models.ActionTimeBlockCreated:
		return models.EventTimeBlockCreated, true
	case models.ActionAIConversation:
		return models.EventAIConversation, true
	case models.ActionDocumentUploaded:
		return models.EventDocumentUploaded, true
	case models.ActionReferralSent:
		return models.EventReferralSent, true
	}
	return "", false
}
