package controllers

import (
	"akd/internal/catalog"
	"akd/internal/models"
	"akd/internal/providers"
	"akd/internal/services"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// achievementsCacheKey caches the /achievements response. Every mutating
// handler drops it so the list reflects new unlocks and seen marks right
// away instead of after the cache TTL.
const achievementsCacheKey = "achievements"

type ApiController struct {
	logger       providers.Logger
	achievements services.AchievementServiceInterface
	notifier     services.NotifierServiceInterface
	streak       services.StreakServiceInterface
	tracker      services.TrackerServiceInterface
	rules        services.RulesServiceInterface
	cache        providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, achievements services.AchievementServiceInterface, notifier services.NotifierServiceInterface, streak services.StreakServiceInterface, tracker services.TrackerServiceInterface, rules services.RulesServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:       logger,
		achievements: achievements,
		notifier:     notifier,
		streak:       streak,
		tracker:      tracker,
		rules:        rules,
		cache:        cache,
	}
}

type trackRequest struct {
	Action models.ActionType `json:"action"`
	Data   models.TrackData  `json:"data"`
}

type loginRequest struct {
	Tier models.Tier `json:"tier"`
}

type seenRequest struct {
	Ids []string `json:"ids"`
}

type unlockRequest struct {
	Id string `json:"id"`
}

type streakOverrideRequest struct {
	Days int         `json:"days"`
	Tier models.Tier `json:"tier"`
}

// achievementView is a catalog definition joined with its unlock state,
// which is what the host's achievement list renders.
type achievementView struct {
	catalog.Definition
	Unlocked bool   `json:"unlocked"`
	Date     string `json:"date,omitempty"`
	Seen     bool   `json:"seen"`
}

func (ac *ApiController) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		ac.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "Bad request body on %s: %s", r.URL.Path, err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() any) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	gson, err := json.Marshal(compute())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// Track records a one-shot user action.
func (ac *ApiController) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if !ac.decode(w, r, &req) {
		return
	}
	if req.Action == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ac.logger.Debugf(providers.TypePost, "Tracking action %s", req.Action)
	ac.tracker.Track(req.Action, req.Data)
	ac.cache.Del(achievementsCacheKey)
	ac.writeJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

// Check runs the rule evaluator over a caller-supplied event context.
func (ac *ApiController) Check(w http.ResponseWriter, r *http.Request) {
	var evt models.Event
	if !ac.decode(w, r, &evt) {
		return
	}
	if evt.Type == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ac.rules.Evaluate(evt)
	ac.cache.Del(achievementsCacheKey)
	ac.writeJSON(w, http.StatusAccepted, map[string]string{"status": "ok"})
}

// Login counts today toward the streak and reports the updated counters.
func (ac *ApiController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !ac.decode(w, r, &req) {
		return
	}

	ac.streak.RecordLogin(req.Tier)
	ac.cache.Del(achievementsCacheKey)
	ac.writeJSON(w, http.StatusOK, map[string]int{
		"current": ac.streak.CurrentStreak(),
		"highest": ac.streak.HighestStreak(),
	})
}

// TierChanged retroactively unlocks tier-gated achievements the user
// earned before upgrading.
func (ac *ApiController) TierChanged(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !ac.decode(w, r, &req) {
		return
	}

	ac.streak.RecheckTierGated(req.Tier)
	ac.cache.Del(achievementsCacheKey)
	ac.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetAchievements returns the full catalog joined with unlock state.
func (ac *ApiController) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, achievementsCacheKey, func() any {
		ledger := ac.achievements.GetAll()
		defs := catalog.All()
		views := make([]achievementView, 0, len(defs))
		for _, def := range defs {
			rec := ledger[def.ID]
			views = append(views, achievementView{
				Definition: def,
				Unlocked:   rec.Unlocked,
				Date:       rec.Date,
				Seen:       rec.Seen,
			})
		}
		return map[string]any{"achievements": views}
	})
}

// GetStreak reports the streak counters.
func (ac *ApiController) GetStreak(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, map[string]int{
		"current": ac.streak.CurrentStreak(),
		"highest": ac.streak.HighestStreak(),
	})
}

// MarkSeen flags achievements as viewed in the host's list UI.
func (ac *ApiController) MarkSeen(w http.ResponseWriter, r *http.Request) {
	var req seenRequest
	if !ac.decode(w, r, &req) {
		return
	}

	ac.achievements.MarkSeen(req.Ids)
	ac.cache.Del(achievementsCacheKey)
	ac.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PendingNotifications drains the unlock poll queue for hosts that poll
// instead of holding a subscription.
func (ac *ApiController) PendingNotifications(w http.ResponseWriter, r *http.Request) {
	pending := ac.achievements.PendingUnlocks()
	if pending == nil {
		pending = []catalog.Definition{}
	}
	ac.writeJSON(w, http.StatusOK, map[string]any{"pending": pending})
}

// CompleteNotification releases the active notification slot. The host
// must call this exactly once per displayed notification.
func (ac *ApiController) CompleteNotification(w http.ResponseWriter, r *http.Request) {
	ac.notifier.Complete()
	ac.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DebugUnlock force-unlocks an achievement. Only routed in debug mode.
func (ac *ApiController) DebugUnlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if !ac.decode(w, r, &req) {
		return
	}

	unlocked := ac.achievements.ForceUnlock(req.Id)
	ac.cache.Del(achievementsCacheKey)
	ac.writeJSON(w, http.StatusOK, map[string]bool{"unlocked": unlocked})
}

// DebugReset wipes all achievement, tracker and streak state. Only routed
// in debug mode.
func (ac *ApiController) DebugReset(w http.ResponseWriter, r *http.Request) {
	ac.achievements.ResetAll()
	ac.cache.Del(achievementsCacheKey)
	ac.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DebugStreak forces the streak counter. Only routed in debug mode.
func (ac *ApiController) DebugStreak(w http.ResponseWriter, r *http.Request) {
	var req streakOverrideRequest
	if !ac.decode(w, r, &req) {
		return
	}

	ac.streak.SetTestStreak(req.Days, req.Tier)
	ac.cache.Del(achievementsCacheKey)
	ac.writeJSON(w, http.StatusOK, map[string]int{"current": ac.streak.CurrentStreak()})
}
