package services

import (
	"akd/internal/catalog"
	"akd/internal/kvstore"
	"akd/internal/models"
	"akd/internal/providers"
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	lastLoginKey  = "streak:last_login"
	currentKey    = "streak:current"
	highestKey    = "streak:highest"
	unlockedKeyFn = "streak:unlocked:%d"
	eligibleKeyFn = "streak:eligible:%d"

	dateLayout = "2006-01-02"
)

// streakThreshold ties a streak length to its achievement. Gated thresholds
// additionally require a paid tier at unlock time; crossing them always
// records eligibility so the unlock can happen retroactively after an
// upgrade.
type streakThreshold struct {
	days  int
	id    string
	gated bool
}

var streakThresholds = []streakThreshold{
	{days: 7, id: catalog.StreakWeek},
	{days: 30, id: catalog.StreakMonth},
	{days: 90, id: catalog.StreakQuarter},
	{days: 180, id: catalog.StreakHalfYear, gated: true},
	{days: 365, id: catalog.StreakYear, gated: true},
}

type StreakServiceInterface interface {
	RecordLogin(tier models.Tier)
	CurrentStreak() int
	HighestStreak() int
	RecheckTierGated(tier models.Tier)
	SetTestStreak(days int, tier models.Tier)
}

// StreakService maintains the consecutive-day login counter. All
// comparisons are calendar dates, never timestamps: two logins at 00:01 and
// 23:59 of the same day are one day, and 23:59 followed by 00:01 is two.
type StreakService struct {
	mu           sync.Mutex
	store        kvstore.Store
	achievements AchievementServiceInterface
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
	now          func() time.Time
}

func NewStreakService(store kvstore.Store, achievements AchievementServiceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) StreakServiceInterface {
	return &StreakService{
		store:        store,
		achievements: achievements,
		logger:       logger,
		metrics:      metrics,
		now:          time.Now,
	}
}

// RecordLogin counts today toward the streak. Calling it again on the same
// calendar day is a no-op.
func (ss *StreakService) RecordLogin(tier models.Tier) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	today := ss.now()
	todayStr := today.Format(dateLayout)

	last, ok, err := ss.store.Get(lastLoginKey)
	if err != nil {
		ss.logger.Errorf(providers.TypeApp, "Cannot read last login date: %s", err)
		return
	}

	if ok && last == todayStr {
		return
	}

	current := 1
	if ok && last != "" {
		switch daysBetween(last, today) {
		case 1:
			current = ss.getInt(currentKey) + 1
		default:
			// Gap of two or more days, or an unparseable/future date:
			// the streak is broken either way.
			current = 1
		}
	}

	highest := ss.getInt(highestKey)
	if current > highest {
		highest = current
		ss.setInt(highestKey, highest)
	}

	if err := ss.store.Set(lastLoginKey, todayStr); err != nil {
		ss.logger.Errorf(providers.TypeApp, "Cannot persist last login date: %s", err)
		return
	}
	ss.setInt(currentKey, current)
	ss.metrics.SetCurrentStreak(current)

	ss.checkThresholds(current, tier)
}

func (ss *StreakService) CurrentStreak() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.getInt(currentKey)
}

func (ss *StreakService) HighestStreak() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.getInt(highestKey)
}

// RecheckTierGated unlocks any tier-gated streak achievement the user
// already earned while on the free plan. Called when the subscription tier
// changes to a paid one; the days are never re-earned.
func (ss *StreakService) RecheckTierGated(tier models.Tier) {
	if !tier.Paid() {
		return
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	for _, t := range streakThresholds {
		if !t.gated {
			continue
		}
		if ss.getFlag(fmt.Sprintf(eligibleKeyFn, t.days)) && !ss.getFlag(fmt.Sprintf(unlockedKeyFn, t.days)) {
			ss.achievements.Unlock(t.id)
			ss.setFlag(fmt.Sprintf(unlockedKeyFn, t.days))
		}
	}
}

// SetTestStreak jumps the counter to an arbitrary length and runs the
// threshold checks. Debug surface only.
func (ss *StreakService) SetTestStreak(days int, tier models.Tier) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.logger.Warnf(providers.TypeApp, "Streak forced to %d days", days)

	if err := ss.store.Set(lastLoginKey, ss.now().Format(dateLayout)); err != nil {
		ss.logger.Errorf(providers.TypeApp, "Cannot persist last login date: %s", err)
		return
	}
	ss.setInt(currentKey, days)
	if days > ss.getInt(highestKey) {
		ss.setInt(highestKey, days)
	}
	ss.metrics.SetCurrentStreak(days)

	ss.checkThresholds(days, tier)
}

// checkThresholds walks the thresholds in ascending order and fires each
// one the streak has reached, exactly once. Gated thresholds always record
// eligibility; the unlock itself waits for a paid tier. Must be called with
// the lock held.
func (ss *StreakService) checkThresholds(current int, tier models.Tier) {
	for _, t := range streakThresholds {
		if current < t.days {
			break
		}

		if t.gated {
			ss.setFlag(fmt.Sprintf(eligibleKeyFn, t.days))
		}

		unlockedKey := fmt.Sprintf(unlockedKeyFn, t.days)
		if ss.getFlag(unlockedKey) {
			continue
		}
		if t.gated && !tier.Paid() {
			continue
		}

		ss.achievements.Unlock(t.id)
		ss.setFlag(unlockedKey)
	}
}

// daysBetween returns the number of calendar days from the stored date to
// today, or -1 when the stored date does not parse. Both dates are
// re-anchored at UTC midnight before subtracting: local midnights are 23 or
// 25 hours apart across a DST shift, which would miscount the gap.
func daysBetween(stored string, today time.Time) int {
	last, err := time.Parse(dateLayout, stored)
	if err != nil {
		return -1
	}
	lastUTC := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	todayUTC := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(todayUTC.Sub(lastUTC).Hours() / 24)
}

func (ss *StreakService) getInt(key string) int {
	raw, ok, err := ss.store.Get(key)
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (ss *StreakService) setInt(key string, val int) {
	if err := ss.store.Set(key, strconv.Itoa(val)); err != nil {
		ss.logger.Errorf(providers.TypeApp, "Cannot persist %s: %s", key, err)
	}
}

func (ss *StreakService) getFlag(key string) bool {
	raw, ok, err := ss.store.Get(key)
	return err == nil && ok && raw == "1"
}

func (ss *StreakService) setFlag(key string) {
	if err := ss.store.Set(key, "1"); err != nil {
		ss.logger.Errorf(providers.TypeApp, "Cannot persist %s: %s", key, err)
	}
}
