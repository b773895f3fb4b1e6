package services

import (
	"akd/internal/catalog"
	"akd/internal/models"
	"akd/internal/testutil"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type streakFixture struct {
	streak   *StreakService
	store    *testutil.MockStore
	notifier *testutil.MockNotifier
	today    time.Time
}

func newStreakFixture() *streakFixture {
	store := testutil.NewMockStore()
	notifier := &testutil.MockNotifier{}
	as := NewAchievementService(store, notifier, &testutil.MockLogger{}, testutil.NewMockMetrics())
	ss := NewStreakService(store, as, &testutil.MockLogger{}, testutil.NewMockMetrics()).(*StreakService)

	f := &streakFixture{
		streak:   ss,
		store:    store,
		notifier: notifier,
		today:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	ss.now = func() time.Time { return f.today }
	return f
}

func (f *streakFixture) advanceDays(n int) {
	f.today = f.today.AddDate(0, 0, n)
}

func TestRecordLogin_FreshInstall(t *testing.T) {
	f := newStreakFixture()

	f.streak.RecordLogin(models.TierFree)

	assert.Equal(t, 1, f.streak.CurrentStreak())
	assert.Equal(t, 1, f.streak.HighestStreak())
}

func TestRecordLogin_ConsecutiveDaysIncrement(t *testing.T) {
	f := newStreakFixture()

	f.streak.RecordLogin(models.TierFree)
	f.advanceDays(1)
	f.streak.RecordLogin(models.TierFree)

	assert.Equal(t, 2, f.streak.CurrentStreak())
	assert.Equal(t, 2, f.streak.HighestStreak())
}

func TestRecordLogin_SameDayIsNoop(t *testing.T) {
	f := newStreakFixture()

	f.streak.RecordLogin(models.TierFree)
	f.advanceDays(1)
	f.streak.RecordLogin(models.TierFree)

	lastLogin := f.store.Data["streak:last_login"]
	f.streak.RecordLogin(models.TierFree)

	assert.Equal(t, 2, f.streak.CurrentStreak())
	assert.Equal(t, 2, f.streak.HighestStreak())
	assert.Equal(t, lastLogin, f.store.Data["streak:last_login"])
}

func TestRecordLogin_SkippedDayBreaksStreak(t *testing.T) {
	f := newStreakFixture()

	f.streak.RecordLogin(models.TierFree)
	f.advanceDays(1)
	f.streak.RecordLogin(models.TierFree)
	f.advanceDays(2)
	f.streak.RecordLogin(models.TierFree)

	assert.Equal(t, 1, f.streak.CurrentStreak())
	assert.Equal(t, 2, f.streak.HighestStreak())
}

func TestRecordLogin_LongestSuffixOfConsecutiveDays(t *testing.T) {
	f := newStreakFixture()

	// 3 consecutive days, a 3-day gap, then 2 consecutive days.
	for i := 0; i < 3; i++ {
		f.streak.RecordLogin(models.TierFree)
		f.advanceDays(1)
	}
	f.advanceDays(3)
	f.streak.RecordLogin(models.TierFree)
	f.advanceDays(1)
	f.streak.RecordLogin(models.TierFree)

	assert.Equal(t, 2, f.streak.CurrentStreak())
	assert.Equal(t, 3, f.streak.HighestStreak())
}

func TestRecordLogin_ConsecutiveDaysAcrossSpringForward(t *testing.T) {
	// US DST starts 2026-03-08; that calendar day is only 23 hours long in
	// New York. The next morning must still count as exactly one day later.
	nyc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	f := newStreakFixture()
	f.today = time.Date(2026, 3, 8, 10, 0, 0, 0, nyc)

	f.streak.RecordLogin(models.TierFree)
	f.advanceDays(1)
	f.streak.RecordLogin(models.TierFree)

	assert.Equal(t, 2, f.streak.CurrentStreak())
	assert.Equal(t, 2, f.streak.HighestStreak())
}

func TestRecordLogin_ConsecutiveDaysAcrossFallBack(t *testing.T) {
	// US DST ends 2026-11-01; a 25-hour day must not count as two.
	nyc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	f := newStreakFixture()
	f.today = time.Date(2026, 10, 31, 10, 0, 0, 0, nyc)

	f.streak.RecordLogin(models.TierFree)
	f.advanceDays(1)
	f.streak.RecordLogin(models.TierFree)
	f.advanceDays(1)
	f.streak.RecordLogin(models.TierFree)

	assert.Equal(t, 3, f.streak.CurrentStreak())
}

func TestDaysBetween_DSTBoundaries(t *testing.T) {
	nyc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		stored   string
		today    time.Time
		expected int
	}{
		{"2026-03-08", time.Date(2026, 3, 9, 10, 0, 0, 0, nyc), 1},
		{"2026-03-07", time.Date(2026, 3, 9, 10, 0, 0, 0, nyc), 2},
		{"2026-10-31", time.Date(2026, 11, 1, 10, 0, 0, 0, nyc), 1},
		{"2026-03-09", time.Date(2026, 3, 9, 23, 0, 0, 0, nyc), 0},
		{"not-a-date", time.Date(2026, 3, 9, 10, 0, 0, 0, nyc), -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, daysBetween(tt.stored, tt.today), "stored=%s", tt.stored)
	}
}

func TestRecordLogin_GarbledDateResetsToOne(t *testing.T) {
	f := newStreakFixture()
	f.store.Data["streak:last_login"] = "yesterday-ish"
	f.store.Data["streak:current"] = "12"

	f.streak.RecordLogin(models.TierFree)

	assert.Equal(t, 1, f.streak.CurrentStreak())
}

func TestRecordLogin_StoreFailureFailsSoft(t *testing.T) {
	f := newStreakFixture()
	f.store.GetErr = errors.New("io error")

	f.streak.RecordLogin(models.TierFree)

	assert.Equal(t, 0, f.streak.CurrentStreak())
}

func TestRecordLogin_SevenDayThresholdUnlocks(t *testing.T) {
	f := newStreakFixture()

	for i := 0; i < 7; i++ {
		f.streak.RecordLogin(models.TierFree)
		f.advanceDays(1)
	}

	require.Contains(t, f.notifier.ShownIDs(), catalog.StreakWeek)
	// Crossing the threshold again after a break must not re-notify.
	assert.Equal(t, 1, len(f.notifier.ShownIDs()))
}

func TestRecordLogin_SixDaysDoesNotUnlock(t *testing.T) {
	f := newStreakFixture()

	for i := 0; i < 6; i++ {
		f.streak.RecordLogin(models.TierFree)
		f.advanceDays(1)
	}

	assert.NotContains(t, f.notifier.ShownIDs(), catalog.StreakWeek)
}

func TestSetTestStreak_FiresAllReachedThresholds(t *testing.T) {
	f := newStreakFixture()

	f.streak.SetTestStreak(90, models.TierFree)

	ids := f.notifier.ShownIDs()
	assert.Contains(t, ids, catalog.StreakWeek)
	assert.Contains(t, ids, catalog.StreakMonth)
	assert.Contains(t, ids, catalog.StreakQuarter)
	assert.Equal(t, 90, f.streak.CurrentStreak())
}

func TestSetTestStreak_GatedThresholdOnFreeTier(t *testing.T) {
	f := newStreakFixture()

	f.streak.SetTestStreak(180, models.TierFree)

	assert.NotContains(t, f.notifier.ShownIDs(), catalog.StreakHalfYear)
	assert.Equal(t, "1", f.store.Data["streak:eligible:180"])
}

func TestSetTestStreak_GatedThresholdOnProTier(t *testing.T) {
	f := newStreakFixture()

	f.streak.SetTestStreak(180, models.TierPro)

	assert.Contains(t, f.notifier.ShownIDs(), catalog.StreakHalfYear)
}

func TestRecheckTierGated_RetroactiveUnlock(t *testing.T) {
	f := newStreakFixture()

	// Earned the 180-day streak on the free plan: eligible, not unlocked.
	f.streak.SetTestStreak(180, models.TierFree)
	require.NotContains(t, f.notifier.ShownIDs(), catalog.StreakHalfYear)

	f.streak.RecheckTierGated(models.TierPro)

	ids := f.notifier.ShownIDs()
	assert.Contains(t, ids, catalog.StreakHalfYear)

	// A second recheck must not unlock or notify again.
	before := len(ids)
	f.streak.RecheckTierGated(models.TierPro)
	assert.Len(t, f.notifier.ShownIDs(), before)
}

func TestRecheckTierGated_FreeTierDoesNothing(t *testing.T) {
	f := newStreakFixture()

	f.streak.SetTestStreak(365, models.TierFree)
	f.streak.RecheckTierGated(models.TierFree)

	ids := f.notifier.ShownIDs()
	assert.NotContains(t, ids, catalog.StreakHalfYear)
	assert.NotContains(t, ids, catalog.StreakYear)
}

func TestRecheckTierGated_WithoutEligibilityDoesNothing(t *testing.T) {
	f := newStreakFixture()

	f.streak.SetTestStreak(30, models.TierFree)
	f.streak.RecheckTierGated(models.TierPro)

	assert.NotContains(t, f.notifier.ShownIDs(), catalog.StreakHalfYear)
}

func TestStreakCounters_DefaultToZero(t *testing.T) {
	f := newStreakFixture()

	assert.Equal(t, 0, f.streak.CurrentStreak())
	assert.Equal(t, 0, f.streak.HighestStreak())
}
