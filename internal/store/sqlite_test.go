package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isktrack/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleMission(id string, start time.Time) model.MissionSession {
	return model.MissionSession{
		ID:           id,
		MissionName:  "The Blockade",
		MissionLevel: 4,
		StartTime:    start,
		EndTime:      start.Add(42 * time.Minute),
		Income: model.MissionIncome{
			Bounties:      decimal.RequireFromString("1234567.89"),
			MissionReward: decimal.NewFromInt(250_000),
			TimeBonus:     decimal.NewFromInt(150_000),
			LootValue:     decimal.RequireFromString("99999.5"),
		},
		Expenses: model.MissionExpenses{
			Ammo:    decimal.NewFromInt(40_000),
			Repairs: decimal.NewFromInt(10_000),
			Other:   decimal.NewFromInt(5_000),
		},
		TotalTimeMinutes: 42,
		IskPerHour:       decimal.RequireFromString("2405096.27"),
		Notes:            "two rooms\nsalvaged everything",
	}
}

func TestMissionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	start := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	original := sampleMission("m1", start)
	require.NoError(t, s.AddMission(original))

	loaded, err := s.GetMission("m1")
	require.NoError(t, err)

	assert.Equal(t, original.MissionName, loaded.MissionName)
	assert.Equal(t, original.MissionLevel, loaded.MissionLevel)
	assert.True(t, original.StartTime.Equal(loaded.StartTime))
	assert.True(t, original.EndTime.Equal(loaded.EndTime))
	assert.True(t, original.Income.Bounties.Equal(loaded.Income.Bounties))
	assert.True(t, original.Income.LootValue.Equal(loaded.Income.LootValue))
	assert.True(t, original.Expenses.Other.Equal(loaded.Expenses.Other))
	assert.Equal(t, original.TotalTimeMinutes, loaded.TotalTimeMinutes)
	assert.True(t, original.IskPerHour.Equal(loaded.IskPerHour))
	assert.Equal(t, original.Notes, loaded.Notes)
}

func TestGetMissionNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetMission("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllMissionsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddMission(sampleMission("old", base)))
	require.NoError(t, s.AddMission(sampleMission("new", base.Add(2*time.Hour))))

	missions, err := s.GetAllMissions()
	require.NoError(t, err)
	require.Len(t, missions, 2)
	assert.Equal(t, "new", missions[0].ID)
	assert.Equal(t, "old", missions[1].ID)
}

func TestDeleteMission(t *testing.T) {
	s := openTestStore(t)
	start := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddMission(sampleMission("m1", start)))
	require.NoError(t, s.DeleteMission("m1"))

	_, err := s.GetMission("m1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteMission("m1"), ErrNotFound)
}

func TestMissionStats(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	m1 := sampleMission("m1", base)
	m2 := sampleMission("m2", base.Add(time.Hour))
	m2.IskPerHour = decimal.NewFromInt(1_000_000)
	require.NoError(t, s.AddMission(m1))
	require.NoError(t, s.AddMission(m2))

	stats, err := s.MissionStats()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalMissions)
	expectedProfit := m1.Profit().Add(m2.Profit())
	assert.True(t, expectedProfit.Equal(stats.TotalProfit), "got %s want %s", stats.TotalProfit, expectedProfit)

	expectedRate := m1.IskPerHour.Add(m2.IskPerHour).Div(decimal.NewFromInt(2)).Round(2)
	assert.True(t, expectedRate.Equal(stats.AverageIskPerHour))
}

func TestMissionStatsEmpty(t *testing.T) {
	s := openTestStore(t)
	stats, err := s.MissionStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalMissions)
	assert.True(t, stats.TotalProfit.IsZero())
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetSetting("price_hub_region")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetSetting("price_hub_region", "10000002"))
	value, err := s.GetSetting("price_hub_region")
	require.NoError(t, err)
	assert.Equal(t, "10000002", value)

	// Overwrite in place
	require.NoError(t, s.SetSetting("price_hub_region", "10000043"))
	assert.Equal(t, "10000043", s.GetSettingDefault("price_hub_region", ""))

	require.NoError(t, s.DeleteSetting("price_hub_region"))
	_, err = s.GetSetting("price_hub_region")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is fine
	assert.NoError(t, s.DeleteSetting("price_hub_region"))
}

func TestGetSettingDefault(t *testing.T) {
	s := openTestStore(t)
	assert.Equal(t, "fallback", s.GetSettingDefault("nope", "fallback"))
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	start := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.AddMission(sampleMission("m1", start)))
	require.NoError(t, s1.Close())

	// Reopening runs migrations again; they must be idempotent
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	loaded, err := s2.GetMission("m1")
	require.NoError(t, err)
	assert.Equal(t, "The Blockade", loaded.MissionName)
}
