package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"isktrack/internal/model"
)

// SQLiteStore implements Store on a local SQLite file. Decimals are stored
// as TEXT to keep ISK amounts exact, timestamps as RFC 3339 strings.
type SQLiteStore struct {
	db       *sql.DB
	filename string
}

// Open opens (creating if needed) the store at the given path and brings
// the schema up to date.
func Open(filename string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", filename+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	s := &SQLiteStore{db: db, filename: filename}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetDB exposes the handle for advanced operations
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

var missionColumns = []string{
	"id", "mission_name", "mission_level", "start_time", "end_time",
	"bounties", "mission_reward", "time_bonus", "loot_value",
	"ammo", "repairs", "other_expenses",
	"total_time_minutes", "isk_per_hour", "notes",
}

// AddMission inserts or replaces a completed mission record
func (s *SQLiteStore) AddMission(m model.MissionSession) error {
	endTime := ""
	if !m.EndTime.IsZero() {
		endTime = m.EndTime.Format(time.RFC3339Nano)
	}

	query := sq.Replace("missions").
		Columns(missionColumns...).
		Values(
			m.ID, m.MissionName, m.MissionLevel,
			m.StartTime.Format(time.RFC3339Nano), endTime,
			m.Income.Bounties.String(), m.Income.MissionReward.String(),
			m.Income.TimeBonus.String(), m.Income.LootValue.String(),
			m.Expenses.Ammo.String(), m.Expenses.Repairs.String(), m.Expenses.Other.String(),
			m.TotalTimeMinutes, m.IskPerHour.String(), m.Notes,
		)

	if _, err := query.RunWith(s.db).Exec(); err != nil {
		return fmt.Errorf("failed to save mission %s: %w", m.ID, err)
	}
	return nil
}

// GetMission loads one mission by id
func (s *SQLiteStore) GetMission(id string) (model.MissionSession, error) {
	row := sq.Select(missionColumns...).
		From("missions").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		QueryRow()

	m, err := scanMission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MissionSession{}, ErrNotFound
	}
	if err != nil {
		return model.MissionSession{}, fmt.Errorf("failed to load mission %s: %w", id, err)
	}
	return m, nil
}

// GetAllMissions loads the full archive, most recent first
func (s *SQLiteStore) GetAllMissions() ([]model.MissionSession, error) {
	rows, err := sq.Select(missionColumns...).
		From("missions").
		OrderBy("start_time DESC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to load missions: %w", err)
	}
	defer rows.Close()

	var out []model.MissionSession
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMission removes one mission from the archive
func (s *SQLiteStore) DeleteMission(id string) error {
	result, err := sq.Delete("missions").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete mission %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// MissionStats aggregates the archive. Decimals live in TEXT columns, so the
// arithmetic happens here rather than in SQL.
func (s *SQLiteStore) MissionStats() (Stats, error) {
	missions, err := s.GetAllMissions()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalMissions: len(missions)}
	rateSum := decimal.Zero
	for _, m := range missions {
		stats.TotalProfit = stats.TotalProfit.Add(m.Profit())
		rateSum = rateSum.Add(m.IskPerHour)
	}
	if len(missions) > 0 {
		stats.AverageIskPerHour = rateSum.Div(decimal.NewFromInt(int64(len(missions)))).Round(2)
	}
	return stats, nil
}

// GetSetting reads one settings value; ErrNotFound when the key is absent
func (s *SQLiteStore) GetSetting(key string) (string, error) {
	var value string
	err := sq.Select("value").
		From("settings").
		Where(sq.Eq{"key": key}).
		RunWith(s.db).
		QueryRow().
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// GetSettingDefault reads a setting, falling back to a default when absent
func (s *SQLiteStore) GetSettingDefault(key, fallback string) string {
	value, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	return value
}

// SetSetting writes one settings value
func (s *SQLiteStore) SetSetting(key, value string) error {
	_, err := sq.Replace("settings").
		Columns("key", "value").
		Values(key, value).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes one settings key; deleting a missing key is not an error
func (s *SQLiteStore) DeleteSetting(key string) error {
	_, err := sq.Delete("settings").
		Where(sq.Eq{"key": key}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (model.MissionSession, error) {
	var (
		m                  model.MissionSession
		startTime, endTime string
		bounties, reward   string
		timeBonus, loot    string
		ammo, repairs      string
		other, iskPerHour  string
	)

	err := row.Scan(
		&m.ID, &m.MissionName, &m.MissionLevel, &startTime, &endTime,
		&bounties, &reward, &timeBonus, &loot,
		&ammo, &repairs, &other,
		&m.TotalTimeMinutes, &iskPerHour, &m.Notes,
	)
	if err != nil {
		return model.MissionSession{}, err
	}

	if m.StartTime, err = time.Parse(time.RFC3339Nano, startTime); err != nil {
		return model.MissionSession{}, fmt.Errorf("bad start_time %q: %w", startTime, err)
	}
	if endTime != "" {
		if m.EndTime, err = time.Parse(time.RFC3339Nano, endTime); err != nil {
			return model.MissionSession{}, fmt.Errorf("bad end_time %q: %w", endTime, err)
		}
	}

	fields := []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&m.Income.Bounties, bounties},
		{&m.Income.MissionReward, reward},
		{&m.Income.TimeBonus, timeBonus},
		{&m.Income.LootValue, loot},
		{&m.Expenses.Ammo, ammo},
		{&m.Expenses.Repairs, repairs},
		{&m.Expenses.Other, other},
		{&m.IskPerHour, iskPerHour},
	}
	for _, f := range fields {
		if *f.dst, err = decimal.NewFromString(f.raw); err != nil {
			return model.MissionSession{}, fmt.Errorf("bad decimal %q: %w", f.raw, err)
		}
	}

	return m, nil
}
