package store

import (
	"errors"

	"github.com/shopspring/decimal"

	"isktrack/internal/model"
)

// ErrNotFound is returned when a record or setting does not exist
var ErrNotFound = errors.New("store: record not found")

// Stats is the aggregate rollup over the mission archive
type Stats struct {
	TotalMissions     int
	TotalProfit       decimal.Decimal
	AverageIskPerHour decimal.Decimal
}

// Store is the persistent collaborator: the mission archive plus the
// key/value settings used for the price hub, cache policy, default expenses
// and the durable active-session slot.
type Store interface {
	AddMission(m model.MissionSession) error
	GetMission(id string) (model.MissionSession, error)
	GetAllMissions() ([]model.MissionSession, error)
	DeleteMission(id string) error
	MissionStats() (Stats, error)

	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error

	Close() error
}
