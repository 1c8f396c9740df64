package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MissionIncome breaks down what a mission earned
type MissionIncome struct {
	Bounties      decimal.Decimal `json:"bounties"`
	MissionReward decimal.Decimal `json:"mission_reward"`
	TimeBonus     decimal.Decimal `json:"time_bonus"`
	LootValue     decimal.Decimal `json:"loot_value"`
}

// Total sums all income fields
func (i MissionIncome) Total() decimal.Decimal {
	return i.Bounties.Add(i.MissionReward).Add(i.TimeBonus).Add(i.LootValue)
}

// MissionExpenses breaks down what a mission cost
type MissionExpenses struct {
	Ammo    decimal.Decimal `json:"ammo"`
	Repairs decimal.Decimal `json:"repairs"`
	Other   decimal.Decimal `json:"other"`
}

// Total sums all expense fields
func (e MissionExpenses) Total() decimal.Decimal {
	return e.Ammo.Add(e.Repairs).Add(e.Other)
}

// MissionSession is a single tracked mission run. EndTime stays zero and
// TotalTimeMinutes/IskPerHour stay unset until the session completes.
type MissionSession struct {
	ID               string          `json:"id"`
	MissionName      string          `json:"mission_name"`
	MissionLevel     int             `json:"mission_level"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	Income           MissionIncome   `json:"income"`
	Expenses         MissionExpenses `json:"expenses"`
	TotalTimeMinutes int             `json:"total_time_minutes"`
	IskPerHour       decimal.Decimal `json:"isk_per_hour"`
	Notes            string          `json:"notes"`
}

// Profit is total income minus total expenses
func (m MissionSession) Profit() decimal.Decimal {
	return m.Income.Total().Sub(m.Expenses.Total())
}

// Completed reports whether the session has been finalized
func (m MissionSession) Completed() bool {
	return !m.EndTime.IsZero()
}
