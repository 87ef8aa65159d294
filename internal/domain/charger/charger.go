package charger

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusInactive:
		return true
	}
	return false
}

type Type string

const (
	TypeLevel1 Type = "level1"
	TypeLevel2 Type = "level2"
	TypeDCFast Type = "dc_fast"
)

type Connector string

const (
	ConnectorJ1772   Connector = "j1772"
	ConnectorCCS1    Connector = "ccs1"
	ConnectorCCS2    Connector = "ccs2"
	ConnectorCHAdeMO Connector = "chademo"
	ConnectorNACS    Connector = "nacs"
	ConnectorType2   Connector = "type2"
)

// Charger is a listed piece of charging hardware.
type Charger struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	ChargerType   Type      `json:"charger_type"`
	ConnectorType Connector `json:"connector_type"`
	PowerKW       float64   `json:"power_kw"`
	HourlyRate    float64   `json:"hourly_rate"`
	Windows       Windows   `json:"availability_windows"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsBookable reports whether reservations may be placed on the charger.
func (c *Charger) IsBookable() bool {
	return c.Status == StatusApproved
}

// SpecFilter narrows FindBySpecs; empty fields match everything.
type SpecFilter struct {
	ChargerType   Type
	ConnectorType Connector
}
