package charger

import "time"

type CreateChargerRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	ChargerType   Type      `json:"charger_type" binding:"required,oneof=level1 level2 dc_fast"`
	ConnectorType Connector `json:"connector_type" binding:"required,oneof=j1772 ccs1 ccs2 chademo nacs type2"`
	PowerKW       float64   `json:"power_kw" binding:"gt=0"`
	HourlyRate    float64   `json:"hourly_rate" binding:"required,gt=0"`
	Windows       Windows   `json:"availability_windows"`
}

type SetAvailabilityRequest struct {
	Windows Windows `json:"availability_windows"`
}

type SetStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=pending approved rejected inactive"`
}

type OpenResponse struct {
	ChargerID string    `json:"charger_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Open      bool      `json:"open"`
}
