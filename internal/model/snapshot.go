package model

import "time"

// RiskLevel classifies the flood risk of a monitored entity.
type RiskLevel string

const (
	RiskNormal  RiskLevel = "NORMAL"
	RiskWarning RiskLevel = "WARNING"
	RiskDanger  RiskLevel = "DANGER"
	RiskExtreme RiskLevel = "EXTREME"
)

// ReservoirStatus is one dam reading: pond level in feet plus mean
// inflow/outflow in cusecs.
type ReservoirStatus struct {
	Level   float64   `json:"level"`
	Inflow  int       `json:"inflow"`
	Outflow int       `json:"outflow"`
	Risk    RiskLevel `json:"risk"`
}

// FlowStatus is an upstream/downstream discharge pair for a barrage or
// river monitoring station.
type FlowStatus struct {
	Inflow  int       `json:"inflow"`
	Outflow int       `json:"outflow"`
	Risk    RiskLevel `json:"risk"`
}

// RIMStatus is the combined inflow across the rim monitoring stations.
type RIMStatus struct {
	TotalInflow int       `json:"total_inflow"`
	Risk        RiskLevel `json:"risk"`
}

// Snapshot is one complete reading of all monitored water-level entities
// for a given date. Every field is always populated: parse failures degrade
// individual values toward the canonical fallback, never to absence.
type Snapshot struct {
	Date        string                     `json:"date"`
	Timestamp   time.Time                  `json:"timestamp"`
	Source      string                     `json:"source"`
	OverallRisk RiskLevel                  `json:"overall_risk"`
	Reservoirs  map[string]ReservoirStatus `json:"reservoirs"`
	Barrages    map[string]FlowStatus      `json:"barrages"`
	Stations    map[string]FlowStatus      `json:"stations"`
	RIMStations RIMStatus                  `json:"rim_stations"`
}
