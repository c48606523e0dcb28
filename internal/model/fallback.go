package model

import "time"

// FallbackDate is the report date of the hand-curated fallback reading.
const FallbackDate = "05-12-2025"

// Fallback returns the canonical known-good snapshot, taken from the IRSA
// daily report of 05-12-2025. It is the single source of truth for both the
// parser's field defaults and the value returned when acquisition fails
// entirely. Each call returns fresh maps so callers can mutate freely.
func Fallback(source string, now time.Time) *Snapshot {
	return &Snapshot{
		Date:        FallbackDate,
		Timestamp:   now,
		Source:      source,
		OverallRisk: RiskNormal,
		Reservoirs: map[string]ReservoirStatus{
			"tarbela": {Level: 1491.26, Inflow: 21600, Outflow: 33000, Risk: RiskNormal},
			"mangla":  {Level: 1214.70, Inflow: 3144, Outflow: 33000, Risk: RiskNormal},
		},
		Barrages: map[string]FlowStatus{
			"kalabagh": {Inflow: 38249, Outflow: 31749, Risk: RiskNormal},
			"chashma":  {Inflow: 45000, Outflow: 42000, Risk: RiskNormal},
			"taunsa":   {Inflow: 51159, Outflow: 44659, Risk: RiskNormal},
			"guddu":    {Inflow: 55145, Outflow: 47625, Risk: RiskNormal},
			"sukkur":   {Inflow: 43220, Outflow: 14550, Risk: RiskNormal},
			"kotri":    {Inflow: 10400, Outflow: 1245, Risk: RiskNormal},
		},
		Stations: map[string]FlowStatus{
			"nowshera": {Inflow: 7400, Outflow: 7400, Risk: RiskNormal},
			"marala":   {Inflow: 7721, Outflow: 1813, Risk: RiskNormal},
		},
		RIMStations: RIMStatus{TotalInflow: 39865, Risk: RiskNormal},
	}
}
