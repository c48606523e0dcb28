package bulletin

import (
	"regexp"
	"time"

	"github.com/pdme/floodwatch/internal/model"
)

// The bulletin schema is table-driven: every reading is a {section heading,
// field label} pair applied uniformly through extractValue, seeded with the
// canonical fallback value so a miss in one field never corrupts another.

type reservoirRule struct {
	key                    string
	level, inflow, outflow *regexp.Regexp
}

type barrageRule struct {
	key             string
	inflow, outflow *regexp.Regexp
	// Secondary patterns for barrages whose heading occasionally reads
	// MEAN INFLOW/OUTFLOW instead of U/S / D/S DISCHARGE (Chashma).
	altInflow, altOutflow *regexp.Regexp
}

var (
	reservoirTable = buildReservoirTable()
	barrageTable   = buildBarrageTable()

	nowsheraDischarge = sectionPattern("KABUL @ NOWSHERA", "MEAN DISCHARGE")
	maralaUpstream    = sectionPattern("CHENAB @ MARALA", "MEAN U/S DISCHARGE")
	maralaDownstream  = sectionPattern("CHENAB @ MARALA", "MEAN D/S DISCHARGE")
	rimTotal          = sectionPattern("RIM STATION INFLOWS", "TOTAL")
)

func buildReservoirTable() []reservoirRule {
	sections := []struct{ key, section string }{
		{"tarbela", "INDUS @ TARBELA"},
		{"mangla", "JHELUM @ MANGLA"},
	}
	rules := make([]reservoirRule, 0, len(sections))
	for _, s := range sections {
		rules = append(rules, reservoirRule{
			key:     s.key,
			level:   sectionPattern(s.section, "LEVEL"),
			inflow:  sectionPattern(s.section, "MEAN INFLOW"),
			outflow: sectionPattern(s.section, "MEAN OUTFLOW"),
		})
	}
	return rules
}

func buildBarrageTable() []barrageRule {
	sections := []struct{ key, section string }{
		{"kalabagh", "KALABAGH"},
		{"chashma", "CHASHMA"},
		{"taunsa", "TAUNSA"},
		{"guddu", "GUDDU"},
		{"sukkur", "SUKKUR"},
		{"kotri", "KOTRI"},
	}
	rules := make([]barrageRule, 0, len(sections))
	for _, s := range sections {
		r := barrageRule{
			key:     s.key,
			inflow:  sectionPattern(s.section, "U/S DISCHARGE"),
			outflow: sectionPattern(s.section, "D/S DISCHARGE"),
		}
		if s.key == "chashma" {
			r.altInflow = sectionPattern(s.section, "MEAN INFLOW")
			r.altOutflow = sectionPattern(s.section, "MEAN OUTFLOW")
		}
		rules = append(rules, r)
	}
	return rules
}

// Parse extracts one structured snapshot from raw bulletin text. The result
// is seeded entirely from the canonical fallback; each field independently
// inherits its seed unless its own pattern matches a positive value. Risk
// labels stay NORMAL: the bulletin carries no threshold data.
func Parse(text string, now time.Time) *model.Snapshot {
	snap := model.Fallback("", now)

	for _, r := range reservoirTable {
		cur := snap.Reservoirs[r.key]
		cur.Level = extractValue(text, r.level, cur.Level)
		cur.Inflow = int(extractValue(text, r.inflow, float64(cur.Inflow)))
		cur.Outflow = int(extractValue(text, r.outflow, float64(cur.Outflow)))
		snap.Reservoirs[r.key] = cur
	}

	// Nowshera reports a single mean discharge used for both directions.
	nowshera := snap.Stations["nowshera"]
	flow := int(extractValue(text, nowsheraDischarge, float64(nowshera.Inflow)))
	snap.Stations["nowshera"] = model.FlowStatus{Inflow: flow, Outflow: flow, Risk: model.RiskNormal}

	marala := snap.Stations["marala"]
	snap.Stations["marala"] = model.FlowStatus{
		Inflow:  int(extractValue(text, maralaUpstream, float64(marala.Inflow))),
		Outflow: int(extractValue(text, maralaDownstream, float64(marala.Outflow))),
		Risk:    model.RiskNormal,
	}

	for _, r := range barrageTable {
		cur := snap.Barrages[r.key]
		defIn, defOut := cur.Inflow, cur.Outflow
		in := int(extractValue(text, r.inflow, float64(defIn)))
		out := int(extractValue(text, r.outflow, float64(defOut)))
		if in == defIn && r.altInflow != nil {
			in = int(extractValue(text, r.altInflow, float64(defIn)))
			out = int(extractValue(text, r.altOutflow, float64(defOut)))
		}
		snap.Barrages[r.key] = model.FlowStatus{Inflow: in, Outflow: out, Risk: model.RiskNormal}
	}

	rim := snap.RIMStations
	rim.TotalInflow = int(extractValue(text, rimTotal, float64(rim.TotalInflow)))
	snap.RIMStations = rim

	return snap
}
