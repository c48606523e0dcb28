package bulletin

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the dd-mm-yyyy form embedded in bulletin filenames,
// e.g. http://pakirsa.gov.pk/Doc/Data05-12-2025.pdf.
const dateLayout = "02-01-2006"

// Candidate is one dated bulletin URL to probe.
type Candidate struct {
	Label string
	URL   string
}

// Candidates returns bulletin URLs for the base day and the preceding
// lookback days, most recent first. Pure function of the base instant.
func Candidates(baseURL string, base time.Time, lookback int) []Candidate {
	if lookback < 0 {
		lookback = 0
	}
	base = base.Local()
	out := make([]Candidate, 0, lookback+1)
	for i := 0; i <= lookback; i++ {
		label := base.AddDate(0, 0, -i).Format(dateLayout)
		out = append(out, Candidate{
			Label: label,
			URL:   fmt.Sprintf("%s/Doc/Data%s.pdf", strings.TrimSuffix(baseURL, "/"), label),
		})
	}
	return out
}
