/*
aggregate.go - Totals over a set of daily records

PURPOSE:
  Sums a collection of records into one TotalsSummary, used by both the
  on-screen summary and the Excel export.

CONTRACT:
  The derived totals (Total, Traite, EnCours) are sums of each record's
  own derived values, NOT values re-derived from the summed counters.
  The two happen to agree because the derivation is linear, but the
  contract keeps the totals row consistent with the per-day figures it
  sits beside, whatever the derivation becomes.
*/
package stats

// Sum returns the componentwise totals over records. Empty input yields
// an all-zero summary. Pure function; record order does not matter.
func Sum(records []DailyRecord) TotalsSummary {
	var t TotalsSummary
	for _, rec := range records {
		t.Appel += rec.Appel
		t.Jira += rec.Jira
		t.Mail += rec.Mail
		t.Escalade += rec.Escalade
		t.P1 += rec.P1
		t.P2 += rec.P2
		t.P3 += rec.P3
		t.P4 += rec.P4

		t.Total += rec.Total()
		t.Traite += rec.Traite()
		t.EnCours += rec.EnCours()
	}
	return t
}
