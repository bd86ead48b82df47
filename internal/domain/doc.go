// Package domain models flood-risk assessments and community alerts.
//
// # Risk Classification
//
// Risk is derived from 24-hour accumulated rainfall using fixed operational
// thresholds (the "simple_rules" method):
//
//	> 100 mm   high    score = min(90, 60 + floor(rainfall - 100))
//	> 50 mm    medium  score = 30 + floor(rainfall - 50)
//	<= 50 mm   low     score = max(10, floor(rainfall))
//
// Scores are integers on a 0-100 scale, correlated with but not identical to
// the categorical level. Assessments carry the rainfall figure and method in
// their factors map and are valid until the end of the following day.
//
// The "critical" level exists only for issuer-supplied alerts; the engine
// never produces it.
//
// # Alerts
//
// An Alert is the record of an authority-issued warning. Its free-text region
// is resolved against the region directory by case-insensitive substring
// match (first hit wins) to link an AlertHistoryEntry; when no region
// matches, the alert is still recorded but no history entry is written.
// A history entry's SentToCount counts distinct recipients for whom at least
// one channel delivery succeeded, never individual sends.
//
// # Phone Numbers
//
// Recipient identifiers are bare digit strings, 8-15 digits, with
// separators and a leading "+" stripped by [SanitizePhone].
package domain
