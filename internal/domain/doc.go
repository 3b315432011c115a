// Package domain contains the core entities of the mastery engine:
// knowledge points, per-user mastery records, answer outcomes, diagnostic
// attempts, and daily study stats, along with their validation rules.
package domain
