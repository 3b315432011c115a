// Package store defines the persistence interfaces the engine consumes:
// mastery records, the append-only outcome log, diagnostic attempts and
// answers, the question bank, and daily study stats, plus shared transaction
// and error helpers. Implementations live in internal/platform/postgres.
package store
