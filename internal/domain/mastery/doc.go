// Package mastery implements the mastery tracker: the pure update rule that
// turns a stream of per-question answer outcomes into a 0-100 mastery score,
// a wrong-question-book flag, and the consecutive-correct mastered flag.
package mastery
