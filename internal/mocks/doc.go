// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of the application service
// interfaces, facilitating consistent and DRY testing across the codebase.
// Instead of defining inline mocks in individual test files, these
// standardized mock implementations can be reused.
//
// Usage:
//
// Import the mocks package in your test file and create the required mock:
//
//	import "github.com/caimi124/tiku-engine/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    mockService := &mocks.MockMasteryReviewService{
//	        RecordOutcomeFn: func(ctx context.Context, userID, pointID uuid.UUID, isCorrect bool, answeredAt time.Time) (*domain.MasteryRecord, error) {
//	            return nil, mastery_review.ErrPointNotFound
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
