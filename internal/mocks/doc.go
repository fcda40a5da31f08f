// Package mocks provides centralized mock implementations for testing.
//
// Store mocks keep their data in memory and honor the same ownership and
// uniqueness rules as the PostgreSQL stores, so service and router tests can
// run whole request flows without a database. Every method can be overridden
// through its function field.
//
//	taskStore := mocks.NewMockTaskStore()
//	taskStore.DeleteForUserFn = func(ctx context.Context, id, userID int64) error {
//	    return errors.New("boom")
//	}
//
// TestifyMockUserStore is the testify/mock variant for tests that assert on
// exact calls.
package mocks
