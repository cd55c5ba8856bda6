// Package lockout caps consecutive failed second-factor verifications per
// user.
//
// A Guard reserves an attempt through Counter.IncrementFailedAttempts before
// the caller validates a code, and refuses the attempt with
// ErrTooManyAttempts once the returned count exceeds MaxAttempts. Because the
// increment happens first and is atomic, parallel guesses cannot slip past
// the ceiling. A successful verification calls Reset. Counts never expire on
// their own.
//
//	guard := lockout.New(counter, lockout.WithMaxAttempts(5))
//	if _, err := guard.RecordFailureAndCheck(ctx, userID); err != nil {
//		return err // ErrTooManyAttempts or ErrCounterFailed
//	}
//	if !valid(code) {
//		return nil
//	}
//	return guard.Reset(ctx, userID)
//
// Counters: MemoryCounter (process-local), RedisCounter (INCR and SETNX in
// one MULTI/EXEC), and the two-factor record storage itself.
package lockout
