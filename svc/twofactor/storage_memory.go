package twofactor

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStorage is an in-process Storage for tests and local development.
type MemoryStorage struct {
	mu      sync.Mutex
	records map[string]*Record
	now     func() time.Time
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

// cloneRecord deep-copies rec so callers never share slices with the store.
func cloneRecord(rec *Record) *Record {
	c := *rec
	c.Secret.IV = slices.Clone(rec.Secret.IV)
	c.Secret.Data = slices.Clone(rec.Secret.Data)
	c.Secret.Tag = slices.Clone(rec.Secret.Tag)
	c.BackupCodesHash = slices.Clone(rec.BackupCodesHash)
	if rec.LastUsedAt != nil {
		t := *rec.LastUsedAt
		c.LastUsedAt = &t
	}
	if rec.LockoutWindowStartedAt != nil {
		t := *rec.LockoutWindowStartedAt
		c.LockoutWindowStartedAt = &t
	}
	return &c
}

func (s *MemoryStorage) GetRecord(_ context.Context, userID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return cloneRecord(rec), nil
}

func (s *MemoryStorage) UpsertPending(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := cloneRecord(rec)
	next.Verified = false
	next.Enabled = false
	next.FailedAttempts = 0
	next.LockoutWindowStartedAt = nil
	next.LastUsedAt = nil
	next.CreatedAt = now
	next.UpdatedAt = now

	if existing, ok := s.records[rec.UserID]; ok {
		if existing.Verified && existing.Enabled {
			return ErrRecordVerified
		}
		next.ID = existing.ID
		next.CreatedAt = existing.CreatedAt
	}

	s.records[rec.UserID] = next
	return nil
}

func (s *MemoryStorage) MarkVerified(_ context.Context, userID string, secretIV []byte, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok || rec.Verified || !bytes.Equal(rec.Secret.IV, secretIV) {
		return false, nil
	}
	rec.Verified = true
	rec.Enabled = true
	rec.LastUsedAt = &at
	rec.UpdatedAt = at
	return true, nil
}

func (s *MemoryStorage) ReplaceBackupCodes(_ context.Context, userID string, digests []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return ErrRecordNotFound
	}
	rec.BackupCodesHash = slices.Clone(digests)
	rec.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStorage) ConsumeBackupCode(_ context.Context, userID, digest string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return false, nil
	}
	i := slices.Index(rec.BackupCodesHash, digest)
	if i < 0 {
		return false, nil
	}
	rec.BackupCodesHash = slices.Delete(rec.BackupCodesHash, i, i+1)
	rec.UpdatedAt = s.now()
	return true, nil
}

func (s *MemoryStorage) TouchLastUsed(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return ErrRecordNotFound
	}
	rec.LastUsedAt = &at
	rec.UpdatedAt = at
	return nil
}

func (s *MemoryStorage) DeleteRecord(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, userID)
	return nil
}

// IncrementFailedAttempts implements lockout.Counter on the record row.
// It returns ErrRecordNotFound when the user has no record.
func (s *MemoryStorage) IncrementFailedAttempts(_ context.Context, userID string, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return 0, ErrRecordNotFound
	}
	rec.FailedAttempts++
	if rec.LockoutWindowStartedAt == nil {
		rec.LockoutWindowStartedAt = &at
	}
	return rec.FailedAttempts, nil
}

func (s *MemoryStorage) ResetFailedAttempts(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[userID]; ok {
		rec.FailedAttempts = 0
		rec.LockoutWindowStartedAt = nil
	}
	return nil
}
