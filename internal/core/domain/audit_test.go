package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChain(t *testing.T, n int) []domain.AuditRecord {
	t.Helper()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	prev := domain.GenesisHash
	records := make([]domain.AuditRecord, 0, n)
	for i := 1; i <= n; i++ {
		r := domain.AuditRecord{
			TenantID:     "tenant",
			SequenceID:   int64(i),
			Timestamp:    base.Add(time.Duration(i) * time.Second),
			Actor:        "alice",
			Action:       domain.ActionCreate,
			EntityType:   domain.EntityJournalEntry,
			EntityID:     fmt.Sprintf("entry-%d", i),
			Details:      fmt.Sprintf("created entry %d", i),
			PreviousHash: prev,
		}
		r.Hash = r.RecomputeHash()
		prev = r.Hash
		records = append(records, r)
	}
	return records
}

func TestGenesisHash(t *testing.T) {
	assert.Len(t, domain.GenesisHash, 64)
	for _, c := range domain.GenesisHash {
		assert.Equal(t, '0', c)
	}
}

func TestComputeAuditHash(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 123456789, time.UTC)

	h := domain.ComputeAuditHash(ts, "alice", domain.EntityAccount, "details", domain.GenesisHash)
	assert.Len(t, h, 64)
	assert.Equal(t, h, domain.ComputeAuditHash(ts, "alice", domain.EntityAccount, "details", domain.GenesisHash), "deterministic")

	t.Run("sub-microsecond digits are ignored", func(t *testing.T) {
		assert.Equal(t, h, domain.ComputeAuditHash(ts.Truncate(time.Microsecond), "alice", domain.EntityAccount, "details", domain.GenesisHash))
	})

	t.Run("time zone is normalized", func(t *testing.T) {
		loc := time.FixedZone("UTC+1", 3600)
		assert.Equal(t, h, domain.ComputeAuditHash(ts.In(loc), "alice", domain.EntityAccount, "details", domain.GenesisHash))
	})

	t.Run("every field participates", func(t *testing.T) {
		assert.NotEqual(t, h, domain.ComputeAuditHash(ts.Add(time.Second), "alice", domain.EntityAccount, "details", domain.GenesisHash))
		assert.NotEqual(t, h, domain.ComputeAuditHash(ts, "bob", domain.EntityAccount, "details", domain.GenesisHash))
		assert.NotEqual(t, h, domain.ComputeAuditHash(ts, "alice", domain.EntityTier, "details", domain.GenesisHash))
		assert.NotEqual(t, h, domain.ComputeAuditHash(ts, "alice", domain.EntityAccount, "detail", domain.GenesisHash))
		assert.NotEqual(t, h, domain.ComputeAuditHash(ts, "alice", domain.EntityAccount, "details", h))
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		a := domain.ComputeAuditHash(ts, "ab", domain.EntityAccount, "c", domain.GenesisHash)
		b := domain.ComputeAuditHash(ts, "a", domain.EntityAccount, "bc", domain.GenesisHash)
		assert.NotEqual(t, a, b)
	})
}

func TestVerifyChain(t *testing.T) {
	t.Run("untouched chain is valid", func(t *testing.T) {
		records := buildChain(t, 5)
		results, intact := domain.VerifyChain(records, domain.GenesisHash)
		require.Len(t, results, 5)
		assert.True(t, intact)
		for _, r := range results {
			assert.Equal(t, domain.VerifyValid, r.Status)
		}
	})

	t.Run("empty chain is intact", func(t *testing.T) {
		results, intact := domain.VerifyChain(nil, domain.GenesisHash)
		assert.Empty(t, results)
		assert.True(t, intact)
	})

	t.Run("tampered details flag the record and everything after it", func(t *testing.T) {
		records := buildChain(t, 6)
		records[2].Details = "created entry 3 for a different amount"

		results, intact := domain.VerifyChain(records, domain.GenesisHash)
		assert.False(t, intact)
		assert.Equal(t, domain.VerifyValid, results[0].Status)
		assert.Equal(t, domain.VerifyValid, results[1].Status)
		assert.Equal(t, domain.VerifyHashMismatch, results[2].Status)
		for _, r := range results[3:] {
			assert.Equal(t, domain.VerifyChainBreak, r.Status, "seq %d", r.SequenceID)
		}
	})

	t.Run("altered previous hash is a chain break", func(t *testing.T) {
		records := buildChain(t, 3)
		records[1].PreviousHash = domain.GenesisHash
		records[1].Hash = records[1].RecomputeHash()

		results, intact := domain.VerifyChain(records, domain.GenesisHash)
		assert.False(t, intact)
		assert.Equal(t, domain.VerifyValid, results[0].Status)
		assert.Equal(t, domain.VerifyChainBreak, results[1].Status)
		assert.Equal(t, domain.VerifyChainBreak, results[2].Status)
	})

	t.Run("deleted record is a chain break", func(t *testing.T) {
		records := buildChain(t, 4)
		records = append(records[:1], records[2:]...)

		results, intact := domain.VerifyChain(records, domain.GenesisHash)
		assert.False(t, intact)
		assert.Equal(t, domain.VerifyValid, results[0].Status)
		assert.Equal(t, domain.VerifyChainBreak, results[1].Status)
		assert.Equal(t, domain.VerifyChainBreak, results[2].Status)
	})

	t.Run("range anchored on the preceding hash", func(t *testing.T) {
		records := buildChain(t, 5)
		results, intact := domain.VerifyChain(records[2:], records[1].Hash)
		assert.True(t, intact)
		assert.Len(t, results, 3)

		_, intact = domain.VerifyChain(records[2:], domain.GenesisHash)
		assert.False(t, intact)
	})
}

func TestVerifyReport_Err(t *testing.T) {
	records := buildChain(t, 3)
	results, intact := domain.VerifyChain(records, domain.GenesisHash)
	report := &domain.VerifyReport{TenantID: "tenant", Intact: intact, Records: results}
	assert.NoError(t, report.Err())

	records[1].PreviousHash = domain.GenesisHash
	records[1].Hash = records[1].RecomputeHash()
	results, intact = domain.VerifyChain(records, domain.GenesisHash)
	report = &domain.VerifyReport{TenantID: "tenant", Intact: intact, Records: results}
	err := report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrChainBreak)
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	assert.NotErrorIs(t, err, apperrors.ErrHashMismatch)
	assert.Contains(t, err.Error(), "sequence 2")
}
