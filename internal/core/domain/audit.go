package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
)

// AuditAction is the kind of mutation an audit record describes.
type AuditAction string

const (
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
	ActionPost   AuditAction = "POST"
)

// IsValid reports whether a is a known action.
func (a AuditAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionPost:
		return true
	default:
		return false
	}
}

// AuditEntityType names the kind of entity an audit record refers to.
type AuditEntityType string

const (
	EntityAccount      AuditEntityType = "Account"
	EntityFiscalPeriod AuditEntityType = "FiscalPeriod"
	EntityJournalEntry AuditEntityType = "JournalEntry"
	EntityTier         AuditEntityType = "Tier"
)

// IsValid reports whether t is a known entity type.
func (t AuditEntityType) IsValid() bool {
	switch t {
	case EntityAccount, EntityFiscalPeriod, EntityJournalEntry, EntityTier:
		return true
	default:
		return false
	}
}

// GenesisHash is the previousHash of the first record of every tenant chain.
var GenesisHash = strings.Repeat("0", sha256.Size*2)

// AuditRecord is one link of a tenant's append-only hash chain.
type AuditRecord struct {
	TenantID     string          `json:"tenantID"`
	SequenceID   int64           `json:"sequenceID"` // Starts at 1 per tenant
	Timestamp    time.Time       `json:"timestamp"`
	Actor        string          `json:"actor"`
	Action       AuditAction     `json:"action"`
	EntityType   AuditEntityType `json:"entityType"`
	EntityID     string          `json:"entityID"`
	Details      string          `json:"details"`
	Hash         string          `json:"hash"`
	PreviousHash string          `json:"previousHash"`
}

// NormalizeAuditTimestamp returns t in UTC truncated to microseconds, the precision
// every store can round-trip without altering the hashed text.
func NormalizeAuditTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// ComputeAuditHash hashes timestamp, actor, entityType, details and previousHash.
// Each field is written as an 8-byte big-endian length followed by its bytes so that
// no two distinct field tuples serialize identically.
func ComputeAuditHash(timestamp time.Time, actor string, entityType AuditEntityType, details, previousHash string) string {
	h := sha256.New()
	fields := []string{
		NormalizeAuditTimestamp(timestamp).Format(time.RFC3339Nano),
		actor,
		string(entityType),
		details,
		previousHash,
	}
	var size [8]byte
	for _, f := range fields {
		binary.BigEndian.PutUint64(size[:], uint64(len(f)))
		h.Write(size[:])
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RecomputeHash returns the hash the record should carry given its stored fields.
func (r AuditRecord) RecomputeHash() string {
	return ComputeAuditHash(r.Timestamp, r.Actor, r.EntityType, r.Details, r.PreviousHash)
}

// VerifyStatus is the per-record outcome of a chain verification.
type VerifyStatus string

const (
	VerifyValid        VerifyStatus = "VALID"
	VerifyHashMismatch VerifyStatus = "HASH_MISMATCH" // Content was altered
	VerifyChainBreak   VerifyStatus = "CHAIN_BREAK"   // Link altered or a record deleted/inserted
)

// RecordVerification is the verdict for one record.
type RecordVerification struct {
	SequenceID   int64        `json:"sequenceID"`
	Status       VerifyStatus `json:"status"`
	StoredHash   string       `json:"storedHash"`
	ComputedHash string       `json:"computedHash"`
}

// VerifyReport is the outcome of walking a range of the chain.
type VerifyReport struct {
	TenantID string               `json:"tenantID"`
	FromSeq  int64                `json:"fromSeq"`
	ToSeq    int64                `json:"toSeq"`
	Intact   bool                 `json:"intact"`
	Records  []RecordVerification `json:"records"`
}

// Err reports the first failing record as ErrHashMismatch or ErrChainBreak, or nil
// when the range is intact.
func (r *VerifyReport) Err() error {
	for _, rec := range r.Records {
		switch rec.Status {
		case VerifyHashMismatch:
			return fmt.Errorf("%w: sequence %d", apperrors.ErrHashMismatch, rec.SequenceID)
		case VerifyChainBreak:
			return fmt.Errorf("%w: sequence %d", apperrors.ErrChainBreak, rec.SequenceID)
		}
	}
	if !r.Intact {
		return fmt.Errorf("%w: tenant %s", apperrors.ErrIntegrity, r.TenantID)
	}
	return nil
}

// VerifyChain checks records, given in ascending sequence order, against each other.
// anchorHash is the stored hash of the record immediately preceding records[0], or
// GenesisHash when the range starts at the beginning of the chain.
//
// Once a record fails, every later record is reported as ChainBreak since its
// ancestry can no longer be trusted.
func VerifyChain(records []AuditRecord, anchorHash string) ([]RecordVerification, bool) {
	results := make([]RecordVerification, 0, len(records))
	expectedPrev := anchorHash
	var expectedSeq int64
	if len(records) > 0 {
		expectedSeq = records[0].SequenceID
	}
	broken := false

	for _, r := range records {
		computed := r.RecomputeHash()
		status := VerifyValid
		switch {
		case computed != r.Hash:
			status = VerifyHashMismatch
		case broken, r.PreviousHash != expectedPrev, r.SequenceID != expectedSeq:
			status = VerifyChainBreak
		}
		if status != VerifyValid {
			broken = true
		}
		results = append(results, RecordVerification{
			SequenceID:   r.SequenceID,
			Status:       status,
			StoredHash:   r.Hash,
			ComputedHash: computed,
		})
		expectedPrev = r.Hash
		expectedSeq = r.SequenceID + 1
	}
	return results, !broken
}
