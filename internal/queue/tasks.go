package queue

const (
	TypeAuditRecord = "audit:record"
)

// AuditRecordPayload carries one generation record to the worker. The
// record is pre-serialized by the API process so the worker never
// re-derives hashes or retention decisions.
type AuditRecordPayload struct {
	Record []byte `json:"record"` // JSON-encoded models.GenerationRecord
}
