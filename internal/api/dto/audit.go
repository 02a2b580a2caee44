package dto

// AuditLogsResponse represents audit logs.
type AuditLogsResponse struct {
	// Logs is the list of audit entries, oldest first.
	Logs []AuditEntry `json:"logs"`

	// Limit is the maximum number of entries requested; 0 means all.
	Limit int `json:"limit"`
}

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	// Timestamp is when the event occurred.
	Timestamp string `json:"timestamp"`

	// Operation is the event type.
	Operation string `json:"operation"`

	// Subject is the object of the event (suite path, token id, ...).
	Subject string `json:"subject,omitempty"`

	// Details contains event-specific details.
	Details map[string]string `json:"details,omitempty"`

	// Success indicates if the operation succeeded.
	Success bool `json:"success"`

	// Hash is the entry hash for verification.
	Hash string `json:"hash,omitempty"`
}

// AuditVerifyResponse represents audit verification result.
type AuditVerifyResponse struct {
	// Valid indicates if the audit log is valid.
	Valid bool `json:"valid"`

	// Errors lists verification errors.
	Errors []string `json:"errors,omitempty"`

	// EntryCount is the number of entries verified.
	EntryCount int `json:"entry_count"`
}
