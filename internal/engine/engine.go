// Package engine provides the core session scan/chat orchestration pipeline.
package engine

// Severity represents the risk category of a finding or a whole scan.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Finding is a single indicator of potential insecurity derived from
// static inspection of a URL string.
type Finding struct {
	Type           string   `json:"type"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}

// ScanRecord is the immutable result of one scan invocation.
type ScanRecord struct {
	URL        string    `json:"url"`
	Timestamp  int64     `json:"timestamp"` // epoch milliseconds
	Findings   []Finding `json:"vulnerabilities"`
	AIAnalysis string    `json:"aiAnalysis"`
	RiskScore  int       `json:"riskScore"`
	RiskLevel  Severity  `json:"riskLevel"`
	ScannedAt  string    `json:"scannedAt"` // ISO-8601
}

// ChatTurn is one message in a session's chat log.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SessionState holds the bounded, ordered logs for one session.
// Both logs are most-recent-last.
type SessionState struct {
	Scans       []ScanRecord `json:"scans"`
	ChatHistory []ChatTurn   `json:"chatHistory"`
}
