// internal/workers/matching/notify-match-results/models.go
package notifymatchresults

type Input struct {
	AssignmentID   string `json:"assignmentId"`
	RecipientEmail string `json:"recipientEmail,omitempty"`
	Matches        int    `json:"matches"`
	TotalAnalyzed  int    `json:"totalAnalyzed"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)
