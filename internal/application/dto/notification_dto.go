package dto

// TestNotificationRequest cuerpo opcional de POST /api/test-notification.
type TestNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type" validate:"omitempty,oneof=info success warning error"`
}
