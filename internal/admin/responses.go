package admin

import audit "contesthub/pkg/platform/audit"

// AuditListResponse wraps recent audit events for the HTTP response.
type AuditListResponse struct {
	Events []audit.Event `json:"events"`
	Total  int           `json:"total"`
}
