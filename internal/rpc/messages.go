package rpc

// CheckAuthorizationRequest asks whether Subject may perform Action.
// Subject is the §3/§4.1 variant-tagged text form
// ("unix-process:<pid>:<start_time>", "unix-session:<id>", ...).
type CheckAuthorizationRequest struct {
	ActionID          string `json:"action_id"`
	Subject           string `json:"subject"`
	RevokeIfOneShot   bool   `json:"revoke_if_one_shot"`
	AllowInteractive  bool   `json:"allow_interactive"`
}

// CheckAuthorizationResponse is the composed result: the decision
// engine's two booleans plus the catalog-driven outcome a caller
// without direct engine access needs.
type CheckAuthorizationResponse struct {
	IsAuthorized bool   `json:"is_authorized"`
	IsChallenge  bool   `json:"is_challenge"`
	Dismissed    bool   `json:"dismissed"`
	Detail       string `json:"detail,omitempty"`
}

// EnumerateActionsRequest has no fields; reserved for future filters.
type EnumerateActionsRequest struct{}

// EnumerateActionsResponse lists every action id known to the catalog.
type EnumerateActionsResponse struct {
	ActionIDs []string `json:"action_ids"`
}

// RevokeRequest names a record to revoke by its uid and verbatim raw
// line, matching the revoke-helper's argv contract (§6).
type RevokeRequest struct {
	UID     uint32 `json:"uid"`
	RawLine string `json:"raw_line"`
}

// RevokeResponse is empty on success; failures surface as a grpc status.
type RevokeResponse struct{}

// InvalidateRequest has no fields.
type InvalidateRequest struct{}

// InvalidateResponse is empty.
type InvalidateResponse struct{}

// TemporaryAuthorizationsRequest asks for the expiring grants of a uid.
type TemporaryAuthorizationsRequest struct {
	UID uint32 `json:"uid"`
}

// TemporaryAuthorization is one wire-rendered, non-permanent record.
type TemporaryAuthorization struct {
	ActionID  string `json:"action_id"`
	Scope     string `json:"scope"`
	WhenGranted int64 `json:"when_granted"`
}

// TemporaryAuthorizationsResponse lists a uid's expiring grants.
type TemporaryAuthorizationsResponse struct {
	Authorizations []TemporaryAuthorization `json:"authorizations"`
}
