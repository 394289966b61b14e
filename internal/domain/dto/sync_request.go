package dto

// SyncRequest is the JSON body of POST /api/v1/sync.
//
// AccessToken is the already-decrypted broker token; it is consumed for the
// single upstream call and never persisted or logged.
//
// Force re-imports a trading day that is already in the sync log, rolling
// back the previously imported batch first.
//
// swagger:model SyncRequest
type SyncRequest struct {
	AccountID   string `json:"account_id" binding:"required,uuid" example:"8f14e45f-ceea-4e07-8c65-1d0b0f4f4c61"`
	Broker      string `json:"broker" binding:"required" example:"zerodha"`
	AccessToken string `json:"access_token" binding:"required"`
	Force       bool   `json:"force" example:"false"`
}
