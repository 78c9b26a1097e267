package dto

type SyncUserResponse struct {
	OK        bool   `json:"ok"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}
