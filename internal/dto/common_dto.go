package dto

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
