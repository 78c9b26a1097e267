package dto

type CheckinStatusResponse struct {
	OK             bool   `json:"ok"`
	Today          string `json:"today"`
	CheckedInToday bool   `json:"checkedInToday"`
	TotalDays      int64  `json:"totalDays"`
	Points         int64  `json:"points"`
}

type CheckinResponse struct {
	OK             bool   `json:"ok"`
	Today          string `json:"today"`
	CheckedInToday bool   `json:"checkedInToday"`
	GainedPoints   int    `json:"gainedPoints"`
	TotalDays      int64  `json:"totalDays"`
	Points         int64  `json:"points"`
}
