package models

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== ACCOUNT RESPONSES =====

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type IDAvailabilityResponse struct {
	Available bool `json:"available"`
}

type UserListResponse struct {
	Users []*User `json:"users"`
	Total int64   `json:"total"`
}

// ===== DEVICE RESPONSES =====

type DeviceListResponse struct {
	Devices []*Device `json:"devices"`
	Total   int64     `json:"total"`
}

type RentalHistoryListResponse struct {
	Records []*RentalHistory `json:"records"`
	Total   int64            `json:"total"`
}
