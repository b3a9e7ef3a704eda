package validator

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	ID              string `json:"id" validate:"required,min=3,max=64,account_id"`
	Name            string `json:"name" validate:"required,max=100"`
	Affiliation     string `json:"affiliation" validate:"required,max=200"`
	Position        string `json:"position" validate:"required,known_position"`
	Password        string `json:"password" validate:"required,min=6,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type CheckIDRequest struct {
	ID string `json:"id" validate:"required,min=3,max=64"`
}

type LoginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ApproveUserRequest struct {
	ID      string `json:"id" validate:"required"`
	IsAdmin bool   `json:"is_admin"`
}

type RejectUserRequest struct {
	ID     string `json:"id" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

type DeleteUserRequest struct {
	ID     string `json:"id" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

// DeviceRegisterRequest is the payload for adding a device to the pool.
type DeviceRegisterRequest struct {
	SerialNumber string `json:"serial_number" validate:"required,max=64"`
	DeviceInfo   string `json:"device_info" validate:"max=500"`
	OSName       string `json:"os_name" validate:"required,max=100"`
	OSVersion    string `json:"os_version" validate:"max=100"`
	ModelName    string `json:"model_name" validate:"max=100"`
}

type DeviceDeleteRequest struct {
	SerialNumber string `json:"serial_number" validate:"required"`
}

type DeviceStatusRequest struct {
	SerialNumber string `json:"serial_number" validate:"required"`
	Status       string `json:"status" validate:"required,oneof=active repair inactive"`
	StatusReason string `json:"status_reason" validate:"max=500"`
}

type RentDeviceRequest struct {
	DeviceID string `json:"device_id" validate:"required"`
	Remark   string `json:"remark" validate:"max=500"`
}

type ReturnDeviceRequest struct {
	DeviceID     string `json:"device_id" validate:"required"`
	Status       string `json:"status" validate:"omitempty,oneof=active repair inactive"`
	StatusReason string `json:"status_reason" validate:"max=500"`
}

// HistoryExportRequest selects the export window. Either a named period or an
// explicit start/end pair; explicit dates win when both are present.
type HistoryExportRequest struct {
	Period    string `json:"period" validate:"omitempty,oneof=week month"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}
