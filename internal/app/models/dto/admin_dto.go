package dto

// SystemConfigRequest upserts one runtime tunable.
type SystemConfigRequest struct {
	Key   string `json:"key" binding:"required" example:"max_applications_per_user"`
	Value string `json:"value" binding:"required" example:"5"`
	Type  string `json:"type" binding:"required,oneof=string int float bool" example:"int"`
}

// SetUserActiveRequest enables or disables an account.
type SetUserActiveRequest struct {
	Active bool `json:"active"`
}
