package dto

// RegisterRequest is the payload for student registration. Registration always
// creates a STUDENT user; staff accounts are seeded or created by a super admin.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"priya.sharma@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"Secret123!"`
	FirstName string `json:"firstName" binding:"required" example:"Priya"`
	LastName  string `json:"lastName" binding:"required" example:"Sharma"`
	Phone     string `json:"phone,omitempty" example:"+919876543210"`
}

// LoginRequest is the payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
	TokenType        string `json:"tokenType" example:"Bearer"`
}

// AuthResponse is returned from register and login.
type AuthResponse struct {
	UserID    int64         `json:"userId"`
	Email     string        `json:"email"`
	RoleType  string        `json:"roleType"`
	StudentID *int64        `json:"studentId,omitempty"`
	Tokens    TokenResponse `json:"tokens"`
}
