// User model definition
package users

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type User struct {
	ID          int       `json:"id"`
	AuthID      string    `json:"auth_id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Timezone    string    `json:"timezone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Token       string    `json:"token,omitempty"`
}

// SyncRequest is sent by the client after it authenticates with the
// identity provider. Provisions the user plus reading-state and streak
// rows on first sight of an auth id.
type SyncRequest struct {
	AuthID      string `json:"auth_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Timezone    string `json:"timezone"`
}

func (r SyncRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthID, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.DisplayName, validation.Length(0, 50)),
	)
}

type UpdateProfileRequest struct {
	DisplayName  *string `json:"display_name"`
	AvatarURL    *string `json:"avatar_url"`
	Timezone     *string `json:"timezone"`
	ReminderTime *string `json:"reminder_time"` // "HH:mm", empty string clears
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Length(1, 50)),
		validation.Field(&r.ReminderTime, validation.Date("15:04")),
	)
}
