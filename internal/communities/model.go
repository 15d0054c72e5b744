package communities

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	TypePublic  = "public"
	TypePrivate = "private"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Community struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	InviteCode  string    `json:"invite_code,omitempty"`
	CreatedBy   int       `json:"created_by"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Member struct {
	UserID      int       `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type CreateRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.Type, validation.Required, validation.In(TypePublic, TypePrivate)),
	)
}

type JoinByCodeRequest struct {
	InviteCode string `json:"invite_code"`
}

func (r JoinByCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InviteCode, validation.Required, validation.Length(6, 6)),
	)
}
