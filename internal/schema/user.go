package schema

import (
	"time"

	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
	"github.com/nekogravitycat/jsonapi-server/internal/user"
)

// UserAttributes is the public profile of a user.
type UserAttributes struct {
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AccountAttributes is what a user sees about their own account.
type AccountAttributes struct {
	Email         string     `json:"email"`
	DisplayName   *string    `json:"displayName"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt"`
	IsSystemAdmin bool       `json:"isSystemAdmin"`
}

func User(l response.Linker, u *user.User) response.Resource {
	return response.Resource{
		Type: TypeUsers,
		ID:   u.ID,
		Attributes: UserAttributes{
			DisplayName: u.Name(),
			CreatedAt:   u.CreatedAt,
		},
		Links: selfLink(l, TypeUsers, u.ID),
	}
}

func Account(l response.Linker, u *user.User) response.Resource {
	return response.Resource{
		Type: TypeUsers,
		ID:   u.ID,
		Attributes: AccountAttributes{
			Email:         u.Email,
			DisplayName:   u.DisplayName,
			CreatedAt:     u.CreatedAt,
			LastLoginAt:   u.LastLoginAt,
			IsSystemAdmin: u.IsSystemAdmin,
		},
		Links: selfLink(l, TypeUsers, u.ID),
	}
}
