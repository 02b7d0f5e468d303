package transport

import "time"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type MeResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type PatchUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type SliderRequest struct {
	Title        string `json:"title"        form:"title"`
	Description  string `json:"description"  form:"description"`
	ImageURL     string `json:"imageUrl"     form:"imageUrl"`
	DisplayOrder int    `json:"displayOrder" form:"displayOrder"`
	Active       *bool  `json:"active"       form:"active"`
}

type PatchSliderRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
	DisplayOrder *int    `json:"displayOrder"`
	Active       *bool   `json:"active"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
