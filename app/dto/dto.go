package dto

// APIResponse represents the standard API response structure
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail represents error details in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}

// PaginationQuery represents common list pagination parameters
type PaginationQuery struct {
	Page     int `query:"page" validate:"omitempty,min=1" example:"1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100" example:"20"`
}

// Normalize applies defaults and caps to pagination parameters
func (p *PaginationQuery) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset returns the row offset for the current page
func (p *PaginationQuery) Offset() int {
	return (p.Page - 1) * p.PageSize
}
