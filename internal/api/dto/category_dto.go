package dto

import (
	"time"

	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/pkg/util"
)

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
}

// UpdateCategoryRequest is a partial patch; absent fields are untouched,
// explicit null clears description or re-roots the category.
type UpdateCategoryRequest struct {
	Name        util.Optional[string] `json:"name"`
	Description util.Optional[string] `json:"description"`
	ParentID    util.Optional[string] `json:"parentId"`
}

// CategoryResponse mirrors a category node with its direct ticket count.
type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	ParentID     *string   `json:"parentId"`
	TenantID     string    `json:"tenantId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	TicketsCount int       `json:"ticketsCount"`
}

// CategoryFromDomain converts a domain category.
func CategoryFromDomain(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ParentID:     c.ParentID,
		TenantID:     c.TenantID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		TicketsCount: c.TicketsCount,
	}
}
