// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"bullionledger/internal/core/entity"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Base DTOs ---

// BaseResponse contains common response fields.
type BaseResponse struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// CatalogResponse contains catalog fields.
type CatalogResponse struct {
	BaseResponse
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// FromCatalog creates CatalogResponse from entity.BaseCatalog.
func FromCatalog(c entity.BaseCatalog) CatalogResponse {
	return CatalogResponse{
		BaseResponse: BaseResponse{ID: c.ID.String(), Version: c.Version},
		Code:         c.Code,
		Name:         c.Name,
		IsActive:     c.IsActive,
	}
}

// CreateCatalogRequest carries the shared fields of a new catalog item.
type CreateCatalogRequest struct {
	Code string `json:"code" binding:"required,max=50"`
	Name string `json:"name" binding:"required,max=200"`
}

// UpdateCatalogRequest carries the shared fields of a catalog edit.
// Version must match the stored row.
type UpdateCatalogRequest struct {
	Code     *string `json:"code"`
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
	Version  int     `json:"version" binding:"required,min=1"`
}

// ApplyTo copies set fields onto c.
func (r UpdateCatalogRequest) ApplyTo(c *entity.BaseCatalog) {
	if r.Code != nil {
		c.Code = *r.Code
	}
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
	c.Version = r.Version
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
