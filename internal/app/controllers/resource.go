package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/topicreg/internal/app/repositories"
	"github.com/yigit/topicreg/internal/app/services"
	"github.com/yigit/topicreg/internal/middleware"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
	"github.com/yigit/topicreg/internal/pkg/validation"
)

// Resource serves the create, update, list, fetch and delete routes of one
// entity. T is the stored record and R the request body.
type Resource[T any, R any] struct {
	Service *services.CRUDService[T]

	// One and Many are the envelope keys of single and list responses.
	One  string
	Many string

	// Messages overrides validation messages per JSON field.
	Messages validation.Messages
	// Build turns a validated request into a record.
	Build func(ctx *gin.Context, req *R) (*T, error)
	// Apply copies the updatable fields of candidate onto stored.
	Apply func(stored, candidate *T)
	// ListQuery selects and orders the rows returned by List.
	ListQuery repositories.Query
}

// parseID reads the :id path parameter.
func parseID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid id")
	}
	return id, nil
}

func (r *Resource[T, R]) build(ctx *gin.Context) (*T, error) {
	var req R
	if err := middleware.BindAndValidate(ctx, &req, r.Messages); err != nil {
		return nil, err
	}
	return r.Build(ctx, &req)
}

// Create validates the body, checks uniqueness and stores the record.
func (r *Resource[T, R]) Create(ctx *gin.Context) {
	rec, err := r.build(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := r.Service.Create(ctx.Request.Context(), rec); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{r.One: rec})
}

// Update replaces the record named by :id and returns it as reloaded.
func (r *Resource[T, R]) Update(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	candidate, err := r.build(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	rec, err := r.Service.Update(ctx.Request.Context(), id, candidate, r.Apply)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{r.One: rec})
}

// List returns every record under the Many key.
func (r *Resource[T, R]) List(ctx *gin.Context) {
	recs, err := r.Service.List(ctx.Request.Context(), r.ListQuery)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{r.Many: recs})
}

// Fetch returns the bare record named by :id, or null when it does not exist.
func (r *Resource[T, R]) Fetch(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	rec, err := r.Service.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rec)
}

// Delete removes the record named by :id. Deleting a missing record succeeds.
func (r *Resource[T, R]) Delete(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := r.Service.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
