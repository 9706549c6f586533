package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/app/repositories"
	"github.com/yigit/topicreg/internal/app/services"
	"github.com/yigit/topicreg/internal/middleware"
	"github.com/yigit/topicreg/internal/pkg/validation"
)

// GroupController handles group and membership operations
type GroupController struct {
	groups            *Resource[models.Group, dto.GroupRequest]
	memberships       *Resource[models.Membership, dto.MembershipRequest]
	membershipService *services.CRUDService[models.Membership]
}

// NewGroupController creates a new GroupController
func NewGroupController(groups *services.CRUDService[models.Group], memberships *services.CRUDService[models.Membership]) *GroupController {
	return &GroupController{
		groups: &Resource[models.Group, dto.GroupRequest]{
			Service:  groups,
			One:      "group",
			Many:     "groups",
			Messages: validation.Messages{"group_name": "group name undefined"},
			Build: func(_ *gin.Context, req *dto.GroupRequest) (*models.Group, error) {
				return &models.Group{GroupName: req.GroupName}, nil
			},
			ListQuery: repositories.Query{OrderBy: []repositories.Order{{Column: "id"}}},
		},
		memberships: &Resource[models.Membership, dto.MembershipRequest]{
			Service: memberships,
			One:     "membership",
			Many:    "memberships",
			Build: func(_ *gin.Context, req *dto.MembershipRequest) (*models.Membership, error) {
				return &models.Membership{
					Role:          &req.Role,
					StudentNumber: &req.StudentNumber,
					GroupID:       &req.GroupID,
				}, nil
			},
			ListQuery: repositories.Query{OrderBy: []repositories.Order{{Column: "id"}}},
		},
		membershipService: memberships,
	}
}

// CreateGroup handles group creation
// @Summary Create a group
// @Description Creates a group with a unique name
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GroupRequest true "Group name"
// @Success 200 {object} map[string]models.Group "Created group under the group key"
// @Failure 400 {object} dto.ErrorResponse "Missing or duplicate group name"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Database error"
// @Router /groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	c.groups.Create(ctx)
}

// ListGroups returns every group
// @Summary List groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.Group
// @Failure 403 {object} dto.ErrorResponse "Admin privileges required"
// @Router /groups [get]
func (c *GroupController) ListGroups(ctx *gin.Context) {
	c.groups.List(ctx)
}

// DeleteGroup removes a group; its memberships are removed with it
// @Summary Delete a group
// @Tags groups
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Router /groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	c.groups.Delete(ctx)
}

// CreateMembership adds a student to a group
// @Summary Create a membership
// @Tags memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MembershipRequest true "Membership"
// @Success 200 {object} map[string]models.Membership
// @Failure 400 {object} dto.ErrorResponse "Missing field"
// @Router /memberships [post]
func (c *GroupController) CreateMembership(ctx *gin.Context) {
	c.memberships.Create(ctx)
}

// ListMemberships returns every membership
// @Summary List memberships
// @Tags memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.Membership
// @Router /memberships [get]
func (c *GroupController) ListMemberships(ctx *gin.Context) {
	c.memberships.List(ctx)
}

// ListGroupMemberships returns the memberships of one group
// @Summary List memberships of a group
// @Tags memberships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} map[string][]models.Membership
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Router /memberships/group/{id} [get]
func (c *GroupController) ListGroupMemberships(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	memberships, err := c.membershipService.List(ctx.Request.Context(), repositories.Query{
		Where:   repositories.Eq("group_id", id),
		OrderBy: []repositories.Order{{Column: "id"}},
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

// DeleteMembership removes a membership
// @Summary Delete a membership
// @Tags memberships
// @Security BearerAuth
// @Param id path int true "Membership ID"
// @Success 204
// @Router /memberships/{id} [delete]
func (c *GroupController) DeleteMembership(ctx *gin.Context) {
	c.memberships.Delete(ctx)
}
