package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kofiasare/susu/internal/app/models/dto"
	"github.com/kofiasare/susu/internal/app/services"
	"github.com/kofiasare/susu/internal/middleware"
	"github.com/kofiasare/susu/internal/pkg/helpers"
)

// CommunityController handles savings circle operations
type CommunityController struct {
	communityService *services.CommunityService
	walletService    *services.WalletService
	logger           zerolog.Logger
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(
	communityService *services.CommunityService,
	walletService *services.WalletService,
	logger zerolog.Logger,
) *CommunityController {
	return &CommunityController{
		communityService: communityService,
		walletService:    walletService,
		logger:           logger,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid id parameter").
			WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// Create creates a new savings circle
// @Summary Create community
// @Description Creates a savings circle with the caller as admin and first member
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommunityRequest true "Community settings"
// @Success 201 {object} dto.APIResponse{data=dto.CommunityResponse} "Community created"
// @Router /communities [post]
func (c *CommunityController) Create(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateCommunityRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.communityService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// List retrieves communities visible to the caller
// @Summary List communities
// @Description Lists public communities, or the caller's own with scope=my
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param scope query string false "Scope: public or my"
// @Param search query string false "Name or description search"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityListResponse} "Communities"
// @Router /communities [get]
func (c *CommunityController) List(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)
	filter := &dto.CommunityFilter{
		Scope:    ctx.Query("scope"),
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	}
	if search := ctx.Query("search"); search != "" {
		filter.Search = &search
	}

	resp, err := c.communityService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetDetails retrieves the full detail view of a community
// @Summary Get community details
// @Description Returns a community with its members, current cycle and the caller's status
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityDetailResponse} "Community details"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id} [get]
func (c *CommunityController) GetDetails(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.communityService.GetDetails(ctx.Request.Context(), communityID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateSettings applies a partial settings update
// @Summary Update community settings
// @Description Updates mutable community settings, admin only
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.UpdateCommunityRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityResponse} "Updated community"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the community admin"
// @Router /communities/{id} [patch]
func (c *CommunityController) UpdateSettings(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommunityRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.communityService.UpdateSettings(ctx.Request.Context(), communityID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Join admits the caller into a community
// @Summary Join community
// @Description Joins the caller to a community, assigning the next payout position
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.JoinCommunityResponse} "Joined"
// @Failure 409 {object} dto.ErrorResponse "Community full or already a member"
// @Router /communities/{id}/join [post]
func (c *CommunityController) Join(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.communityService.Join(ctx.Request.Context(), communityID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Contribute pays into a community from the caller's wallet
// @Summary Contribute to community
// @Description Debits the caller's wallet and applies the contribution to the community pool
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.ContributionRequest true "Contribution amount"
// @Success 200 {object} dto.APIResponse{data=dto.WalletBalanceResponse} "Updated wallet balance"
// @Failure 400 {object} dto.ErrorResponse "Amount below minimum or insufficient balance"
// @Router /communities/{id}/contributions [post]
func (c *CommunityController) Contribute(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ContributionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.walletService.Contribute(ctx.Request.Context(), userID, communityID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Payout credits a member for a payout slot
// @Summary Trigger payout
// @Description Pays a member for a payout slot and marks it complete, admin only
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.PayoutRequest true "Payout details"
// @Success 200 {object} dto.APIResponse "Payout completed"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the community admin"
// @Router /communities/{id}/payouts [post]
func (c *CommunityController) Payout(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.PayoutRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.communityService.Payout(ctx.Request.Context(), communityID, userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Payout completed"))
}

// ApplyPenalty applies a penalty to a member
// @Summary Apply penalty
// @Description Debits a member's wallet as a penalty and grows the backup fund, admin only
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.PenaltyRequest true "Penalty details"
// @Success 200 {object} dto.APIResponse "Penalty applied"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the community admin"
// @Router /communities/{id}/penalties [post]
func (c *CommunityController) ApplyPenalty(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.PenaltyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.walletService.ApplyPenalty(ctx.Request.Context(), communityID, userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Penalty applied"))
}

// GetActivityLogs retrieves a community's audit trail
// @Summary Get activity logs
// @Description Returns the community's audit trail, members only
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityLogListResponse} "Activity logs"
// @Router /communities/{id}/activity [get]
func (c *CommunityController) GetActivityLogs(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	communityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.communityService.GetActivityLogs(ctx.Request.Context(), communityID, userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
