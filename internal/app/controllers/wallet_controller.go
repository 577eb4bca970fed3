package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kofiasare/susu/internal/app/models/dto"
	"github.com/kofiasare/susu/internal/app/services"
	"github.com/kofiasare/susu/internal/middleware"
	"github.com/kofiasare/susu/internal/pkg/helpers"
)

// WalletController handles wallet operations
type WalletController struct {
	walletService *services.WalletService
	logger        zerolog.Logger
}

// NewWalletController creates a new WalletController
func NewWalletController(walletService *services.WalletService, logger zerolog.Logger) *WalletController {
	return &WalletController{
		walletService: walletService,
		logger:        logger,
	}
}

// GetBalance returns the caller's wallet summary
// @Summary Get wallet balance
// @Description Returns available, fixed and total balance of the caller's wallet
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.WalletBalanceResponse} "Wallet balance"
// @Router /wallet [get]
func (c *WalletController) GetBalance(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.walletService.GetBalance(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Deposit credits the caller's wallet
// @Summary Deposit funds
// @Description Credits the caller's available balance
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AmountRequest true "Deposit amount"
// @Success 200 {object} dto.APIResponse{data=dto.WalletBalanceResponse} "Updated balance"
// @Failure 403 {object} dto.ErrorResponse "Wallet is frozen"
// @Router /wallet/deposits [post]
func (c *WalletController) Deposit(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AmountRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.walletService.Deposit(ctx.Request.Context(), userID, req.Amount)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Withdraw debits the caller's wallet
// @Summary Withdraw funds
// @Description Debits the caller's available balance
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AmountRequest true "Withdrawal amount"
// @Success 200 {object} dto.APIResponse{data=dto.WalletBalanceResponse} "Updated balance"
// @Failure 400 {object} dto.ErrorResponse "Insufficient balance"
// @Router /wallet/withdrawals [post]
func (c *WalletController) Withdraw(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AmountRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.walletService.Withdraw(ctx.Request.Context(), userID, req.Amount)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// FixFunds locks part of the available balance for a term
// @Summary Fix funds
// @Description Moves funds from the available balance into the fixed balance for a term
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FixFundsRequest true "Amount and duration"
// @Success 200 {object} dto.APIResponse{data=dto.WalletBalanceResponse} "Updated balance"
// @Router /wallet/fixed-deposits [post]
func (c *WalletController) FixFunds(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.FixFundsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.walletService.FixFunds(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Transfer moves funds to another user
// @Summary Transfer funds
// @Description Moves funds from the caller's wallet to another user's wallet
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TransferRequest true "Recipient and amount"
// @Success 200 {object} dto.APIResponse{data=dto.WalletBalanceResponse} "Updated balance"
// @Failure 404 {object} dto.ErrorResponse "Recipient not found"
// @Router /wallet/transfers [post]
func (c *WalletController) Transfer(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.TransferRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.walletService.Transfer(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetTransactions returns the caller's ledger history
// @Summary Get transaction history
// @Description Returns the caller's wallet ledger newest first
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.TransactionListResponse} "Transactions"
// @Router /wallet/transactions [get]
func (c *WalletController) GetTransactions(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.walletService.GetTransactions(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// SetWalletStatus freezes or unfreezes a wallet, platform admin only
// @Summary Set wallet status
// @Description Freezes or unfreezes a user's wallet
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param request body dto.WalletStatusRequest true "Frozen flag and reason"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /wallet/{userId}/status [put]
func (c *WalletController) SetWalletStatus(ctx *gin.Context) {
	targetID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	var req dto.WalletStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.walletService.SetWalletStatus(ctx.Request.Context(), targetID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Wallet status updated"))
}

// ListFlagged returns all frozen wallets, platform admin only
// @Summary List flagged wallets
// @Description Returns all currently frozen wallets
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.WalletResponse} "Flagged wallets"
// @Router /wallet/flagged [get]
func (c *WalletController) ListFlagged(ctx *gin.Context) {
	resp, err := c.walletService.ListFlagged(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
