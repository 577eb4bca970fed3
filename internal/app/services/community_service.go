package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/app/models/dto"
	"github.com/kofiasare/susu/internal/app/repositories"
	"github.com/kofiasare/susu/internal/pkg/activity"
	"github.com/kofiasare/susu/internal/pkg/apperrors"
	"github.com/kofiasare/susu/internal/pkg/helpers"
)

// CommunityService handles savings circle operations
type CommunityService struct {
	communityRepo repositories.CommunityRepository
	memberRepo    repositories.MemberRepository
	walletRepo    repositories.WalletRepository
	activityRepo  repositories.ActivityLogRepository
	recorder      *activity.Recorder
	logger        zerolog.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(
	communityRepo repositories.CommunityRepository,
	memberRepo repositories.MemberRepository,
	walletRepo repositories.WalletRepository,
	activityRepo repositories.ActivityLogRepository,
	recorder *activity.Recorder,
	logger zerolog.Logger,
) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		memberRepo:    memberRepo,
		walletRepo:    walletRepo,
		activityRepo:  activityRepo,
		recorder:      recorder,
		logger:        logger,
	}
}

// Create creates a new savings circle with the caller as admin and first member
func (s *CommunityService) Create(ctx context.Context, adminID int64, req *dto.CreateCommunityRequest) (*dto.CommunityResponse, error) {
	if req.MinContribution.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewBadRequestError("minimum contribution must be greater than zero")
	}
	if req.BackupFundPercentage.IsNegative() || req.BackupFundPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperrors.NewBadRequestError("backup fund percentage must be between 0 and 100")
	}

	firstCycleMin := req.FirstCycleMin
	if firstCycleMin == 0 {
		firstCycleMin = 2
	}
	if firstCycleMin > req.MaxMembers {
		return nil, apperrors.NewBadRequestError("first cycle minimum cannot exceed maximum members")
	}

	positioningMode := models.PositioningMode(req.PositioningMode)
	if positioningMode == "" {
		positioningMode = models.PositioningRandom
	}

	community := &models.Community{
		Name:                 req.Name,
		Description:          req.Description,
		AdminID:              adminID,
		MinContribution:      req.MinContribution,
		MaxMembers:           req.MaxMembers,
		FirstCycleMin:        firstCycleMin,
		BackupFundPercentage: req.BackupFundPercentage,
		PositioningMode:      positioningMode,
		ContributionGoal:     req.MinContribution.Mul(decimal.NewFromInt(int64(req.MaxMembers))),
		IsPrivate:            req.IsPrivate,
	}

	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("communityID", community.ID).Int64("adminID", adminID).Msg("Community created")
	s.recorder.Record(community.ID, adminID, models.ActivityCreated, map[string]interface{}{
		"name": community.Name,
	})

	resp := dto.NewCommunityResponse(community)
	return &resp, nil
}

// Join admits the caller into a community. Capacity is checked up front for a
// fast rejection and re-checked under lock inside the repository transaction.
func (s *CommunityService) Join(ctx context.Context, communityID, userID int64) (*dto.JoinCommunityResponse, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if !community.HasCapacity() {
		return nil, apperrors.ErrCommunityFull
	}

	result, err := s.communityRepo.Join(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(communityID, userID, models.ActivityJoined, map[string]interface{}{
		"position": result.Position,
	})

	return &dto.JoinCommunityResponse{
		CommunityID: communityID,
		Position:    result.Position,
		Activated:   result.Activated,
	}, nil
}

// UpdateSettings applies a partial settings update. Only the community admin
// may change settings.
func (s *CommunityService) UpdateSettings(ctx context.Context, communityID, userID int64, req *dto.UpdateCommunityRequest) (*dto.CommunityResponse, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if community.AdminID != userID {
		return nil, apperrors.ErrNotCommunityAdmin
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.MinContribution != nil {
		if req.MinContribution.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.NewBadRequestError("minimum contribution must be greater than zero")
		}
		updates["min_contribution"] = *req.MinContribution
	}
	if req.MaxMembers != nil {
		if *req.MaxMembers < community.MemberCount {
			return nil, apperrors.NewBadRequestError("maximum members cannot be below the current member count")
		}
		updates["max_members"] = *req.MaxMembers
	}
	if req.BackupFundPercentage != nil {
		if req.BackupFundPercentage.IsNegative() || req.BackupFundPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperrors.NewBadRequestError("backup fund percentage must be between 0 and 100")
		}
		updates["backup_fund_percentage"] = *req.BackupFundPercentage
	}
	if req.PositioningMode != nil {
		updates["positioning_mode"] = *req.PositioningMode
	}
	if req.IsPrivate != nil {
		updates["is_private"] = *req.IsPrivate
	}

	if len(updates) > 0 {
		if err := s.communityRepo.UpdateSettings(ctx, communityID, updates); err != nil {
			return nil, err
		}
		s.recorder.Record(communityID, userID, models.ActivitySettingsUpdated, map[string]interface{}{
			"fields": len(updates),
		})
	}

	community, err = s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewCommunityResponse(community)
	return &resp, nil
}

// List retrieves communities visible to the caller with pagination
func (s *CommunityService) List(ctx context.Context, filter *dto.CommunityFilter) (*dto.CommunityListResponse, error) {
	communities, total, err := s.communityRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommunityResponse, 0, len(communities))
	for i := range communities {
		responses = append(responses, dto.NewCommunityResponse(&communities[i]))
	}

	return &dto.CommunityListResponse{
		Communities: responses,
		Pagination:  helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// GetDetails retrieves the full detail view of a community: its members, the
// latest cycle with its payout slots, and the caller's relation to the circle.
// Private circles are only visible to their members.
func (s *CommunityService) GetDetails(ctx context.Context, communityID, userID int64) (*dto.CommunityDetailResponse, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	membership, err := s.memberRepo.GetByCommunityAndUser(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}

	if community.IsPrivate && membership == nil {
		return nil, apperrors.ErrCommunityNotFound
	}

	members, err := s.memberRepo.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	detail := &dto.CommunityDetailResponse{
		CommunityResponse: dto.NewCommunityResponse(community),
		Members:           make([]dto.CommunityMemberResponse, 0, len(members)),
		UserStatus: dto.UserStatusResponse{
			IsMember: membership != nil,
			IsAdmin:  community.AdminID == userID,
		},
	}

	for i := range members {
		m := &members[i]
		mr := dto.CommunityMemberResponse{
			ID:               m.ID,
			UserID:           m.UserID,
			Position:         m.Position,
			Status:           string(m.Status),
			ContributionPaid: m.ContributionPaid,
			Penalty:          m.Penalty,
			JoinedAt:         m.JoinedAt,
		}
		if m.User != nil {
			mr.User = &dto.UserBasicResponse{
				ID:        m.User.ID,
				FirstName: m.User.FirstName,
				LastName:  m.User.LastName,
				Email:     m.User.Email,
			}
		}
		detail.Members = append(detail.Members, mr)
	}

	cycle, err := s.communityRepo.LatestCycle(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if cycle != nil {
		midCycles, err := s.communityRepo.MidCyclesByCycleID(ctx, cycle.ID)
		if err != nil {
			return nil, err
		}

		cr := &dto.CycleResponse{
			ID:          cycle.ID,
			CycleNumber: cycle.CycleNumber,
			StartDate:   cycle.StartDate,
			EndDate:     cycle.EndDate,
			IsComplete:  cycle.IsComplete,
			MidCycles:   make([]dto.MidCycleResponse, 0, len(midCycles)),
		}
		for _, mc := range midCycles {
			cr.MidCycles = append(cr.MidCycles, dto.MidCycleResponse{
				ID:             mc.ID,
				PayoutDate:     mc.PayoutDate,
				IsComplete:     mc.IsComplete,
				PayoutMemberID: mc.PayoutMemberID,
				Amount:         mc.Amount,
			})
		}
		detail.Cycle = cr
	}

	return detail, nil
}

// GetActivityLogs retrieves a community's audit trail. Only members can read it.
func (s *CommunityService) GetActivityLogs(ctx context.Context, communityID, userID int64, page, size int) (*dto.ActivityLogListResponse, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}

	membership, err := s.memberRepo.GetByCommunityAndUser(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperrors.ErrNotMember
	}

	logs, total, err := s.activityRepo.ListByCommunity(ctx, communityID, page, size)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityLogResponse, 0, len(logs))
	for _, entry := range logs {
		responses = append(responses, dto.ActivityLogResponse{
			ID:        entry.ID,
			UserID:    entry.UserID,
			Action:    entry.Action,
			Details:   entry.Details,
			CreatedAt: entry.CreatedAt,
		})
	}

	return &dto.ActivityLogListResponse{
		Logs:       responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Payout credits a member's wallet for a payout slot and marks it complete.
// Only the community admin may trigger payouts, and only to active members.
func (s *CommunityService) Payout(ctx context.Context, communityID, callerID int64, req *dto.PayoutRequest) error {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.ErrInvalidAmount
	}

	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}
	if community.AdminID != callerID {
		return apperrors.ErrNotCommunityAdmin
	}

	membership, err := s.memberRepo.GetByCommunityAndUser(ctx, communityID, req.UserID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperrors.ErrNotMember
	}
	if membership.Status != models.MemberActive {
		return apperrors.ErrMemberInactive
	}

	description := fmt.Sprintf("Payout from %s", community.Name)
	if err := s.walletRepo.Payout(ctx, req.UserID, communityID, req.MidCycleID, req.Amount, description); err != nil {
		return err
	}

	s.logger.Info().Int64("communityID", communityID).Int64("userID", req.UserID).
		Str("amount", req.Amount.String()).Msg("Payout completed")
	s.recorder.Record(communityID, req.UserID, models.ActivityPayout, map[string]interface{}{
		"amount":     req.Amount.String(),
		"midCycleId": req.MidCycleID,
	})

	return nil
}
