package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/app/models/dto"
	"github.com/kofiasare/susu/internal/app/repositories"
	"github.com/kofiasare/susu/internal/pkg/activity"
	"github.com/kofiasare/susu/internal/pkg/apperrors"
)

func newTestCommunityService(
	communityRepo *fakeCommunityRepo,
	memberRepo *fakeMemberRepo,
	walletRepo *fakeWalletRepo,
	activityRepo *fakeActivityRepo,
) *CommunityService {
	recorder := activity.NewRecorder(activityRepo, 16, zerolog.Nop())
	return NewCommunityService(communityRepo, memberRepo, walletRepo, activityRepo, recorder, zerolog.Nop())
}

func activeCommunity() *models.Community {
	return &models.Community{
		ID:              7,
		Name:            "Market Traders",
		AdminID:         1,
		MinContribution: decimal.NewFromInt(50),
		MaxMembers:      10,
		MemberCount:     4,
		FirstCycleMin:   3,
		Status:          models.CommunityActive,
	}
}

func TestCommunityServiceCreateDerivesGoalAndDefaults(t *testing.T) {
	var created *models.Community
	communityRepo := &fakeCommunityRepo{
		CreateFn: func(ctx context.Context, c *models.Community) error {
			c.ID = 42
			created = c
			return nil
		},
	}
	svc := newTestCommunityService(communityRepo, &fakeMemberRepo{}, &fakeWalletRepo{}, &fakeActivityRepo{})

	resp, err := svc.Create(context.Background(), 1, &dto.CreateCommunityRequest{
		Name:            "Market Traders",
		MinContribution: decimal.NewFromInt(50),
		MaxMembers:      10,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, int64(1), created.AdminID)
	assert.Equal(t, 2, created.FirstCycleMin)
	assert.Equal(t, models.PositioningRandom, created.PositioningMode)
	assert.True(t, created.ContributionGoal.Equal(decimal.NewFromInt(500)))
}

func TestCommunityServiceCreateValidation(t *testing.T) {
	svc := newTestCommunityService(&fakeCommunityRepo{}, &fakeMemberRepo{}, &fakeWalletRepo{}, &fakeActivityRepo{})

	_, err := svc.Create(context.Background(), 1, &dto.CreateCommunityRequest{
		Name:            "Bad",
		MinContribution: decimal.Zero,
		MaxMembers:      10,
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), 1, &dto.CreateCommunityRequest{
		Name:                 "Bad",
		MinContribution:      decimal.NewFromInt(10),
		MaxMembers:           10,
		BackupFundPercentage: decimal.NewFromInt(120),
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), 1, &dto.CreateCommunityRequest{
		Name:            "Bad",
		MinContribution: decimal.NewFromInt(10),
		MaxMembers:      5,
		FirstCycleMin:   8,
	})
	assert.Error(t, err)
}

func TestCommunityServiceJoinReportsActivation(t *testing.T) {
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return activeCommunity(), nil
		},
		JoinFn: func(ctx context.Context, communityID, userID int64) (*repositories.JoinResult, error) {
			return &repositories.JoinResult{Position: 3, MemberCount: 3, Activated: true}, nil
		},
	}
	svc := newTestCommunityService(communityRepo, &fakeMemberRepo{}, &fakeWalletRepo{}, &fakeActivityRepo{})

	resp, err := svc.Join(context.Background(), 7, 9)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Position)
	assert.True(t, resp.Activated)
}

func TestCommunityServiceJoinRejectsFullCommunity(t *testing.T) {
	full := activeCommunity()
	full.MemberCount = full.MaxMembers
	joined := false
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return full, nil
		},
		JoinFn: func(ctx context.Context, communityID, userID int64) (*repositories.JoinResult, error) {
			joined = true
			return &repositories.JoinResult{}, nil
		},
	}
	svc := newTestCommunityService(communityRepo, &fakeMemberRepo{}, &fakeWalletRepo{}, &fakeActivityRepo{})

	_, err := svc.Join(context.Background(), 7, 9)
	assert.ErrorIs(t, err, apperrors.ErrCommunityFull)
	assert.False(t, joined)
}

func TestCommunityServiceJoinPropagatesCapacityError(t *testing.T) {
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return activeCommunity(), nil
		},
		JoinFn: func(ctx context.Context, communityID, userID int64) (*repositories.JoinResult, error) {
			return nil, apperrors.ErrCommunityFull
		},
	}
	svc := newTestCommunityService(communityRepo, &fakeMemberRepo{}, &fakeWalletRepo{}, &fakeActivityRepo{})

	_, err := svc.Join(context.Background(), 7, 9)
	assert.ErrorIs(t, err, apperrors.ErrCommunityFull)
}

func TestCommunityServiceUpdateSettingsRequiresAdmin(t *testing.T) {
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return activeCommunity(), nil
		},
	}
	svc := newTestCommunityService(communityRepo, &fakeMemberRepo{}, &fakeWalletRepo{}, &fakeActivityRepo{})

	desc := "new description"
	_, err := svc.UpdateSettings(context.Background(), 7, 99, &dto.UpdateCommunityRequest{Description: &desc})
	assert.ErrorIs(t, err, apperrors.ErrNotCommunityAdmin)
}

func TestCommunityServiceUpdateSettingsRejectsShrinkBelowMembers(t *testing.T) {
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return activeCommunity(), nil
		},
	}
	svc := newTestCommunityService(communityRepo, &fakeMemberRepo{}, &fakeWalletRepo{}, &fakeActivityRepo{})

	tooSmall := 3 // community already has 4 members
	_, err := svc.UpdateSettings(context.Background(), 7, 1, &dto.UpdateCommunityRequest{MaxMembers: &tooSmall})
	assert.Error(t, err)
}

func TestCommunityServiceUpdateSettingsWritesOnlyProvidedFields(t *testing.T) {
	var captured map[string]interface{}
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return activeCommunity(), nil
		},
		UpdateSettingsFn: func(ctx context.Context, id int64, updates map[string]interface{}) error {
			captured = updates
			return nil
		},
	}
	svc := newTestCommunityService(communityRepo, &fakeMemberRepo{}, &fakeWalletRepo{}, &fakeActivityRepo{})

	desc := "weekly circle for market traders"
	private := true
	_, err := svc.UpdateSettings(context.Background(), 7, 1, &dto.UpdateCommunityRequest{
		Description: &desc,
		IsPrivate:   &private,
	})
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Len(t, captured, 2)
	assert.Equal(t, desc, captured["description"])
	assert.Equal(t, true, captured["is_private"])
}

func TestCommunityServiceGetDetailsHidesPrivateFromNonMembers(t *testing.T) {
	private := activeCommunity()
	private.IsPrivate = true
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return private, nil
		},
	}
	memberRepo := &fakeMemberRepo{
		GetByCommunityAndUserFn: func(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
			return nil, nil
		},
	}
	svc := newTestCommunityService(communityRepo, memberRepo, &fakeWalletRepo{}, &fakeActivityRepo{})

	_, err := svc.GetDetails(context.Background(), 7, 99)
	assert.ErrorIs(t, err, apperrors.ErrCommunityNotFound)
}

func TestCommunityServiceGetDetailsIncludesCycle(t *testing.T) {
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return activeCommunity(), nil
		},
		LatestCycleFn: func(ctx context.Context, communityID int64) (*models.CommunityCycle, error) {
			return &models.CommunityCycle{ID: 11, CommunityID: communityID, CycleNumber: 1}, nil
		},
		MidCyclesByCycleIDFn: func(ctx context.Context, cycleID int64) ([]models.CommunityMidCycle, error) {
			return []models.CommunityMidCycle{{ID: 21, CycleID: cycleID}}, nil
		},
	}
	memberRepo := &fakeMemberRepo{
		GetByCommunityAndUserFn: func(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
			return &models.CommunityMember{CommunityID: communityID, UserID: userID, Status: models.MemberActive}, nil
		},
		ListByCommunityFn: func(ctx context.Context, communityID int64) ([]models.CommunityMember, error) {
			return []models.CommunityMember{
				{ID: 1, UserID: 1, Position: 1, Status: models.MemberActive},
				{ID: 2, UserID: 2, Position: 2, Status: models.MemberActive},
			}, nil
		},
	}
	svc := newTestCommunityService(communityRepo, memberRepo, &fakeWalletRepo{}, &fakeActivityRepo{})

	detail, err := svc.GetDetails(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Len(t, detail.Members, 2)
	require.NotNil(t, detail.Cycle)
	assert.Equal(t, 1, detail.Cycle.CycleNumber)
	assert.Len(t, detail.Cycle.MidCycles, 1)
	assert.True(t, detail.UserStatus.IsMember)
	assert.True(t, detail.UserStatus.IsAdmin)
}

func TestCommunityServicePayoutRequiresAdmin(t *testing.T) {
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return activeCommunity(), nil
		},
	}
	svc := newTestCommunityService(communityRepo, &fakeMemberRepo{}, &fakeWalletRepo{}, &fakeActivityRepo{})

	err := svc.Payout(context.Background(), 7, 99, &dto.PayoutRequest{
		MidCycleID: 21, UserID: 2, Amount: decimal.NewFromInt(200),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotCommunityAdmin)
}

func TestCommunityServicePayoutRejectsInactiveMember(t *testing.T) {
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return activeCommunity(), nil
		},
	}
	memberRepo := &fakeMemberRepo{
		GetByCommunityAndUserFn: func(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
			return &models.CommunityMember{UserID: userID, Status: models.MemberInactive}, nil
		},
	}
	svc := newTestCommunityService(communityRepo, memberRepo, &fakeWalletRepo{}, &fakeActivityRepo{})

	err := svc.Payout(context.Background(), 7, 1, &dto.PayoutRequest{
		MidCycleID: 21, UserID: 2, Amount: decimal.NewFromInt(200),
	})
	assert.ErrorIs(t, err, apperrors.ErrMemberInactive)
}

func TestCommunityServicePayoutCreditsWallet(t *testing.T) {
	var paidUser int64
	var paidAmount decimal.Decimal
	communityRepo := &fakeCommunityRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*models.Community, error) {
			return activeCommunity(), nil
		},
	}
	memberRepo := &fakeMemberRepo{
		GetByCommunityAndUserFn: func(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
			return &models.CommunityMember{UserID: userID, Status: models.MemberActive}, nil
		},
	}
	walletRepo := &fakeWalletRepo{
		PayoutFn: func(ctx context.Context, userID, communityID, midCycleID int64, amount decimal.Decimal, description string) error {
			paidUser = userID
			paidAmount = amount
			return nil
		},
	}
	svc := newTestCommunityService(communityRepo, memberRepo, walletRepo, &fakeActivityRepo{})

	err := svc.Payout(context.Background(), 7, 1, &dto.PayoutRequest{
		MidCycleID: 21, UserID: 2, Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), paidUser)
	assert.True(t, paidAmount.Equal(decimal.NewFromInt(200)))
}
