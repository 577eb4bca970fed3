package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofiasare/susu/internal/app/models/dto"
	"github.com/kofiasare/susu/internal/pkg/apperrors"
)

func handleErrorResponse(t *testing.T, err error) (int, dto.ErrorDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	HandleAPIError(c, err)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return recorder.Code, *resp.Error
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken},
		{"not admin", apperrors.ErrNotCommunityAdmin, 403, dto.ErrorCodeForbidden},
		{"wallet frozen", apperrors.ErrWalletFrozen, 403, dto.ErrorCodeWalletFrozen},
		{"community not found", apperrors.ErrCommunityNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"recipient not found", apperrors.ErrRecipientNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists},
		{"community full", apperrors.ErrCommunityFull, 409, dto.ErrorCodeConflict},
		{"insufficient balance", apperrors.ErrInsufficientBalance, 400, dto.ErrorCodeInsufficientBalance},
		{"self transfer", apperrors.ErrSelfTransfer, 400, dto.ErrorCodeValidationFailed},
		{"below minimum", apperrors.ErrBelowMinContribution, 400, dto.ErrorCodeValidationFailed},
		{"unexpected", errors.New("pool exhausted"), 500, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, detail := handleErrorResponse(t, tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, detail.Code)
		})
	}
}

func TestHandleAPIErrorUsesCustomMessage(t *testing.T) {
	status, detail := handleErrorResponse(t, apperrors.NewBadRequestError("backup fund percentage must be between 0 and 100"))
	assert.Equal(t, 400, status)
	assert.Equal(t, "backup fund percentage must be between 0 and 100", detail.Message)
}

func TestHandleAPIErrorHidesInternalDetails(t *testing.T) {
	_, detail := handleErrorResponse(t, errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"))
	assert.Equal(t, "Internal server error", detail.Message)
}

func TestHandleAPIErrorUnwrapsWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("lookup failed: %w", apperrors.ErrUserNotFound)
	status, _ := handleErrorResponse(t, wrapped)
	assert.Equal(t, 404, status)
}
