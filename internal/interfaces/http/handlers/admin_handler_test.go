package handlers

import (
	"context"
	"net/http"
	"testing"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type adminKYCServiceStub struct {
	reviewFn func(ctx context.Context, userID uuid.UUID, input *entities.KYCReviewInput) error
}

func (s *adminKYCServiceStub) ReviewEnrollment(ctx context.Context, userID uuid.UUID, input *entities.KYCReviewInput) error {
	return s.reviewFn(ctx, userID, input)
}

type adminWithdrawalServiceStub struct {
	resolveFn func(ctx context.Context, requestID uuid.UUID, input *entities.ResolveWithdrawalInput) error
}

func (s *adminWithdrawalServiceStub) ResolveWithdrawal(ctx context.Context, requestID uuid.UUID, input *entities.ResolveWithdrawalInput) error {
	return s.resolveFn(ctx, requestID, input)
}

type adminLedgerServiceStub struct {
	resolveTopupFn func(ctx context.Context, txnID uuid.UUID, approve bool) error
}

func (s *adminLedgerServiceStub) ResolveTopup(ctx context.Context, txnID uuid.UUID, approve bool) error {
	return s.resolveTopupFn(ctx, txnID, approve)
}

type adminUserServiceStub struct {
	setTierFn func(ctx context.Context, userID uuid.UUID, tier entities.UserTier) error
}

func (s *adminUserServiceStub) SetTier(ctx context.Context, userID uuid.UUID, tier entities.UserTier) error {
	return s.setTierFn(ctx, userID, tier)
}

func adminRouter(h *AdminHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/admin/kyc/:userId", h.ReviewKYC)
	r.PUT("/admin/withdrawals/:id", h.ResolveWithdrawal)
	r.PUT("/admin/topups/:id", h.ResolveTopup)
	r.PUT("/admin/users/:id/tier", h.SetTier)
	return r
}

func TestAdminHandler_ReviewKYC(t *testing.T) {
	userID := uuid.New()
	h := &AdminHandler{kycUsecase: &adminKYCServiceStub{
		reviewFn: func(_ context.Context, gotID uuid.UUID, input *entities.KYCReviewInput) error {
			require.Equal(t, userID, gotID)
			require.Equal(t, "reject", input.Decision)
			require.Equal(t, "blurry image", input.Remarks)
			return nil
		},
	}}
	r := adminRouter(h)

	w := doJSON(t, r, http.MethodPut, "/admin/kyc/"+userID.String(), `{"decision":"reject","remarks":"blurry image"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdminHandler_ReviewKYC_InvalidDecision(t *testing.T) {
	h := &AdminHandler{kycUsecase: &adminKYCServiceStub{}}
	r := adminRouter(h)

	w := doJSON(t, r, http.MethodPut, "/admin/kyc/"+uuid.New().String(), `{"decision":"maybe"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_ResolveWithdrawal(t *testing.T) {
	requestID := uuid.New()
	h := &AdminHandler{withdrawalUsecase: &adminWithdrawalServiceStub{
		resolveFn: func(_ context.Context, gotID uuid.UUID, input *entities.ResolveWithdrawalInput) error {
			require.Equal(t, requestID, gotID)
			require.Equal(t, "approve", input.Decision)
			return nil
		},
	}}
	r := adminRouter(h)

	w := doJSON(t, r, http.MethodPut, "/admin/withdrawals/"+requestID.String(), `{"decision":"approve"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdminHandler_ResolveWithdrawal_WrongState(t *testing.T) {
	h := &AdminHandler{withdrawalUsecase: &adminWithdrawalServiceStub{
		resolveFn: func(context.Context, uuid.UUID, *entities.ResolveWithdrawalInput) error {
			return domainerrors.Conflict("withdrawal request is not in the expected state")
		},
	}}
	r := adminRouter(h)

	w := doJSON(t, r, http.MethodPut, "/admin/withdrawals/"+uuid.New().String(), `{"decision":"complete"}`)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminHandler_ResolveTopup(t *testing.T) {
	txnID := uuid.New()
	h := &AdminHandler{ledgerUsecase: &adminLedgerServiceStub{
		resolveTopupFn: func(_ context.Context, gotID uuid.UUID, approve bool) error {
			require.Equal(t, txnID, gotID)
			require.True(t, approve)
			return nil
		},
	}}
	r := adminRouter(h)

	w := doJSON(t, r, http.MethodPut, "/admin/topups/"+txnID.String(), `{"decision":"approve"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdminHandler_SetTier(t *testing.T) {
	userID := uuid.New()
	h := &AdminHandler{authUsecase: &adminUserServiceStub{
		setTierFn: func(_ context.Context, gotID uuid.UUID, tier entities.UserTier) error {
			require.Equal(t, userID, gotID)
			require.Equal(t, entities.UserTierPro, tier)
			return nil
		},
	}}
	r := adminRouter(h)

	w := doJSON(t, r, http.MethodPut, "/admin/users/"+userID.String()+"/tier", `{"tier":"PRO"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdminHandler_InvalidIDs(t *testing.T) {
	h := &AdminHandler{}
	r := adminRouter(h)

	for _, path := range []string{
		"/admin/kyc/not-a-uuid",
		"/admin/withdrawals/not-a-uuid",
		"/admin/topups/not-a-uuid",
		"/admin/users/not-a-uuid/tier",
	} {
		w := doJSON(t, r, http.MethodPut, path, `{"decision":"approve"}`)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
