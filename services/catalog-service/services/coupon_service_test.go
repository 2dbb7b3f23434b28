package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/models"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/repository"
	"github.com/rishavk21/UrbanCart-backend/services/catalog-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mock Repository ---

type mockCouponRepo struct {
	coupons map[uuid.UUID]*models.Coupon
	byCode  map[string]uuid.UUID
}

func newMockCouponRepo() *mockCouponRepo {
	return &mockCouponRepo{
		coupons: make(map[uuid.UUID]*models.Coupon),
		byCode:  make(map[string]uuid.UUID),
	}
}

func (m *mockCouponRepo) Create(_ context.Context, c *models.Coupon) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.coupons[c.ID] = c
	m.byCode[c.Code] = c.ID
	return nil
}

func (m *mockCouponRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Coupon, error) {
	c, ok := m.coupons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	id, ok := m.byCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := m.coupons[id]
	if !c.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockCouponRepo) Update(_ context.Context, c *models.Coupon) error {
	m.coupons[c.ID] = c
	return nil
}

func (m *mockCouponRepo) Delete(_ context.Context, id uuid.UUID) error {
	c, ok := m.coupons[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.byCode, c.Code)
	delete(m.coupons, id)
	return nil
}

func (m *mockCouponRepo) IncrementUsedCount(_ context.Context, code string) error {
	if id, ok := m.byCode[code]; ok {
		m.coupons[id].UsedCount++
	}
	return nil
}

func (m *mockCouponRepo) FindAll(_ context.Context, _, _ int) ([]models.Coupon, int64, error) {
	var result []models.Coupon
	for _, c := range m.coupons {
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

var _ repository.CouponRepository = (*mockCouponRepo)(nil)

// --- Mock SNS Publisher ---

type mockSNSPublisher struct {
	published []string
}

func (m *mockSNSPublisher) Publish(_ context.Context, topicArn string, _ []byte) error {
	m.published = append(m.published, topicArn)
	return nil
}

// --- Helpers ---

func newTestCouponService(repo repository.CouponRepository, sns *mockSNSPublisher) services.CouponService {
	logger, _ := zap.NewDevelopment()
	return services.NewCouponService(repo, sns, "arn:aws:sns:us-east-1:000000000000:catalog-events", logger)
}

func activeCoupon(code string, couponType models.CouponType, value, minOrder float64, usageLimit, usedCount int) *models.Coupon {
	return &models.Coupon{
		ID:            uuid.New(),
		Code:          code,
		Type:          couponType,
		Value:         value,
		MinOrderValue: minOrder,
		UsageLimit:    usageLimit,
		UsedCount:     usedCount,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		Active:        true,
	}
}

// --- Tests ---

func TestService_CreateCoupon_Success(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	req := &models.CreateCouponRequest{
		Code:       "save10",
		Type:       models.CouponTypePercentage,
		Value:      10,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
		UsageLimit: 100,
	}

	coupon, svcErr := svc.CreateCoupon(context.Background(), req)
	assert.Nil(t, svcErr)
	assert.NotNil(t, coupon)
	assert.Equal(t, "SAVE10", coupon.Code) // code is uppercased
}

func TestService_CreateCoupon_ExpiredDate(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	req := &models.CreateCouponRequest{
		Code:      "OLD",
		Type:      models.CouponTypeFlat,
		Value:     5,
		ExpiresAt: time.Now().Add(-1 * time.Hour), // past
	}

	_, svcErr := svc.CreateCoupon(context.Background(), req)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestService_ValidateCoupon_Percentage(t *testing.T) {
	repo := newMockCouponRepo()
	sns := &mockSNSPublisher{}
	svc := newTestCouponService(repo, sns)

	_ = repo.Create(context.Background(), activeCoupon("TENOFF", models.CouponTypePercentage, 10, 0, 0, 0))

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "TENOFF",
		CartTotal: 100,
	})

	assert.Nil(t, svcErr)
	assert.True(t, resp.Valid)
	assert.Equal(t, 10.0, resp.DiscountAmount)
	assert.Len(t, sns.published, 1, "Should publish SNS event")
}

func TestService_ValidateCoupon_FlatCapAtCartTotal(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	_ = repo.Create(context.Background(), activeCoupon("BIGSAVE", models.CouponTypeFlat, 200, 0, 0, 0))

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "BIGSAVE",
		CartTotal: 50,
	})

	assert.Nil(t, svcErr)
	assert.True(t, resp.Valid)
	assert.Equal(t, 50.0, resp.DiscountAmount, "Flat discount capped at cart total")
}

func TestService_ValidateCoupon_UsageLimitReached(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	_ = repo.Create(context.Background(), activeCoupon("LIMITED", models.CouponTypePercentage, 5, 0, 10, 10))

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "LIMITED",
		CartTotal: 100,
	})

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Message, "usage limit")
}

func TestService_ValidateCoupon_MinOrderNotMet(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	_ = repo.Create(context.Background(), activeCoupon("MINVAL", models.CouponTypePercentage, 10, 100, 0, 0))

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "MINVAL",
		CartTotal: 50,
	})

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Message, "Minimum order")
}

func TestService_ValidateCoupon_Expired(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	coupon := activeCoupon("EXPIRED", models.CouponTypeFlat, 10, 0, 0, 0)
	coupon.ExpiresAt = time.Now().Add(-1 * time.Hour)
	_ = repo.Create(context.Background(), coupon)

	resp, svcErr := svc.ValidateCoupon(context.Background(), &models.ValidateCouponRequest{
		Code:      "EXPIRED",
		CartTotal: 50,
	})

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Message, "expired")
}

func TestService_UpdateCoupon(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	coupon := activeCoupon("TWEAK", models.CouponTypePercentage, 10, 0, 0, 0)
	_ = repo.Create(context.Background(), coupon)

	newValue := 25.0
	inactive := false
	updated, svcErr := svc.UpdateCoupon(context.Background(), coupon.ID, &models.UpdateCouponRequest{
		Value:  &newValue,
		Active: &inactive,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, 25.0, updated.Value)
	assert.False(t, updated.Active)
}

func TestService_UpdateCoupon_PercentageOver100(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	coupon := activeCoupon("PCT", models.CouponTypePercentage, 10, 0, 0, 0)
	_ = repo.Create(context.Background(), coupon)

	badValue := 150.0
	_, svcErr := svc.UpdateCoupon(context.Background(), coupon.ID, &models.UpdateCouponRequest{Value: &badValue})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestService_DeleteCoupon_NotFound(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	svcErr := svc.DeleteCoupon(context.Background(), uuid.New())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestService_ListCoupons(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newTestCouponService(repo, &mockSNSPublisher{})

	for _, code := range []string{"C1", "C2", "C3"} {
		_ = repo.Create(context.Background(), activeCoupon(code, models.CouponTypeFlat, 5, 0, 0, 0))
	}

	coupons, total, svcErr := svc.ListCoupons(context.Background(), 1, 10)
	assert.Nil(t, svcErr)
	assert.Equal(t, int64(3), total)
	assert.Len(t, coupons, 3)
}
