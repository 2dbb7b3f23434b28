package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rishavk21/UrbanCart-backend/services/order-service/models"
	repositories "github.com/rishavk21/UrbanCart-backend/services/order-service/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, status models.OrderStatus, page, limit int) ([]models.Order, int64, error) {
	args := m.Called(ctx, status, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindByTrackToken(ctx context.Context, token string) (*models.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ApplyTransition(ctx context.Context, orderID uuid.UUID, change *models.StatusChange, trackingNumber string) error {
	args := m.Called(ctx, orderID, change, trackingNumber)
	return args.Error(0)
}

var _ repositories.OrderRepository = (*MockOrderRepository)(nil)

type mockProducer struct {
	messages map[string][][]byte
}

func newMockProducer() *mockProducer {
	return &mockProducer{messages: make(map[string][][]byte)}
}

func (p *mockProducer) Publish(ctx context.Context, topic string, key, message []byte) error {
	p.messages[topic] = append(p.messages[topic], append([]byte(nil), message...))
	return nil
}

func (p *mockProducer) Close() error { return nil }

func newTestService(repo *MockOrderRepository, producer *mockProducer) *OrderService {
	return NewOrderService(repo, producer, Topics{
		StatusChanged: "order.status.changed",
		StockRestore:  "order.stock.restore",
	}, nil, "", nil, zap.NewNop())
}

func TestUpdateStatus_LegalTransition(t *testing.T) {
	repo := new(MockOrderRepository)
	producer := newMockProducer()
	svc := newTestService(repo, producer)

	orderID := uuid.New()
	order := &models.Order{ID: orderID, OrderNumber: "UC-1", UserID: uuid.New(), Status: models.StatusPending}

	repo.On("FindByID", mock.Anything, orderID).Return(order, nil)
	repo.On("ApplyTransition", mock.Anything, orderID, mock.MatchedBy(func(c *models.StatusChange) bool {
		return c.FromStatus == models.StatusPending && c.ToStatus == models.StatusConfirmed
	}), "").Return(nil).Once()

	_, svcErr := svc.UpdateStatus(context.Background(), orderID, "CONFIRMED", "", "admin-1")

	assert.Nil(t, svcErr)
	repo.AssertExpectations(t)
	assert.Len(t, producer.messages["order.status.changed"], 1)
	assert.Empty(t, producer.messages["order.stock.restore"])
}

func TestUpdateStatus_IllegalTransitionRejected(t *testing.T) {
	repo := new(MockOrderRepository)
	producer := newMockProducer()
	svc := newTestService(repo, producer)

	orderID := uuid.New()
	order := &models.Order{ID: orderID, Status: models.StatusPending}
	repo.On("FindByID", mock.Anything, orderID).Return(order, nil)

	_, svcErr := svc.UpdateStatus(context.Background(), orderID, "SHIPPED", "TRK-1", "admin-1")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 422, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "allowed")
	repo.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, producer.messages["order.status.changed"])
}

func TestUpdateStatus_TerminalStateHasNoExit(t *testing.T) {
	repo := new(MockOrderRepository)
	producer := newMockProducer()
	svc := newTestService(repo, producer)

	orderID := uuid.New()
	repo.On("FindByID", mock.Anything, orderID).Return(&models.Order{ID: orderID, Status: models.StatusCancelled}, nil)

	_, svcErr := svc.UpdateStatus(context.Background(), orderID, "PENDING", "", "admin-1")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 422, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "terminal")
}

func TestUpdateStatus_TrackingRequiredBeforeShipped(t *testing.T) {
	repo := new(MockOrderRepository)
	producer := newMockProducer()
	svc := newTestService(repo, producer)

	orderID := uuid.New()
	repo.On("FindByID", mock.Anything, orderID).Return(&models.Order{ID: orderID, Status: models.StatusProcessing}, nil)

	_, svcErr := svc.UpdateStatus(context.Background(), orderID, "SHIPPED", "", "admin-1")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 422, svcErr.StatusCode)
	repo.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_CancellationPublishesStockRestore(t *testing.T) {
	repo := new(MockOrderRepository)
	producer := newMockProducer()
	svc := newTestService(repo, producer)

	orderID := uuid.New()
	order := &models.Order{
		ID:     orderID,
		Status: models.StatusConfirmed,
		UserID: uuid.New(),
		OrderItems: []models.OrderItem{
			{SKU: "TSHIRT-RED-M", Quantity: 2},
			{SKU: "JEANS-BLUE-32", Quantity: 1},
		},
	}
	repo.On("FindByID", mock.Anything, orderID).Return(order, nil)
	repo.On("ApplyTransition", mock.Anything, orderID, mock.Anything, "").Return(nil).Once()

	_, svcErr := svc.UpdateStatus(context.Background(), orderID, "CANCELLED", "", "admin-1")

	assert.Nil(t, svcErr)
	require.Len(t, producer.messages["order.stock.restore"], 1)

	var event models.StockRestoreEvent
	require.NoError(t, json.Unmarshal(producer.messages["order.stock.restore"][0], &event))
	assert.Equal(t, "order.stock.restore", event.EventType)
	assert.Equal(t, orderID.String(), event.OrderID)
	assert.Len(t, event.Items, 2)
	assert.Equal(t, "TSHIRT-RED-M", event.Items[0].SKU)
	assert.Equal(t, 2, event.Items[0].Quantity)
}

func TestUpdateStatus_ConcurrentTransitionConflicts(t *testing.T) {
	repo := new(MockOrderRepository)
	producer := newMockProducer()
	svc := newTestService(repo, producer)

	orderID := uuid.New()
	repo.On("FindByID", mock.Anything, orderID).Return(&models.Order{ID: orderID, Status: models.StatusPending}, nil)
	repo.On("ApplyTransition", mock.Anything, orderID, mock.Anything, "").Return(gorm.ErrRecordNotFound).Once()

	_, svcErr := svc.UpdateStatus(context.Background(), orderID, "CONFIRMED", "", "admin-1")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Empty(t, producer.messages["order.status.changed"])
}

func TestCreateFromCheckout(t *testing.T) {
	repo := new(MockOrderRepository)
	producer := newMockProducer()
	svc := newTestService(repo, producer)

	userID := uuid.New()
	productID := uuid.New()

	var created *models.Order
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Order) }).
		Return(nil).Once()

	err := svc.CreateFromCheckout(context.Background(), &models.CheckoutEvent{
		Event:          "cart.checkout",
		IdempotencyKey: "idem-1",
		UserID:         userID.String(),
		Items: []models.CheckoutItem{
			{ProductID: productID.String(), SKU: "tshirt-red-m", Name: "Red Tee", UnitPrice: 19.99, Quantity: 2},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.NotEmpty(t, created.OrderNumber)
	assert.NotEmpty(t, created.TrackToken)
	assert.Equal(t, "TSHIRT-RED-M", created.OrderItems[0].SKU)
	assert.InDelta(t, 39.98, created.Total, 0.001)
	require.NotNil(t, created.CheckoutKey)
	assert.Equal(t, "idem-1", *created.CheckoutKey)
	require.Len(t, created.StatusChanges, 1)
	assert.Equal(t, models.StatusPending, created.StatusChanges[0].ToStatus)

	assert.Len(t, producer.messages["order.status.changed"], 1)
}

func TestCreateFromCheckout_EmptyItems(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := newTestService(repo, newMockProducer())

	err := svc.CreateFromCheckout(context.Background(), &models.CheckoutEvent{UserID: uuid.New().String()})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTrackOrder_NoPII(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := newTestService(repo, newMockProducer())

	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     "UC-20260901-ABCD1234",
		UserID:          uuid.New(),
		Status:          models.StatusShipped,
		TrackingNumber:  "TRK-42",
		ShippingAddress: models.ShippingAddress{Name: "Jane Doe", City: "Pune"},
		StatusChanges: []models.StatusChange{
			{ToStatus: models.StatusPending},
			{ToStatus: models.StatusConfirmed},
			{ToStatus: models.StatusShipped},
		},
	}
	repo.On("FindByTrackToken", mock.Anything, "tok-1").Return(order, nil)

	result, svcErr := svc.TrackOrder(context.Background(), "tok-1")

	require.Nil(t, svcErr)
	assert.Equal(t, order.OrderNumber, result.OrderNumber)
	assert.Equal(t, models.StatusShipped, result.Status)
	assert.Len(t, result.History, 3)

	// The public payload must not leak identity or address fields.
	payload, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "Jane Doe")
	assert.NotContains(t, string(payload), order.UserID.String())
}

func TestGetAllOrders_InvalidStatusFilter(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := newTestService(repo, newMockProducer())

	_, svcErr := svc.GetAllOrders(context.Background(), "bogus", 1, 10)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
