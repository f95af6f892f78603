package services_test

import (
	"sync"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/payments"

	"github.com/stretchr/testify/assert"
)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *capturingPublisher) PublishEvent(event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type checkoutFixture struct {
	service      *services.CheckoutService
	cartService  *services.CartService
	checkoutRepo *repositories.MockCheckoutRepository
	orderRepo    *repositories.MockOrderRepository
	cartRepo     *repositories.MockCartRepository
	publisher    *capturingPublisher
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	checkoutRepo := repositories.NewMockCheckoutRepository()
	orderRepo := repositories.NewMockOrderRepository()
	cartRepo := repositories.NewMockCartRepository()
	productRepo := repositories.NewMockProductRepository()
	publisher := &capturingPublisher{}

	err := productRepo.Create(&models.Product{
		ID:       "prod-a",
		Name:     "Oxford Shirt",
		Price:    600.00,
		SKU:      "OXF-001",
		Stock:    20,
		Category: "shirts",
	})
	assert.NoError(t, err)

	return &checkoutFixture{
		service: services.NewCheckoutService(
			checkoutRepo, orderRepo, cartRepo, productRepo,
			payments.NewStubGateway(), publisher, "usd",
		),
		cartService:  services.NewCartService(cartRepo, productRepo),
		checkoutRepo: checkoutRepo,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		publisher:    publisher,
	}
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FirstName:  "Asha",
		LastName:   "Verma",
		Address:    "12 Hill Road",
		City:       "Mumbai",
		PostalCode: "400050",
		Country:    "IN",
		Phone:      "+91-9800000000",
	}
}

func TestCheckoutService_Create_RecomputesTotalFromCatalog(t *testing.T) {
	f := newCheckoutFixture(t)

	// Whatever price the client claims for the line is ignored.
	items := []models.LineItem{{ProductID: "prod-a", Quantity: 2, Size: "M", Color: "Red", Price: 1.00}}
	checkout, err := f.service.Create("user-1", items, testAddress(), models.PaymentMethodCard)
	assert.NoError(t, err)

	assert.Equal(t, 1200.00, checkout.TotalPrice)
	assert.Equal(t, 600.00, checkout.Items[0].Price)
	assert.Equal(t, models.PaymentStatusPending, checkout.PaymentStatus)
	assert.False(t, checkout.IsPaid)
	assert.False(t, checkout.IsFinalized)
}

func TestCheckoutService_Create_Validation(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.Create("user-1", nil, testAddress(), models.PaymentMethodCard)
	assert.ErrorIs(t, err, services.ErrValidation)

	items := []models.LineItem{{ProductID: "prod-a", Quantity: 1}}
	_, err = f.service.Create("user-1", items, testAddress(), "wire-transfer")
	assert.ErrorIs(t, err, services.ErrValidation)

	missing := []models.LineItem{{ProductID: "prod-gone", Quantity: 1}}
	_, err = f.service.Create("user-1", missing, testAddress(), models.PaymentMethodCard)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCheckoutService_UpdatePaymentStatus(t *testing.T) {
	f := newCheckoutFixture(t)
	items := []models.LineItem{{ProductID: "prod-a", Quantity: 1}}
	checkout, err := f.service.Create("user-1", items, testAddress(), models.PaymentMethodCard)
	assert.NoError(t, err)

	// Only the literal "paid" is a legal transition input.
	_, err = f.service.UpdatePaymentStatus(checkout.ID, "user-1", false, "settled", nil)
	assert.ErrorIs(t, err, services.ErrInvalidState)

	details := map[string]any{"gateway_ref": "pi_123"}
	paid, err := f.service.UpdatePaymentStatus(checkout.ID, "user-1", false, models.PaymentStatusPaid, details)
	assert.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, details, paid.PaymentDetails)
}

func TestCheckoutService_UpdatePaymentStatus_OwnershipAndMissing(t *testing.T) {
	f := newCheckoutFixture(t)
	items := []models.LineItem{{ProductID: "prod-a", Quantity: 1}}
	checkout, err := f.service.Create("user-1", items, testAddress(), models.PaymentMethodCard)
	assert.NoError(t, err)

	_, err = f.service.UpdatePaymentStatus(checkout.ID, "user-2", false, models.PaymentStatusPaid, nil)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.service.UpdatePaymentStatus("missing", "user-1", false, models.PaymentStatusPaid, nil)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCheckoutService_CreatePaymentIntent(t *testing.T) {
	f := newCheckoutFixture(t)
	items := []models.LineItem{{ProductID: "prod-a", Quantity: 2}}
	checkout, err := f.service.Create("user-1", items, testAddress(), models.PaymentMethodCard)
	assert.NoError(t, err)

	intent, err := f.service.CreatePaymentIntent(checkout.ID, "user-1", false)
	assert.NoError(t, err)
	assert.Equal(t, int64(120000), intent.Amount) // 1200.00 in minor units
	assert.Equal(t, "usd", intent.Currency)
	assert.NotEmpty(t, intent.ClientSecret)

	_, err = f.service.CreatePaymentIntent("missing", "user-1", false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCheckoutService_Finalize_PaidCardCheckout(t *testing.T) {
	f := newCheckoutFixture(t)

	// The user's cart should be cleared by finalization.
	_, err := f.cartService.AddItem(services.CartOwner{UserID: "user-1"}, "prod-a", 1, "M", "Red")
	assert.NoError(t, err)

	items := []models.LineItem{{ProductID: "prod-a", Quantity: 1, Size: "M", Color: "Red"}}
	checkout, err := f.service.Create("user-1", items, testAddress(), models.PaymentMethodCard)
	assert.NoError(t, err)
	_, err = f.service.UpdatePaymentStatus(checkout.ID, "user-1", false, models.PaymentStatusPaid, nil)
	assert.NoError(t, err)

	order, err := f.service.Finalize(checkout.ID, "user-1", false)
	assert.NoError(t, err)
	assert.Equal(t, checkout.ID, order.CheckoutID)
	assert.True(t, order.IsPaid)
	assert.NotNil(t, order.PaidAt)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, 600.00, order.TotalPrice)

	_, err = f.cartRepo.GetByUserID("user-1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.Contains(t, f.publisher.events, services.EventOrderCreated)
}

func TestCheckoutService_Finalize_CODWithoutPayment(t *testing.T) {
	f := newCheckoutFixture(t)
	items := []models.LineItem{{ProductID: "prod-a", Quantity: 2}}
	checkout, err := f.service.Create("user-1", items, testAddress(), models.PaymentMethodCOD)
	assert.NoError(t, err)

	order, err := f.service.Finalize(checkout.ID, "user-1", false)
	assert.NoError(t, err)

	// COD is treated as payable on delivery: the order counts as paid while
	// its payment status stays pending.
	assert.True(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
}

func TestCheckoutService_Finalize_ExactlyOnce(t *testing.T) {
	f := newCheckoutFixture(t)
	items := []models.LineItem{{ProductID: "prod-a", Quantity: 1}}
	checkout, err := f.service.Create("user-1", items, testAddress(), models.PaymentMethodCOD)
	assert.NoError(t, err)

	_, err = f.service.Finalize(checkout.ID, "user-1", false)
	assert.NoError(t, err)

	_, err = f.service.Finalize(checkout.ID, "user-1", false)
	assert.ErrorIs(t, err, services.ErrAlreadyFinalized)

	orders, err := f.orderRepo.GetByUserID("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCheckoutService_Finalize_ConcurrentCallsProduceOneOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	items := []models.LineItem{{ProductID: "prod-a", Quantity: 1}}
	checkout, err := f.service.Create("user-1", items, testAddress(), models.PaymentMethodCOD)
	assert.NoError(t, err)

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, finalizeErr := f.service.Finalize(checkout.ID, "user-1", false)
			results <- finalizeErr
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, alreadyFinalized int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, services.ErrAlreadyFinalized)
			alreadyFinalized++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, alreadyFinalized)

	orders, err := f.orderRepo.GetByUserID("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCheckoutService_Finalize_MissingCheckout(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.Finalize("missing", "user-1", false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
