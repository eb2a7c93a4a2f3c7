package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/internal/db"
	"gorm.io/gorm"
)

// recordingNotifier captures pushed order updates
type recordingNotifier struct {
	orders []*model.Order
}

func (n *recordingNotifier) PublishOrderUpdate(order *model.Order) {
	n.orders = append(n.orders, order)
}

func setupOrderServiceTest(t *testing.T) (OrderService, *model.User, *model.Address, *model.MenuItem, *recordingNotifier, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	menuRepo := repository.NewMenuRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	notifier := &recordingNotifier{}
	orderService := NewOrderService(orderRepo, menuRepo, addressRepo, notifier)

	mobile := "+919876543210"
	user := &model.User{
		Email:    "customer@example.com",
		Username: "Hungry Customer",
		Mobile:   &mobile,
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	address := &model.Address{
		UserID:    user.ID,
		FullName:  "Hungry Customer",
		Mobile:    mobile,
		Street:    "12 MG Road",
		City:      "Bengaluru",
		State:     "Karnataka",
		Pincode:   "560001",
		IsDefault: true,
	}
	testDB.Create(address)

	item := &model.MenuItem{
		Name:       "Veg Biryani",
		Price:      100,
		Restaurant: "Spice Garden",
		Category:   model.CategoryMainCourse,
		Available:  true,
	}
	testDB.Create(item)

	return orderService, user, address, item, notifier, testDB
}

func createAdmin(t *testing.T, testDB *gorm.DB) *model.User {
	t.Helper()
	adminMobile := "+919899999999"
	admin := &model.User{Email: "admin@example.com", Username: "Admin User", Mobile: &adminMobile, Role: model.RoleAdmin}
	require.NoError(t, testDB.Create(admin).Error)
	return admin
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	orderService, user, address, item, _, _ := setupOrderServiceTest(t)

	// Subtotal 300 clears the free delivery threshold
	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	assert.NoError(t, err)
	assert.Equal(t, 300.0, order.TotalAmount)
	assert.Equal(t, 0.0, order.DeliveryFee)
	assert.Equal(t, 300.0, order.GrandTotal())
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentCash, order.PaymentMethod)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.NotNil(t, order.EstimatedDeliveryTime)
	assert.Nil(t, order.ActualDeliveryTime)
	assert.Equal(t, address.Street, order.DeliveryAddress.Street)
}

func TestOrderService_PlaceOrder_TotalIsItemsOnly(t *testing.T) {
	orderService, user, address, item, _, _ := setupOrderServiceTest(t)

	// The client submits the items total. The delivery fee is derived
	// server side and must never be folded into the comparison.
	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 1}},
		AddressID:   address.ID,
		TotalAmount: 100,
	})
	assert.NoError(t, err)
	assert.Equal(t, 100.0, order.TotalAmount)
	assert.Equal(t, 30.0, order.DeliveryFee)
	assert.Equal(t, 130.0, order.GrandTotal())
}

func TestOrderService_PlaceOrder_TotalMismatch(t *testing.T) {
	orderService, user, address, item, _, _ := setupOrderServiceTest(t)

	_, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 1}},
		AddressID:   address.ID,
		TotalAmount: 99.5,
	})
	assert.ErrorIs(t, err, ErrOrderTotalMismatch)

	// Submitting the fee-inclusive figure is a mismatch too
	_, err = orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 1}},
		AddressID:   address.ID,
		TotalAmount: 130,
	})
	assert.ErrorIs(t, err, ErrOrderTotalMismatch)

	// Drift within the tolerance is accepted
	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 1}},
		AddressID:   address.ID,
		TotalAmount: 100.005,
	})
	assert.NoError(t, err)
	assert.Equal(t, 100.0, order.TotalAmount)
}

func TestOrderService_PlaceOrder_PaymentMethods(t *testing.T) {
	orderService, user, address, item, _, _ := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:         []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:     address.ID,
		PaymentMethod: "wallet",
		TotalAmount:   300,
	})
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentWallet, order.PaymentMethod)

	_, err = orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:         []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:     address.ID,
		PaymentMethod: "barter",
		TotalAmount:   300,
	})
	assert.ErrorIs(t, err, ErrOrderInvalidPayment)
}

func TestOrderService_PlaceOrder_EmptyItems(t *testing.T) {
	orderService, user, address, _, _, _ := setupOrderServiceTest(t)

	_, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{},
		AddressID:   address.ID,
		TotalAmount: 0,
	})
	assert.ErrorIs(t, err, ErrOrderEmptyItems)
}

func TestOrderService_PlaceOrder_ForeignAddress(t *testing.T) {
	orderService, user, _, item, _, testDB := setupOrderServiceTest(t)

	otherMobile := "+919812345678"
	other := &model.User{Email: "other@example.com", Username: "Other User", Mobile: &otherMobile, Role: model.RoleUser}
	testDB.Create(other)
	foreign := &model.Address{
		UserID: other.ID, FullName: "Other User", Mobile: otherMobile,
		Street: "1 Park St", City: "Kolkata", State: "West Bengal", Pincode: "700016",
	}
	testDB.Create(foreign)

	_, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 1}},
		AddressID:   foreign.ID,
		TotalAmount: 100,
	})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestOrderService_PlaceOrder_UnavailableItem(t *testing.T) {
	orderService, user, address, _, _, testDB := setupOrderServiceTest(t)

	soldOut := &model.MenuItem{
		Name: "Sold Out Dish", Price: 50, Restaurant: "Spice Garden",
		Category: model.CategorySnack, Available: false,
	}
	testDB.Create(soldOut)

	_, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: soldOut.ID, Quantity: 1}},
		AddressID:   address.ID,
		TotalAmount: 50,
	})
	assert.ErrorIs(t, err, ErrMenuItemUnavailable)
}

func TestOrderService_PlaceOrder_LeavesCartIntact(t *testing.T) {
	orderService, user, address, item, _, testDB := setupOrderServiceTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	menuRepo := repository.NewMenuRepository(testDB)
	cartService := NewCartService(cartRepo, menuRepo)
	_, err := cartService.AddToCart(user.ID, item.ID, 3)
	require.NoError(t, err)

	_, err = orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)

	// Checkout is client orchestrated: the cart stays as it was until
	// the client clears it itself
	cart, err := cartService.GetCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestOrderService_GetOrder_OwnershipHidden(t *testing.T) {
	orderService, user, address, item, _, testDB := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)

	strangerMobile := "+919800000000"
	stranger := &model.User{Email: "stranger@example.com", Username: "Stranger User", Mobile: &strangerMobile, Role: model.RoleUser}
	testDB.Create(stranger)

	_, err = orderService.GetOrder(stranger.ID, false, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Admins see everything
	fetched, err := orderService.GetOrder(stranger.ID, true, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
}

func TestOrderService_UpdateStatus_Cancel(t *testing.T) {
	orderService, user, address, item, notifier, testDB := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)

	admin := createAdmin(t, testDB)
	cancelled, err := orderService.UpdateStatus(admin.ID, order.ID, model.OrderStatusCancelled, "Customer called in", nil)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	assert.Len(t, notifier.orders, 1)

	// Cancelled is terminal
	_, err = orderService.UpdateStatus(admin.ID, order.ID, model.OrderStatusPending, "", nil)
	assert.ErrorIs(t, err, ErrOrderTerminalStatus)
}

func TestOrderService_UpdateStatus_DeliveredSettlesPayment(t *testing.T) {
	orderService, user, address, item, notifier, testDB := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)

	admin := createAdmin(t, testDB)
	updated, err := orderService.UpdateStatus(admin.ID, order.ID, model.OrderStatusDelivered, "Handed over", nil)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, updated.Status)
	assert.NotNil(t, updated.ActualDeliveryTime)
	assert.Equal(t, model.PaymentStatusPaid, updated.PaymentStatus)
	assert.Len(t, notifier.orders, 1)

	// Delivered is terminal
	_, err = orderService.UpdateStatus(admin.ID, order.ID, model.OrderStatusPreparing, "", nil)
	assert.ErrorIs(t, err, ErrOrderTerminalStatus)
}

func TestOrderService_UpdateStatus_EtaOverride(t *testing.T) {
	orderService, user, address, item, _, testDB := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)

	admin := createAdmin(t, testDB)
	eta := time.Now().Add(90 * time.Minute).Truncate(time.Second)
	updated, err := orderService.UpdateStatus(admin.ID, order.ID, model.OrderStatusOutForDelivery, "Traffic on the route", &eta)
	assert.NoError(t, err)
	require.NotNil(t, updated.EstimatedDeliveryTime)
	assert.True(t, updated.EstimatedDeliveryTime.Equal(eta))

	// Without an override the ETA stays put
	again, err := orderService.UpdateStatus(admin.ID, order.ID, model.OrderStatusPreparing, "", nil)
	assert.NoError(t, err)
	require.NotNil(t, again.EstimatedDeliveryTime)
	assert.True(t, again.EstimatedDeliveryTime.Equal(eta))
}

func TestOrderService_UpdateStatus_InvalidStatus(t *testing.T) {
	orderService, user, address, item, _, _ := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)

	_, err = orderService.UpdateStatus(1, order.ID, model.OrderStatus("shipped"), "", nil)
	assert.ErrorIs(t, err, ErrOrderInvalidStatus)
}

func TestOrderService_StatusHistoryAppended(t *testing.T) {
	orderService, user, address, item, _, testDB := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)

	_, err = orderService.UpdateStatus(1, order.ID, model.OrderStatusProcessing, "Kitchen accepted", nil)
	require.NoError(t, err)

	var history []model.OrderStatusHistory
	require.NoError(t, testDB.Where("order_id = ?", order.ID).Order("created_at ASC").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, model.OrderStatusPending, history[0].Status)
	assert.Equal(t, model.OrderStatusProcessing, history[1].Status)
	assert.Equal(t, "Kitchen accepted", history[1].Note)
}

func TestOrderService_GetUserOrders_Pagination(t *testing.T) {
	orderService, user, address, item, _, _ := setupOrderServiceTest(t)

	for i := 0; i < 3; i++ {
		_, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
			Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
			AddressID:   address.ID,
			TotalAmount: 300,
		})
		require.NoError(t, err)
	}

	orders, pagination, err := orderService.GetUserOrders(user.ID, "", nil, nil, 1, 2)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int64(3), pagination.TotalItems)
	assert.Equal(t, 2, pagination.Total)
	assert.True(t, pagination.HasNext)
	assert.False(t, pagination.HasPrev)
}

func TestOrderService_GetUserOrders_DateRange(t *testing.T) {
	orderService, user, address, item, _, testDB := setupOrderServiceTest(t)

	old, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)
	recent, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 4}},
		AddressID:   address.ID,
		TotalAmount: 400,
	})
	require.NoError(t, err)

	// Push the first order ten days into the past
	require.NoError(t, testDB.Model(&model.Order{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, 0, -10)).Error)

	weekAgo := time.Now().AddDate(0, 0, -7)
	orders, _, err := orderService.GetUserOrders(user.ID, "", &weekAgo, nil, 1, 20)
	assert.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, recent.ID, orders[0].ID)

	orders, _, err = orderService.GetUserOrders(user.ID, "", nil, &weekAgo, 1, 20)
	assert.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, old.ID, orders[0].ID)

	orders, _, err = orderService.GetUserOrders(user.ID, "", nil, nil, 1, 20)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderService_GetStats(t *testing.T) {
	orderService, user, address, item, _, testDB := setupOrderServiceTest(t)

	first, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)

	second, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 4}},
		AddressID:   address.ID,
		TotalAmount: 400,
	})
	require.NoError(t, err)

	admin := createAdmin(t, testDB)
	_, err = orderService.UpdateStatus(admin.ID, second.ID, model.OrderStatusCancelled, "", nil)
	require.NoError(t, err)

	stats, err := orderService.GetStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.TodayOrders)
	// Cancelled orders carry no revenue, in any window
	assert.Equal(t, first.TotalAmount, stats.TotalRevenue)
	assert.Equal(t, first.TotalAmount, stats.TodayRevenue)
	assert.Equal(t, first.TotalAmount, stats.WeekRevenue)
	assert.Equal(t, first.TotalAmount, stats.MonthRevenue)
	assert.Equal(t, int64(1), stats.StatusBreakdown[model.OrderStatusPending])
	assert.Equal(t, int64(1), stats.StatusBreakdown[model.OrderStatusCancelled])
}

func TestOrderService_DeleteOrder(t *testing.T) {
	orderService, user, address, item, _, _ := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(user.ID, PlaceOrderInput{
		Items:       []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
		AddressID:   address.ID,
		TotalAmount: 300,
	})
	require.NoError(t, err)

	assert.NoError(t, orderService.DeleteOrder(order.ID))
	assert.ErrorIs(t, orderService.DeleteOrder(order.ID), ErrOrderNotFound)
}

func TestDeliveryFeeFor(t *testing.T) {
	assert.Equal(t, 30.0, DeliveryFeeFor(199.99))
	assert.Equal(t, 0.0, DeliveryFeeFor(200))
	assert.Equal(t, 0.0, DeliveryFeeFor(350))
}
