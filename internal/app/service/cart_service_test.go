package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/internal/db"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.MenuItem, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	menuRepo := repository.NewMenuRepository(testDB)
	cartService := NewCartService(cartRepo, menuRepo)

	mobile := "+919876543210"
	user := &model.User{
		Email:    "test@example.com",
		Username: "Test User",
		Mobile:   &mobile,
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	item := &model.MenuItem{
		Name:       "Paneer Tikka",
		Price:      100,
		Restaurant: "Spice Garden",
		Category:   model.CategoryAppetizer,
		Available:  true,
	}
	testDB.Create(item)

	return cartService, user, item, testDB
}

func createMenuItem(t *testing.T, testDB *gorm.DB, name string, price float64, available bool) *model.MenuItem {
	t.Helper()
	item := &model.MenuItem{
		Name:       name,
		Price:      price,
		Restaurant: "Spice Garden",
		Category:   model.CategoryMainCourse,
		Available:  available,
	}
	require.NoError(t, testDB.Create(item).Error)
	return item
}

func TestCartService_GetCart_Empty(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	cart, err := cartService.GetCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
	assert.Equal(t, 0, cart.TotalItems)
	assert.Equal(t, 0.0, cart.TotalAmount)
}

func TestCartService_AddToCart_Success(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	cart, err := cartService.AddToCart(user.ID, item.ID, 3)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, 300.0, cart.TotalAmount)
	assert.Equal(t, item.Name, cart.Items[0].Name)
	assert.Equal(t, item.Price, cart.Items[0].Price)
}

func TestCartService_AddToCart_ExistingLineIncrements(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, item.ID, 1)
	require.NoError(t, err)

	cart, err := cartService.AddToCart(user.ID, item.ID, 2)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 300.0, cart.TotalAmount)
}

func TestCartService_AddToCart_NotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestCartService_AddToCart_Unavailable(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	soldOut := createMenuItem(t, testDB, "Sold Out Dish", 50, false)

	_, err := cartService.AddToCart(user.ID, soldOut.ID, 1)
	assert.ErrorIs(t, err, ErrMenuItemUnavailable)
}

func TestCartService_AddToCart_QuantityLimit(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, item.ID, model.MaxItemQuantity)
	require.NoError(t, err)

	_, err = cartService.AddToCart(user.ID, item.ID, 1)
	assert.ErrorIs(t, err, ErrCartQuantityLimit)
}

func TestCartService_AddToCart_CartFull(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	for i := 0; i < model.MaxCartItems; i++ {
		dish := createMenuItem(t, testDB, fmt.Sprintf("Dish %d", i), 10, true)
		_, err := cartService.AddToCart(user.ID, dish.ID, 1)
		require.NoError(t, err)
	}

	extra := createMenuItem(t, testDB, "One Too Many", 10, true)
	_, err := cartService.AddToCart(user.ID, extra.ID, 1)
	assert.ErrorIs(t, err, ErrCartFull)
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, item.ID, 0)
	assert.ErrorIs(t, err, ErrCartInvalidQuantity)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, item.ID, 2)
	require.NoError(t, err)

	cart, err := cartService.UpdateQuantity(user.ID, item.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 500.0, cart.TotalAmount)

	_, err = cartService.UpdateQuantity(user.ID, item.ID, model.MaxItemQuantity+1)
	assert.ErrorIs(t, err, ErrCartQuantityLimit)

	_, err = cartService.UpdateQuantity(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, item.ID, 2)
	require.NoError(t, err)

	cart, err := cartService.RemoveFromCart(user.ID, item.ID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)

	_, err = cartService.RemoveFromCart(user.ID, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_AddToCart_AfterRemove(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, item.ID, 2)
	require.NoError(t, err)
	_, err = cartService.RemoveFromCart(user.ID, item.ID)
	require.NoError(t, err)

	// Removing a line must free its slot in the (user, menu item)
	// unique index so the dish can go straight back in
	cart, err := cartService.AddToCart(user.ID, item.ID, 1)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCartService_AddToCart_AfterClear(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, item.ID, 5)
	require.NoError(t, err)
	require.NoError(t, cartService.ClearCart(user.ID))

	cart, err := cartService.AddToCart(user.ID, item.ID, 2)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_ClearCart_Idempotent(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, item.ID, 2)
	require.NoError(t, err)

	assert.NoError(t, cartService.ClearCart(user.ID))
	assert.NoError(t, cartService.ClearCart(user.ID))

	cart, err := cartService.GetCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
}

func TestCartService_GetSummary(t *testing.T) {
	cartService, user, item, testDB := setupCartServiceTest(t)

	second := createMenuItem(t, testDB, "Butter Naan", 40, true)

	_, err := cartService.AddToCart(user.ID, item.ID, 2)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, second.ID, 4)
	require.NoError(t, err)

	summary, err := cartService.GetSummary(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, 6, summary.TotalItems)
	assert.Equal(t, 360.0, summary.TotalAmount)
}

func TestCartService_SyncCart_MergeTakesLarger(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, item.ID, 5)
	require.NoError(t, err)

	result, err := cartService.SyncCart(user.ID, []SyncCartItem{
		{MenuItemID: item.ID, Quantity: 3},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Dropped)
	assert.Equal(t, 5, result.Cart.Items[0].Quantity)

	result, err = cartService.SyncCart(user.ID, []SyncCartItem{
		{MenuItemID: item.ID, Quantity: 8},
	})
	assert.NoError(t, err)
	assert.Equal(t, 8, result.Cart.Items[0].Quantity)
}

func TestCartService_SyncCart_CapsQuantity(t *testing.T) {
	cartService, user, item, _ := setupCartServiceTest(t)

	result, err := cartService.SyncCart(user.ID, []SyncCartItem{
		{MenuItemID: item.ID, Quantity: 500},
	})
	assert.NoError(t, err)
	assert.Equal(t, model.MaxItemQuantity, result.Cart.Items[0].Quantity)
}

func TestCartService_SyncCart_DropsBadLines(t *testing.T) {
	cartService, user, item, testDB := setupCartServiceTest(t)

	soldOut := createMenuItem(t, testDB, "Sold Out Dish", 50, false)

	result, err := cartService.SyncCart(user.ID, []SyncCartItem{
		{MenuItemID: item.ID, Quantity: 2},
		{MenuItemID: item.ID, Quantity: 9}, // duplicate line
		{MenuItemID: 9999, Quantity: 1},   // stale reference
		{MenuItemID: soldOut.ID, Quantity: 1},
		{MenuItemID: item.ID + 1000, Quantity: 0}, // invalid quantity
	})
	assert.NoError(t, err)
	assert.Equal(t, 4, result.Dropped)
	assert.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 2, result.Cart.Items[0].Quantity)
}

func TestCartService_SyncCart_DropsOverflow(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	var items []SyncCartItem
	for i := 0; i < model.MaxCartItems+3; i++ {
		dish := createMenuItem(t, testDB, fmt.Sprintf("Dish %d", i), 10, true)
		items = append(items, SyncCartItem{MenuItemID: dish.ID, Quantity: 1})
	}

	result, err := cartService.SyncCart(user.ID, items)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Dropped)
	assert.Len(t, result.Cart.Items, model.MaxCartItems)
}
