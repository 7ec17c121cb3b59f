package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/apperr"
)

func plainProduct(slug string, price float64) *models.Product {
	return &models.Product{Slug: slug, Name: "Piece " + slug, Price: price, Image: slug + ".jpg"}
}

func barryProduct(slug string, price float64) *models.Product {
	p := plainProduct(slug, price)
	p.Tags = models.TagLimitedEdition + "," + models.TagBarry
	return p
}

func priveProduct(slug string, price float64) *models.Product {
	p := plainProduct(slug, price)
	p.Tags = models.TagPrive
	return p
}

func newCartService(products *fakeProducts, users *fakeUsers) (*CartService, *fakeCarts) {
	carts := newFakeCarts()
	return NewCartService(carts, products, users), carts
}

func TestAddItemCreatesLine(t *testing.T) {
	svc, _ := newCartService(newFakeProducts(plainProduct("silk-scarf", 120)), newFakeUsers())

	cart, err := svc.AddItem(Identity{GuestID: "g1"}, AddItemInput{ProductSlug: "silk-scarf", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 120.0, cart.Items[0].Price)
	assert.Equal(t, "Piece silk-scarf", cart.Items[0].Name)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newCartService(newFakeProducts(), newFakeUsers())

	_, err := svc.AddItem(Identity{GuestID: "g1"}, AddItemInput{ProductSlug: "ghost"})
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestAddItemClampsQuantity(t *testing.T) {
	svc, _ := newCartService(newFakeProducts(plainProduct("silk-scarf", 120)), newFakeUsers())

	for _, qty := range []int{0, -5} {
		cart, err := svc.AddItem(Identity{GuestID: "g1"}, AddItemInput{ProductSlug: "silk-scarf", Quantity: qty})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cart.Items[0].Quantity, 1)
	}
}

func TestAddItemMergesSameSlugAndSize(t *testing.T) {
	svc, _ := newCartService(newFakeProducts(plainProduct("silk-scarf", 120)), newFakeUsers())
	id := Identity{GuestID: "g1"}

	_, err := svc.AddItem(id, AddItemInput{ProductSlug: "silk-scarf", Quantity: 1, Size: "M"})
	require.NoError(t, err)
	cart, err := svc.AddItem(id, AddItemInput{ProductSlug: "silk-scarf", Quantity: 2, Size: "M"})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// a different size is its own line
	cart, err = svc.AddItem(id, AddItemInput{ProductSlug: "silk-scarf", Quantity: 1, Size: "L"})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestAddBarryItemRequiresAuth(t *testing.T) {
	svc, _ := newCartService(newFakeProducts(barryProduct("barry-coat", 900)), newFakeUsers())

	_, err := svc.AddItem(Identity{GuestID: "g1"}, AddItemInput{ProductSlug: "barry-coat"})
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestAddBarryItemEnforcesQuota(t *testing.T) {
	users := newFakeUsers(&models.User{ID: 7, BarryEntitlements: 2})
	svc, _ := newCartService(newFakeProducts(barryProduct("barry-coat", 900)), users)
	id := Identity{UserID: 7}

	cart, err := svc.AddItem(id, AddItemInput{ProductSlug: "barry-coat", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// the cart already holds the full quota
	_, err = svc.AddItem(id, AddItemInput{ProductSlug: "barry-coat", Quantity: 1})
	require.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Contains(t, apperr.MessageOf(err), "0 more unit(s)")
}

func TestUpdateItemSetsAndRemoves(t *testing.T) {
	svc, _ := newCartService(newFakeProducts(plainProduct("silk-scarf", 120)), newFakeUsers())
	id := Identity{GuestID: "g1"}

	_, err := svc.AddItem(id, AddItemInput{ProductSlug: "silk-scarf", Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.UpdateItem(id, "silk-scarf", UpdateItemInput{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	cart, err = svc.UpdateItem(id, "silk-scarf", UpdateItemInput{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateItemMissingLine(t *testing.T) {
	svc, _ := newCartService(newFakeProducts(plainProduct("silk-scarf", 120)), newFakeUsers())

	_, err := svc.UpdateItem(Identity{GuestID: "g1"}, "silk-scarf", UpdateItemInput{Quantity: 2})
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestUpdateItemSkipsEntitlementCheck(t *testing.T) {
	// Update deliberately does not re-run the Barry quota gate; only AddItem
	// enforces it.
	users := newFakeUsers(&models.User{ID: 7, BarryEntitlements: 1})
	svc, _ := newCartService(newFakeProducts(barryProduct("barry-coat", 900)), users)
	id := Identity{UserID: 7}

	_, err := svc.AddItem(id, AddItemInput{ProductSlug: "barry-coat", Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.UpdateItem(id, "barry-coat", UpdateItemInput{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestRemoveItemWithoutSizeRemovesAllSizes(t *testing.T) {
	svc, _ := newCartService(newFakeProducts(
		plainProduct("silk-scarf", 120), plainProduct("belt", 60)), newFakeUsers())
	id := Identity{GuestID: "g1"}

	for _, size := range []string{"S", "M"} {
		_, err := svc.AddItem(id, AddItemInput{ProductSlug: "silk-scarf", Size: size})
		require.NoError(t, err)
	}
	_, err := svc.AddItem(id, AddItemInput{ProductSlug: "belt"})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(id, "silk-scarf", "")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "belt", cart.Items[0].ProductSlug)
}

func TestRemoveItemWithSizeRemovesExactMatch(t *testing.T) {
	svc, _ := newCartService(newFakeProducts(plainProduct("silk-scarf", 120)), newFakeUsers())
	id := Identity{GuestID: "g1"}

	for _, size := range []string{"S", "M"} {
		_, err := svc.AddItem(id, AddItemInput{ProductSlug: "silk-scarf", Size: size})
		require.NoError(t, err)
	}

	cart, err := svc.RemoveItem(id, "silk-scarf", "S")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "M", cart.Items[0].Size)
}

func TestCartOwnerExclusivity(t *testing.T) {
	carts := newFakeCarts()
	userCart, err := carts.ForUser(7)
	require.NoError(t, err)
	guestCart, err := carts.ForGuest("g1")
	require.NoError(t, err)

	assert.NotNil(t, userCart.UserID)
	assert.Nil(t, userCart.GuestID)
	assert.NotNil(t, guestCart.GuestID)
	assert.Nil(t, guestCart.UserID)
}
