package services

import (
	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/apperr"
)

// CartService owns cart reads and mutations for both users and guests.
//
// Mutations are full-document writes: the handler loads the cart, edits the
// in-memory copy and saves it back. Two concurrent requests against the same
// cart can race and the later save wins. Inherited behaviour, kept as-is.
type CartService struct {
	carts    CartStore
	products ProductStore
	users    UserStore
}

func NewCartService(carts CartStore, products ProductStore, users UserStore) *CartService {
	return &CartService{carts: carts, products: products, users: users}
}

func (s *CartService) resolve(id Identity) (*models.Cart, error) {
	if id.IsUser() {
		return s.carts.ForUser(id.UserID)
	}
	return s.carts.ForGuest(id.GuestID)
}

// Get returns the identity's cart, creating an empty one on first use.
func (s *CartService) Get(id Identity) (*models.Cart, error) {
	return s.resolve(id)
}

// AddItemInput is the add-to-cart request body.
type AddItemInput struct {
	ProductSlug string `json:"productSlug" validate:"required,alpha_dash,max=120"`
	Quantity    int    `json:"quantity" validate:"nullable,integer"`
	Size        string `json:"size" validate:"nullable,max=20"`
}

// AddItem adds a product to the cart. Quantity is clamped to at least 1.
// Barry-tagged products require an authenticated caller with enough
// entitlement balance to cover the cart's total quantity of that product.
// An existing (slug, size) line is incremented instead of duplicated.
func (s *CartService) AddItem(id Identity, in AddItemInput) (*models.Cart, error) {
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	product, err := s.products.FindBySlug(in.ProductSlug)
	if err != nil {
		return nil, err
	}

	cart, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	if product.HasTag(models.TagBarry) {
		if !id.IsUser() {
			return nil, apperr.New(apperr.Unauthorized, "Sign in to purchase DL Barry pieces")
		}
		user, err := s.users.FindByID(id.UserID)
		if err != nil {
			return nil, err
		}
		inCart := cart.QuantityOf(product.Slug)
		if inCart+qty > user.BarryEntitlements {
			remaining := user.BarryEntitlements - inCart
			if remaining < 0 {
				remaining = 0
			}
			return nil, apperr.New(apperr.Forbidden,
				"You can add %d more unit(s) of this piece with your current entitlements", remaining)
		}
	}

	if i := cart.Find(product.Slug, in.Size); i >= 0 {
		cart.Items[i].Quantity += qty
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			CartID:      cart.ID,
			ProductSlug: product.Slug,
			Size:        in.Size,
			Name:        product.Name,
			Price:       product.Price,
			Image:       product.Image,
			Quantity:    qty,
		})
	}

	if err := s.carts.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItemInput is the cart line update body. Quantity stays untagged with
// required so a zero value passes validation and removes the line.
type UpdateItemInput struct {
	Quantity int    `json:"quantity" validate:"integer"`
	Size     string `json:"size" validate:"nullable,max=20"`
}

// UpdateItem sets the quantity of an existing (slug, size) line. A quantity
// of zero or less removes the line. No entitlement re-check happens here;
// only AddItem gates Barry quantities.
func (s *CartService) UpdateItem(id Identity, slug string, in UpdateItemInput) (*models.Cart, error) {
	cart, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	i := cart.Find(slug, in.Size)
	if i < 0 {
		return nil, apperr.New(apperr.NotFound, "Item not in cart")
	}

	if in.Quantity <= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity = in.Quantity
	}

	if err := s.carts.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes cart lines for a slug. With a size only the exact
// (slug, size) line goes; without one every line for the slug goes.
func (s *CartService) RemoveItem(id Identity, slug, size string) (*models.Cart, error) {
	cart, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductSlug == slug && (size == "" || item.Size == size) {
			continue
		}
		kept = append(kept, item)
	}
	cart.Items = kept

	if err := s.carts.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}
