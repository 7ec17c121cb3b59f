// Package resources shapes models into their API representations.
package resources

import (
	"github.com/dlatelier/storefront/app/models"
)

// OrderResource exposes an order without its currency or gateway signature.
type OrderResource struct {
	Order models.Order
}

func NewOrder(o models.Order) OrderResource { return OrderResource{Order: o} }

// Collection wraps a slice of orders.
func Collection(orders []models.Order) []OrderResource {
	out := make([]OrderResource, len(orders))
	for i, o := range orders {
		out[i] = NewOrder(o)
	}
	return out
}

func (r OrderResource) ToArray() map[string]interface{} {
	o := r.Order
	items := make([]map[string]interface{}, len(o.Items))
	for i, it := range o.Items {
		items[i] = map[string]interface{}{
			"product_slug": it.ProductSlug,
			"size":         it.Size,
			"name":         it.Name,
			"price":        it.Price,
			"image":        it.Image,
			"quantity":     it.Quantity,
		}
	}

	return map[string]interface{}{
		"id":           o.ID,
		"order_number": o.OrderNumber,
		"status":       o.Status,
		"subtotal":     o.Subtotal,
		"items":        items,
		"shipping": map[string]interface{}{
			"street":      o.ShippingStreet,
			"city":        o.ShippingCity,
			"state":       o.ShippingState,
			"postal_code": o.ShippingPostalCode,
			"country":     o.ShippingCountry,
			"phone":       o.ShippingPhone,
		},
		"gateway_order_id":   o.GatewayOrderID,
		"gateway_payment_id": o.GatewayPaymentID,
		"created_at":         o.CreatedAt,
	}
}
