package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/apperr"
	"github.com/dlatelier/storefront/pkg/database"
	"github.com/dlatelier/storefront/pkg/orm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{db: database.DB}
}

// Create persists a new order with its item snapshots.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// ByUser lists a user's orders newest first.
func (r *OrderRepository) ByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// ByIDForUser loads one order scoped to its owner.
func (r *OrderRepository) ByIDForUser(id, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ByID loads one order without owner scoping. Admin use only.
func (r *OrderRepository) ByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ByGatewayOrderForUser finds the order for a payment callback, scoped to the
// caller so one user cannot flip another user's order to paid.
func (r *OrderRepository) ByGatewayOrderForUser(gatewayOrderID string, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").
		Where("gateway_order_id = ? AND user_id = ?", gatewayOrderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid records the verified payment against the order.
func (r *OrderRepository) MarkPaid(order *models.Order, paymentID, signature string) error {
	order.Status = models.OrderPaid
	order.GatewayPaymentID = paymentID
	order.GatewaySignature = signature
	return r.db.Model(order).Updates(map[string]interface{}{
		"status":             models.OrderPaid,
		"gateway_payment_id": paymentID,
		"gateway_signature":  signature,
	}).Error
}

// UpdateStatus overwrites the order status.
func (r *OrderRepository) UpdateStatus(order *models.Order, status string) error {
	order.Status = status
	return r.db.Model(order).UpdateColumn("status", status).Error
}

// All lists every order newest first, paginated. Admin use only.
func (r *OrderRepository) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	p, err := orm.DB().
		Model(&models.Order{}).
		Order("created_at desc").
		GetWithPagination(&orders, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, err
	}

	// Preload does not flow through the pagination helper, so attach items
	// with one extra query.
	if len(orders) > 0 {
		ids := make([]uint, len(orders))
		for i := range orders {
			ids[i] = orders[i].ID
		}
		var items []models.OrderItem
		if err := r.db.Where("order_id IN ?", ids).Find(&items).Error; err != nil {
			return nil, orm.Pagination{}, err
		}
		byOrder := map[uint][]models.OrderItem{}
		for _, it := range items {
			byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
		}
		for i := range orders {
			orders[i].Items = byOrder[orders[i].ID]
		}
	}
	return orders, p, nil
}
