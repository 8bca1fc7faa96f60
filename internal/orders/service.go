package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
	"github.com/adiwidodo/tokokita-backend/pkg/pagination"
)

// Service exposes the order history read side.
type Service interface {
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (DetailDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (PageDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds an order service over the given repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{repo: repo}, nil
}

// GetOrder loads one order. Foreign orders are Forbidden, missing ones
// NotFound.
func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (DetailDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return DetailDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return ToDetailDTO(order), nil
}

// ListOrders returns the user's order history, newest first.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (PageDTO, error) {
	page, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return page, nil
}

// ToDetailDTO maps the persisted order into its API shape.
func ToDetailDTO(order models.Order) DetailDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Total:       item.Total,
		})
	}
	return DetailDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		PaymentMethod:   order.PaymentMethod,
		ShippingService: order.ShippingService,
		ShippingAddress: order.ShippingAddress,
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		Total:           order.Total,
		TrackingNumber:  order.TrackingNumber,
		Notes:           order.Notes,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}
