package checkout

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/internal/cart"
	"github.com/adiwidodo/tokokita-backend/internal/checkout/reservation"
	"github.com/adiwidodo/tokokita-backend/internal/orders"
	"github.com/adiwidodo/tokokita-backend/internal/shipping"
	"github.com/adiwidodo/tokokita-backend/pkg/enums"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
	"github.com/adiwidodo/tokokita-backend/pkg/metrics"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reservationRunner interface {
	Reserve(ctx context.Context, tx *gorm.DB, requests []reservation.StockRequest) ([]reservation.StockResult, error)
}

type reservationEngine struct{}

func (reservationEngine) Reserve(ctx context.Context, tx *gorm.DB, requests []reservation.StockRequest) ([]reservation.StockResult, error) {
	return reservation.ReserveStock(ctx, tx, requests)
}

// Service turns a cart into an order atomically.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, input Input) (orders.DetailDTO, error)
}

type service struct {
	tx          txRunner
	cartRepo    *cart.Repository
	ordersRepo  *orders.Repository
	shippingSvc shipping.Service
	reservation reservationRunner
	checkoutCfg Config
	metrics     *metrics.CheckoutMetrics
}

// Config carries checkout tunables.
type Config struct {
	OrderNumberMaxRetries int
}

// NewService builds the checkout coordinator.
func NewService(
	tx txRunner,
	cartRepo *cart.Repository,
	ordersRepo *orders.Repository,
	shippingSvc shipping.Service,
	reservationRunner reservationRunner,
	cfg Config,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner required")
	}
	if cartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository required")
	}
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository required")
	}
	if shippingSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping service required")
	}
	if reservationRunner == nil {
		reservationRunner = reservationEngine{}
	}
	if cfg.OrderNumberMaxRetries < 1 {
		cfg.OrderNumberMaxRetries = 3
	}
	return &service{
		tx:          tx,
		cartRepo:    cartRepo,
		ordersRepo:  ordersRepo,
		shippingSvc: shippingSvc,
		reservation: reservationRunner,
		checkoutCfg: cfg,
		metrics:     checkoutMetrics,
	}, nil
}

// Execute validates the input, then runs the whole commit as one transaction:
// reserve stock line by line, price the cart, persist the order with its item
// snapshots and clear the cart. Any failure rolls the group back.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, input Input) (orders.DetailDTO, error) {
	if userID == uuid.Nil {
		return orders.DetailDTO{}, s.reject(pkgerrors.New(pkgerrors.CodeValidation, "user id required"))
	}

	input.ShippingAddress.Normalize()
	if err := validate.Struct(input.ShippingAddress); err != nil {
		return orders.DetailDTO{}, s.reject(pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address"))
	}

	serviceOption, err := s.shippingSvc.Lookup(input.ShippingService)
	if err != nil {
		return orders.DetailDTO{}, s.reject(err)
	}

	paymentMethod, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return orders.DetailDTO{}, s.reject(pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
	}

	var created orders.DetailDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		lines, err := cartRepo.ListLines(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		requests := make([]reservation.StockRequest, 0, len(lines))
		for _, line := range lines {
			requests = append(requests, reservation.StockRequest{
				CartItemID: line.ID,
				ProductID:  line.ProductID,
				Qty:        line.Quantity,
			})
		}

		results, err := s.reservation.Reserve(ctx, tx, requests)
		if err != nil {
			return err
		}
		for i, result := range results {
			if !result.Reserved {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for "+lines[i].ProductName).
					WithDetails(map[string]any{
						"product_id": result.ProductID,
						"requested":  result.Qty,
						"available":  lines[i].Stock,
					})
			}
		}

		pricing := ComputePricing(lines, serviceOption.Cost)

		snapshots := make([]orders.ItemSnapshot, 0, len(lines))
		for _, line := range lines {
			snapshots = append(snapshots, orders.ItemSnapshot{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Price:       line.Price,
				Quantity:    line.Quantity,
			})
		}

		order := orders.Assemble(orders.AssembleInput{
			UserID:          userID,
			Items:           snapshots,
			ShippingAddress: input.ShippingAddress,
			ShippingService: serviceOption.Code,
			PaymentMethod:   paymentMethod,
			Subtotal:        pricing.Subtotal,
			ShippingCost:    pricing.ShippingCost,
			Total:           pricing.Total,
			Notes:           input.Notes,
		})

		if err := ordersRepo.CreateWithFreshNumber(ctx, order, s.checkoutCfg.OrderNumberMaxRetries); err != nil {
			return err
		}

		if err := cartRepo.DeleteAllForUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		created = orders.ToDetailDTO(*order)
		return nil
	})
	if err != nil {
		return orders.DetailDTO{}, s.reject(err)
	}

	s.metrics.IncCommitted()
	return created, nil
}

func (s *service) reject(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		s.metrics.IncRejected(string(typed.Code()))
	} else {
		s.metrics.IncRejected("internal")
	}
	return err
}
