package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/grocer-backend/internal/domain/bcoin"
	"github.com/google/uuid"
)

// deliveryEstimate is how far out the estimated delivery is set at creation.
const deliveryEstimate = 24 * time.Hour

type Service struct {
	store  Store
	events Publisher
}

func NewService(store Store, events Publisher) *Service {
	return &Service{store: store, events: events}
}

// ItemRequest is one requested cart line.
type ItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceRequest is the proposed cart for a new order.
type PlaceRequest struct {
	Items           []ItemRequest `json:"items"`
	DeliveryAddress string        `json:"delivery_address"`
	PhoneNumber     string        `json:"phone_number"`
	PaymentMode     PaymentMode   `json:"payment_mode"`
	BcoinsUsed      int           `json:"bcoins_used"`
}

// Place validates the cart against the catalog, reserves stock, applies the
// bcoin discount, persists the order and appends the loyalty ledger entries.
// All mutations run in one transaction: a failure on any item rolls back
// every prior stock decrement and no partial order is ever persisted.
func (s *Service) Place(ctx context.Context, userID string, req PlaceRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if req.PaymentMode == "" {
		req.PaymentMode = PaymentCashOnDelivery
	}
	if !ValidPaymentMode(req.PaymentMode) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMode, req.PaymentMode)
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, it.ProductID)
		}
	}

	var placed *Order
	err := s.store.Transact(ctx, func(tx Tx) error {
		subtotal := 0
		items := make([]OrderItem, 0, len(req.Items))

		for _, it := range req.Items {
			p, err := tx.FindActiveProduct(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("%w (product %s)", err, it.ProductID)
			}

			lineTotal := p.DiscountedPrice * it.Quantity
			subtotal += lineTotal
			items = append(items, OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				UnitPrice:   p.DiscountedPrice,
				TotalPrice:  lineTotal,
				Unit:        p.Unit,
			})

			// Open products are sold by weight/volume; no stock to decrement.
			if !p.IsOpen {
				if err := tx.DecrementStock(ctx, p.ID, it.Quantity); err != nil {
					return fmt.Errorf("%w for %s", err, p.Name)
				}
			}
		}

		total := subtotal
		if req.BcoinsUsed > 0 {
			if err := tx.DebitBcoins(ctx, userID, req.BcoinsUsed); err != nil {
				return err
			}
			total = subtotal - req.BcoinsUsed
			if total < 0 {
				total = 0
			}
		}

		now := time.Now()
		o := &Order{
			ID:                uuid.New().String(),
			UserID:            userID,
			Items:             items,
			Status:            StatusPending,
			TotalAmount:       total,
			DeliveryAddress:   req.DeliveryAddress,
			PhoneNumber:       req.PhoneNumber,
			PaymentMode:       req.PaymentMode,
			PaymentStatus:     PaymentPending,
			BcoinsUsed:        req.BcoinsUsed,
			EstimatedDelivery: now.Add(deliveryEstimate),
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}

		// Award bcoins on the pre-discount subtotal.
		originalAmount := total + req.BcoinsUsed
		if earned := bcoin.EarnedFor(originalAmount); earned > 0 {
			entry := &bcoin.Entry{
				ID:              uuid.New().String(),
				UserID:          userID,
				OrderID:         o.ID,
				AmountSpent:     originalAmount,
				Bcoins:          earned,
				TransactionType: bcoin.TypeEarned,
				Description:     fmt.Sprintf("Earned from order %s", o.ID),
				CreatedAt:       now,
			}
			if err := tx.InsertLedgerEntry(ctx, entry); err != nil {
				return err
			}
			if err := tx.CreditBcoins(ctx, userID, earned); err != nil {
				return err
			}
		}

		if req.BcoinsUsed > 0 {
			entry := &bcoin.Entry{
				ID:              uuid.New().String(),
				UserID:          userID,
				OrderID:         o.ID,
				AmountSpent:     req.BcoinsUsed * bcoin.RedeemRate,
				Bcoins:          req.BcoinsUsed,
				TransactionType: bcoin.TypeRedeemed,
				Description:     fmt.Sprintf("Redeemed for order %s", o.ID),
				CreatedAt:       now,
			}
			if err := tx.InsertLedgerEntry(ctx, entry); err != nil {
				return err
			}
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, placed.ID, EventOrderPlaced, OrderPlaced{
		OrderID:     placed.ID,
		UserID:      placed.UserID,
		Items:       placed.Items,
		TotalAmount: placed.TotalAmount,
		BcoinsUsed:  placed.BcoinsUsed,
		PhoneNumber: placed.PhoneNumber,
		PlacedAt:    placed.CreatedAt,
	})
	return placed, nil
}

// UpdateStatus advances an order through its lifecycle. The persisted write
// is conditional on the status the transition was validated against.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, target Status) (*Order, error) {
	o, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.CanTransitionTo(target) {
		return nil, o.transitionError(target)
	}

	if err := s.store.UpdateStatus(ctx, orderID, o.Status, target); err != nil {
		return nil, err
	}
	o.Status = target
	o.UpdatedAt = time.Now()

	s.publish(ctx, o.ID, EventOrderStatusChanged, OrderStatusChanged{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      target,
		PhoneNumber: o.PhoneNumber,
		ChangedAt:   o.UpdatedAt,
	})
	return o, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.store.FindByID(ctx, orderID)
}

func (s *Service) ListByUser(ctx context.Context, userID string, status Status, limit, offset int) ([]*Order, int, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.List(ctx, ListFilter{UserID: userID, Status: status, Limit: limit, Offset: offset})
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Order, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return s.store.List(ctx, f)
}

// publish is fire-and-forget: notification latency or failure never delays
// or rolls back the committed operation.
func (s *Service) publish(ctx context.Context, key, eventType string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, eventType, payload); err != nil {
		log.Printf("[Order] Failed to publish %s for order %s: %v", eventType, key, err)
	}
}
