package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/lesson-booking/internal/logging"
	"github.com/iliyamo/lesson-booking/internal/model"
	"github.com/iliyamo/lesson-booking/internal/service/ports"
)

const publishTimeout = 5 * time.Second

// PlaceOrderInput is a cart submission. Seats on a line may be omitted;
// it is always one.
type PlaceOrderInput struct {
	Name  string           `json:"name" validate:"required,max=100"`
	Phone string           `json:"phone" validate:"required,max=32"`
	Cart  []model.CartLine `json:"cart" validate:"required,min=1,dive"`
}

// OrderService turns carts into orders. It is the only writer that
// decrements seat counts.
type OrderService struct {
	orders   ports.OrderStore
	validate *validator.Validate
	options
}

// NewOrderService builds an OrderService on top of the given store.
func NewOrderService(orders ports.OrderStore, opts ...Option) *OrderService {
	if orders == nil {
		panic("nil order store passed to NewOrderService")
	}
	return &OrderService{
		orders:   orders,
		validate: validator.New(),
		options:  buildOptions(opts),
	}
}

// PlaceOrder reserves one seat per cart line and records the order, all in
// one transaction. If any line finds its lesson without seats (or missing)
// nothing is decremented and an *OversoldError naming those lessons is
// returned. Storage failures are wrapped in ErrStoreUnavailable and also
// leave no trace, so the caller may safely ask the user to retry.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*model.Order, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid("%s", describeValidation(err))
	}

	lines := make([]model.CartLine, len(in.Cart))
	for i, l := range in.Cart {
		lines[i] = model.CartLine{LessonID: l.LessonID, Seats: 1}
	}
	order := &model.Order{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Phone:     in.Phone,
		Lessons:   lines,
		CreatedAt: s.now().UTC(),
	}

	// Seats are taken in ascending lesson id so concurrent carts lock rows
	// in the same order. Lines are stored in cart order.
	lockOrder := make([]uint64, len(lines))
	for i, l := range lines {
		lockOrder[i] = l.LessonID
	}
	slices.Sort(lockOrder)

	err := s.orders.WithinTx(ctx, func(tx ports.OrderTx) error {
		var failed []uint64
		for _, id := range lockOrder {
			ok, err := tx.DecrementSpace(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				failed = append(failed, id)
			}
		}
		if len(failed) > 0 {
			return &OversoldError{LessonIDs: failed}
		}
		return tx.InsertOrder(ctx, order)
	})

	log := logging.FromContext(ctx, s.log).WithFields(logrus.Fields{"order_id": order.ID, "lines": len(lines)})
	var oversold *OversoldError
	switch {
	case errors.As(err, &oversold):
		log.WithField("lesson_ids", oversold.LessonIDs).Info("order rejected: oversold")
		return nil, err
	case err != nil:
		log.WithError(err).Error("order placement failed")
		return nil, unavailable(err)
	}
	log.Info("order placed")

	s.afterCommit(ctx, log, *order)
	return order, nil
}

// afterCommit runs best-effort side effects. Their failures are logged and
// never undo a committed order.
func (s *OrderService) afterCommit(ctx context.Context, log logrus.FieldLogger, order model.Order) {
	bg := context.WithoutCancel(ctx)
	if s.cache != nil {
		if err := s.cache.InvalidateCatalog(bg); err != nil {
			log.WithError(err).Warn("catalog cache invalidation failed")
		}
	}
	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(bg, publishTimeout)
		defer cancel()
		if err := s.publisher.PublishOrderPlaced(pubCtx, order); err != nil {
			log.WithError(err).Warn("publishing order.placed failed")
		}
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Namespace())
		field = strings.TrimPrefix(field, "placeorderinput.")
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "min":
			parts = append(parts, field+" must not be empty")
		case "max":
			parts = append(parts, field+" is too long")
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
