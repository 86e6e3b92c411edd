package service

import (
	"context"
	"time"

	"laundry-system/internal/common/logger"
	"laundry-system/internal/domain"
	"laundry-system/internal/metrics"
	"laundry-system/internal/notification"
	"laundry-system/internal/orders/repository"
	"laundry-system/internal/phase"
	rosterservice "laundry-system/internal/roster/service"
)

type OrderServiceInterface interface {
	Lookup(ctx context.Context, code string) (*domain.LookupResponse, error)
	Get(ctx context.Context, collection domain.Collection, id int64) (*domain.OrderResponse, error)
	List(ctx context.Context, filter domain.ListFilter) (*domain.ListOrdersResponse, error)
	StartPhase(ctx context.Context, collection domain.Collection, id int64, p domain.Phase, req domain.StartPhaseRequest) (*domain.OrderResponse, error)
	CompletePhase(ctx context.Context, collection domain.Collection, id int64, p domain.Phase) (*domain.OrderResponse, error)
	RevertPhase(ctx context.Context, collection domain.Collection, id int64, p domain.Phase) (*domain.OrderResponse, error)
}

var _ OrderServiceInterface = (*OrderService)(nil)

type OrderService struct {
	repo    repository.OrderRepositoryInterface
	roster  rosterservice.RosterServiceInterface
	pub     notification.Publisher
	metrics *metrics.Collector
	log     *logger.Logger
	now     func() time.Time
}

func NewOrderService(
	repo repository.OrderRepositoryInterface,
	roster rosterservice.RosterServiceInterface,
	pub notification.Publisher,
	collector *metrics.Collector,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		repo:    repo,
		roster:  roster,
		pub:     pub,
		metrics: collector,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *OrderService) Lookup(ctx context.Context, code string) (*domain.LookupResponse, error) {
	o, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if _, ok := err.(*domain.NotFoundError); ok {
			s.metrics.RecordLookup(false)
		}
		return nil, err
	}
	s.metrics.RecordLookup(true)
	return &domain.LookupResponse{
		Collection: o.Collection,
		Order:      o,
		Timeline:   phase.Timeline(o),
	}, nil
}

func (s *OrderService) Get(ctx context.Context, collection domain.Collection, id int64) (*domain.OrderResponse, error) {
	o, err := s.repo.GetOrder(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	return &domain.OrderResponse{Collection: collection, Order: o, Timeline: phase.Timeline(o)}, nil
}

func (s *OrderService) List(ctx context.Context, filter domain.ListFilter) (*domain.ListOrdersResponse, error) {
	// counts always span the whole in-flight set, filters only narrow the
	// listing
	all, err := s.repo.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.Phase]int)
	for _, o := range all {
		counts[o.EffectivePhase()]++
	}

	orders := all
	if filter.Phase != "" || filter.Status != "" || filter.Collection != "" {
		orders, err = s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
	}
	return &domain.ListOrdersResponse{Orders: orders, Counts: counts}, nil
}

func (s *OrderService) StartPhase(ctx context.Context, collection domain.Collection, id int64, p domain.Phase, req domain.StartPhaseRequest) (*domain.OrderResponse, error) {
	o, err := s.repo.GetOrder(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	in := phase.StartInput{
		VehiclePlate:     req.VehiclePlate,
		EstimatedMinutes: req.EstimatedMinutes,
	}
	if p != domain.PhaseDispatch {
		// only touch the roster once the transition itself is possible,
		// so a rejected start does not leave a fresh roster entry behind
		if p == o.EffectivePhase() && o.Record(p).Status == domain.PhasePending {
			member, err := s.roster.Resolve(ctx, req.StaffName, req.StaffCode)
			if err != nil {
				return nil, err
			}
			in.StaffName = member.Name
			in.StaffCode = member.Code
		}
	}

	patch, err := phase.StartPhase(o, p, in, s.now())
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.ApplyPatch(ctx, collection, id, patch)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPhaseStarted(string(p))
	s.publishEvents(updated, p, "phase_started", domain.NotifyStarted, "")
	s.log.Info("phase_started", map[string]any{
		"order_code": updated.Code, "collection": string(collection), "phase": string(p),
	})
	return &domain.OrderResponse{Collection: collection, Order: updated, Timeline: phase.Timeline(updated)}, nil
}

func (s *OrderService) CompletePhase(ctx context.Context, collection domain.Collection, id int64, p domain.Phase) (*domain.OrderResponse, error) {
	o, err := s.repo.GetOrder(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	res, err := phase.CompletePhase(o, p, s.now())
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.ApplyPatch(ctx, collection, id, res.Patch)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPhaseCompleted(string(p), updated.Record(p).ActualMinutes)
	kind := domain.NotifyAdvanced
	if res.Terminal {
		kind = domain.NotifyTerminal
	}
	s.publishEvents(updated, p, "phase_completed", kind, res.NextPhase)
	s.log.Info("phase_completed", map[string]any{
		"order_code": updated.Code, "collection": string(collection), "phase": string(p),
		"terminal": res.Terminal, "next_phase": string(res.NextPhase),
	})
	return &domain.OrderResponse{Collection: collection, Order: updated, Timeline: phase.Timeline(updated)}, nil
}

func (s *OrderService) RevertPhase(ctx context.Context, collection domain.Collection, id int64, p domain.Phase) (*domain.OrderResponse, error) {
	o, err := s.repo.GetOrder(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	patch, err := phase.RevertPhase(o, p)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.ApplyPatch(ctx, collection, id, patch)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPhaseReverted(string(p))
	// reverts are an operator correction; clients are not notified
	s.publishOrderUpdated(updated, p, "phase_reverted")
	s.log.Info("phase_reverted", map[string]any{
		"order_code": updated.Code, "collection": string(collection), "phase": string(p),
	})
	return &domain.OrderResponse{Collection: collection, Order: updated, Timeline: phase.Timeline(updated)}, nil
}

// publishEvents emits the order-updated event and, when the order has a
// phone number, the client notification. Both are fire-and-forget.
func (s *OrderService) publishEvents(o *domain.Order, p domain.Phase, action string, kind domain.NotificationKind, nextPhase domain.Phase) {
	s.publishOrderUpdated(o, p, action)

	ev, ok := notification.Compose(o, p, kind, nextPhase, s.now())
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.pub.PublishNotification(ctx, ev); err != nil {
		s.log.Error("notification_publish_failed", err, map[string]any{"order_code": o.Code})
		return
	}
	s.metrics.RecordNotification()
}

func (s *OrderService) publishOrderUpdated(o *domain.Order, p domain.Phase, action string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.pub.PublishOrderUpdated(ctx, domain.OrderUpdatedEvent{
		Collection:    o.Collection,
		OrderID:       o.ID,
		OrderCode:     o.Code,
		Action:        action,
		Phase:         p,
		CurrentPhase:  o.EffectivePhase(),
		OverallStatus: o.OverallStatus,
		OccurredAt:    s.now(),
	})
	if err != nil {
		s.log.Error("order_event_publish_failed", err, map[string]any{"order_code": o.Code})
	}
}
