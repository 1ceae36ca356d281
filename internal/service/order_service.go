package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/naveen-gthb/khatabook/internal/ledger"
	api "github.com/naveen-gthb/khatabook/pkg/api"
	"github.com/naveen-gthb/khatabook/pkg/api/apiconnect"
)

// OrderService implements the Connect OrderService.
type OrderService struct {
	apiconnect.UnimplementedOrderServiceHandler
	ledger *ledger.Service
}

// NewOrderService creates an OrderService backed by the ledger.
func NewOrderService(l *ledger.Service) *OrderService {
	return &OrderService{ledger: l}
}

func (s *OrderService) CreateOrder(ctx context.Context, req *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.ledger.CreateOrder(ctx, userID, toOrderInput(req.Msg.Order))
	if err != nil {
		return nil, fail("CreateOrder", err, "user_id", userID)
	}

	slog.Info("Order created", "id", order.ID, "vendor", order.Vendor, "user_id", userID)
	return connect.NewResponse(&api.CreateOrderResponse{Order: toAPIOrder(order)}), nil
}

func (s *OrderService) GetOrder(ctx context.Context, req *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.ledger.GetOrder(ctx, userID, req.Msg.Id)
	if err != nil {
		return nil, fail("GetOrder", err, "id", req.Msg.Id)
	}
	return connect.NewResponse(&api.GetOrderResponse{Order: toAPIOrder(order)}), nil
}

func (s *OrderService) ListOrders(ctx context.Context, req *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.ledger.ListOrders(ctx, userID)
	if err != nil {
		return nil, fail("ListOrders", err, "user_id", userID)
	}
	return connect.NewResponse(&api.ListOrdersResponse{Orders: toAPIOrders(orders)}), nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, req *connect.Request[api.UpdateOrderRequest]) (*connect.Response[api.UpdateOrderResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.ledger.UpdateOrder(ctx, userID, req.Msg.Id, toOrderInput(req.Msg.Order))
	if err != nil {
		return nil, fail("UpdateOrder", err, "id", req.Msg.Id)
	}
	return connect.NewResponse(&api.UpdateOrderResponse{Order: toAPIOrder(order)}), nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, req *connect.Request[api.DeleteOrderRequest]) (*connect.Response[api.DeleteOrderResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.DeleteOrder(ctx, userID, req.Msg.Id); err != nil {
		return nil, fail("DeleteOrder", err, "id", req.Msg.Id)
	}
	return connect.NewResponse(&api.DeleteOrderResponse{}), nil
}
