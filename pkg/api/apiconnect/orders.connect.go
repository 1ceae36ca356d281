package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	api "github.com/naveen-gthb/khatabook/pkg/api"
)

// OrderServiceName is the fully-qualified name of the OrderService service.
const OrderServiceName = "khatabook.v1.OrderService"

const (
	OrderServiceCreateOrderProcedure = "/khatabook.v1.OrderService/CreateOrder"
	OrderServiceGetOrderProcedure    = "/khatabook.v1.OrderService/GetOrder"
	OrderServiceListOrdersProcedure  = "/khatabook.v1.OrderService/ListOrders"
	OrderServiceUpdateOrderProcedure = "/khatabook.v1.OrderService/UpdateOrder"
	OrderServiceDeleteOrderProcedure = "/khatabook.v1.OrderService/DeleteOrder"
)

// OrderServiceClient is a client for the khatabook.v1.OrderService service.
type OrderServiceClient interface {
	CreateOrder(context.Context, *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error)
	GetOrder(context.Context, *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error)
	ListOrders(context.Context, *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error)
	UpdateOrder(context.Context, *connect.Request[api.UpdateOrderRequest]) (*connect.Response[api.UpdateOrderResponse], error)
	DeleteOrder(context.Context, *connect.Request[api.DeleteOrderRequest]) (*connect.Response[api.DeleteOrderResponse], error)
}

// NewOrderServiceClient constructs a client for the khatabook.v1.OrderService service.
func NewOrderServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) OrderServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &orderServiceClient{
		createOrder: connect.NewClient[api.CreateOrderRequest, api.CreateOrderResponse](httpClient, baseURL+OrderServiceCreateOrderProcedure, opts...),
		getOrder:    connect.NewClient[api.GetOrderRequest, api.GetOrderResponse](httpClient, baseURL+OrderServiceGetOrderProcedure, opts...),
		listOrders:  connect.NewClient[api.ListOrdersRequest, api.ListOrdersResponse](httpClient, baseURL+OrderServiceListOrdersProcedure, opts...),
		updateOrder: connect.NewClient[api.UpdateOrderRequest, api.UpdateOrderResponse](httpClient, baseURL+OrderServiceUpdateOrderProcedure, opts...),
		deleteOrder: connect.NewClient[api.DeleteOrderRequest, api.DeleteOrderResponse](httpClient, baseURL+OrderServiceDeleteOrderProcedure, opts...),
	}
}

type orderServiceClient struct {
	createOrder *connect.Client[api.CreateOrderRequest, api.CreateOrderResponse]
	getOrder    *connect.Client[api.GetOrderRequest, api.GetOrderResponse]
	listOrders  *connect.Client[api.ListOrdersRequest, api.ListOrdersResponse]
	updateOrder *connect.Client[api.UpdateOrderRequest, api.UpdateOrderResponse]
	deleteOrder *connect.Client[api.DeleteOrderRequest, api.DeleteOrderResponse]
}

func (c *orderServiceClient) CreateOrder(ctx context.Context, req *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error) {
	return c.createOrder.CallUnary(ctx, req)
}

func (c *orderServiceClient) GetOrder(ctx context.Context, req *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error) {
	return c.getOrder.CallUnary(ctx, req)
}

func (c *orderServiceClient) ListOrders(ctx context.Context, req *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error) {
	return c.listOrders.CallUnary(ctx, req)
}

func (c *orderServiceClient) UpdateOrder(ctx context.Context, req *connect.Request[api.UpdateOrderRequest]) (*connect.Response[api.UpdateOrderResponse], error) {
	return c.updateOrder.CallUnary(ctx, req)
}

func (c *orderServiceClient) DeleteOrder(ctx context.Context, req *connect.Request[api.DeleteOrderRequest]) (*connect.Response[api.DeleteOrderResponse], error) {
	return c.deleteOrder.CallUnary(ctx, req)
}

// OrderServiceHandler is an implementation of the khatabook.v1.OrderService service.
type OrderServiceHandler interface {
	CreateOrder(context.Context, *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error)
	GetOrder(context.Context, *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error)
	ListOrders(context.Context, *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error)
	UpdateOrder(context.Context, *connect.Request[api.UpdateOrderRequest]) (*connect.Response[api.UpdateOrderResponse], error)
	DeleteOrder(context.Context, *connect.Request[api.DeleteOrderRequest]) (*connect.Response[api.DeleteOrderResponse], error)
}

// NewOrderServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewOrderServiceHandler(svc OrderServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createOrderHandler := connect.NewUnaryHandler(OrderServiceCreateOrderProcedure, svc.CreateOrder, opts...)
	getOrderHandler := connect.NewUnaryHandler(OrderServiceGetOrderProcedure, svc.GetOrder, opts...)
	listOrdersHandler := connect.NewUnaryHandler(OrderServiceListOrdersProcedure, svc.ListOrders, opts...)
	updateOrderHandler := connect.NewUnaryHandler(OrderServiceUpdateOrderProcedure, svc.UpdateOrder, opts...)
	deleteOrderHandler := connect.NewUnaryHandler(OrderServiceDeleteOrderProcedure, svc.DeleteOrder, opts...)
	return "/" + OrderServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case OrderServiceCreateOrderProcedure:
			createOrderHandler.ServeHTTP(w, r)
		case OrderServiceGetOrderProcedure:
			getOrderHandler.ServeHTTP(w, r)
		case OrderServiceListOrdersProcedure:
			listOrdersHandler.ServeHTTP(w, r)
		case OrderServiceUpdateOrderProcedure:
			updateOrderHandler.ServeHTTP(w, r)
		case OrderServiceDeleteOrderProcedure:
			deleteOrderHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedOrderServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedOrderServiceHandler struct{}

func (UnimplementedOrderServiceHandler) CreateOrder(context.Context, *connect.Request[api.CreateOrderRequest]) (*connect.Response[api.CreateOrderResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.OrderService.CreateOrder is not implemented"))
}

func (UnimplementedOrderServiceHandler) GetOrder(context.Context, *connect.Request[api.GetOrderRequest]) (*connect.Response[api.GetOrderResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.OrderService.GetOrder is not implemented"))
}

func (UnimplementedOrderServiceHandler) ListOrders(context.Context, *connect.Request[api.ListOrdersRequest]) (*connect.Response[api.ListOrdersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.OrderService.ListOrders is not implemented"))
}

func (UnimplementedOrderServiceHandler) UpdateOrder(context.Context, *connect.Request[api.UpdateOrderRequest]) (*connect.Response[api.UpdateOrderResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.OrderService.UpdateOrder is not implemented"))
}

func (UnimplementedOrderServiceHandler) DeleteOrder(context.Context, *connect.Request[api.DeleteOrderRequest]) (*connect.Response[api.DeleteOrderResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.OrderService.DeleteOrder is not implemented"))
}
