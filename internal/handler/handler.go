package handler

import (
	"pos-service/internal/payment"
	"pos-service/internal/service"
)

// Services bundles the dependencies the handler package operates on.
type Services struct {
	Auth          *service.AuthService
	StoreAccess   *service.StoreAccessService
	Stores        *service.StoreService
	Products      *service.ProductService
	Notifications *service.NotificationService
	Sales         *service.SaleService
	PayFast       *payment.PayFast
	Stripe        *payment.Stripe
}

var svc Services

// Initialize wires the handler package to its services. Must be called once
// from main before routes are registered.
func Initialize(s Services) {
	svc = s
}
