package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pos-service/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleService records checkouts: sale plus line items in one transaction with
// stock decrements, and a best-effort completion notification afterwards.
type SaleService struct {
	db            *gorm.DB
	notifications *NotificationService
	log           *zap.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(db *gorm.DB, notifications *NotificationService, log *zap.Logger) *SaleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SaleService{db: db, notifications: notifications, log: log}
}

// SaleItemInput is one requested line of a sale
type SaleItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateSaleInput carries a checkout request
type CreateSaleInput struct {
	TenantID      uint
	StoreID       uint
	StaffID       uint
	CustomerID    *uint
	PaymentMethod string
	Discount      float64
	Tax           float64
	Items         []SaleItemInput
}

// CreateSale validates stock, computes totals, and persists the sale with its
// items atomically. The completion notification is fired after commit and
// never fails the sale.
func (s *SaleService) CreateSale(ctx context.Context, input CreateSaleInput) (*model.Sale, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("sale requires at least one item")
	}

	var sale model.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		items := make([]model.SaleItem, 0, len(input.Items))

		for _, line := range input.Items {
			if line.Quantity <= 0 {
				return fmt.Errorf("invalid quantity %d for product %d", line.Quantity, line.ProductID)
			}

			var product model.Product
			result := tx.Where("id = ? AND tenant_id = ?", line.ProductID, input.TenantID).First(&product)
			if result.Error != nil {
				return ErrNotFound
			}

			if product.Stock < line.Quantity {
				return ErrInsufficientStock
			}

			if err := tx.Model(&model.Product{}).Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
				return err
			}

			lineTotal := product.Price * float64(line.Quantity)
			subtotal += lineTotal
			items = append(items, model.SaleItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				Total:     lineTotal,
			})
		}

		sale = model.Sale{
			InvoiceNumber: newInvoiceNumber(),
			Subtotal:      subtotal,
			Discount:      input.Discount,
			Tax:           input.Tax,
			Total:         subtotal - input.Discount + input.Tax,
			PaymentMethod: input.PaymentMethod,
			CustomerID:    input.CustomerID,
			StaffID:       input.StaffID,
			TenantID:      input.TenantID,
			StoreID:       input.StoreID,
			Status:        "completed",
			Items:         items,
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Sale recorded",
		zap.String("invoice", sale.InvoiceNumber),
		zap.Uint("store_id", sale.StoreID),
		zap.Float64("total", sale.Total))

	if s.notifications != nil {
		title := "Sale completed"
		body := fmt.Sprintf("Invoice %s for %.2f", sale.InvoiceNumber, sale.Total)
		if _, err := s.notifications.CreateNotification(sale.StaffID, model.NotificationSaleCompleted, title, body, map[string]interface{}{
			"sale_id": sale.ID,
			"invoice": sale.InvoiceNumber,
		}); err != nil {
			s.log.Warn("Failed to persist sale notification", zap.Error(err))
		}
		s.notifications.SendTopicNotification(ctx, sale.TenantID, sale.StoreID, "sales", title, body, map[string]string{
			"sale_id": strconv.FormatUint(uint64(sale.ID), 10),
		})
	}

	return &sale, nil
}

// ListSales returns a newest-first page of sales for a tenant, optionally
// narrowed to one store.
func (s *SaleService) ListSales(tenantID uint, storeID *uint, page, limit int) ([]model.Sale, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := s.db.Model(&model.Sale{}).Where("tenant_id = ?", tenantID)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []model.Sale
	result := query.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sales)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return sales, total, nil
}

// GetSale returns one sale within the tenant.
func (s *SaleService) GetSale(tenantID, saleID uint) (*model.Sale, error) {
	var sale model.Sale
	result := s.db.Preload("Items").Where("id = ? AND tenant_id = ?", saleID, tenantID).First(&sale)
	if result.Error != nil {
		return nil, ErrNotFound
	}
	return &sale, nil
}

func newInvoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), suffix)
}
