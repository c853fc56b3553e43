package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/database"
	"github.com/schoolsupply/orderdesk/internal/enum"
	"github.com/schoolsupply/orderdesk/internal/orderid"
	"github.com/schoolsupply/orderdesk/internal/receipt"
	"github.com/schoolsupply/orderdesk/internal/selection"
	"github.com/schoolsupply/orderdesk/internal/ws"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxOrderIDRetries = 3

// Errors returned by the order service.
var (
	ErrMissingCustomer     = errors.New("name and phone are required")
	ErrEmptySelection      = errors.New("select at least one item")
	ErrZeroTotal           = errors.New("order total must be greater than zero")
	ErrInvalidPaymentType  = errors.New("payment_type must be FULL or PARTIAL")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrPaymentRequired     = errors.New("an initial payment is required")
	ErrReceiptRequired     = errors.New("a payment receipt is required")
	ErrInsufficientPayment = errors.New("payment does not cover the order total")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderClosed         = errors.New("order can no longer be modified")
	ErrInvalidStatus       = errors.New("invalid status")
)

// ChangeLogTimeLayout formats timestamps appended to an order's change log.
const ChangeLogTimeLayout = "2006-01-02 15:04:05"

// ReceiptUploadWarning is returned alongside a saved order whose receipt
// could not be stored.
const ReceiptUploadWarning = "order saved, but the receipt upload failed; send it again by WhatsApp"

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to write orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	ListOrderIDs(ctx context.Context) ([]string, error)
	GetOrderForUpdate(ctx context.Context, id string) (database.Order, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	UpdateOrder(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error)
	UpdateOrderReceipts(ctx context.Context, arg database.UpdateOrderReceiptsParams) (database.Order, error)
	UpdateOrderStatusBalance(ctx context.Context, arg database.UpdateOrderStatusBalanceParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id string) (int64, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// CatalogSource returns the current catalog.
type CatalogSource interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}

// Notifier publishes order events to connected admins.
type Notifier interface {
	Publish(eventType string, payload any)
}

// Upload is a receipt file sent with a request.
type Upload struct {
	Filename string
	Data     []byte
}

// SubmitRequest is a new order placed by a customer.
type SubmitRequest struct {
	CustomerName string
	Phone        string
	Selection    selection.Flags
	PaymentType  string
	Amount       decimal.Decimal
	Receipt      *Upload
}

// EditRequest changes the items of an existing order and optionally records
// another payment with its receipt.
type EditRequest struct {
	ID           string
	CustomerName string
	Phone        string
	Selection    selection.Flags
	PaymentType  string
	Amount       decimal.Decimal
	Receipt      *Upload
}

// ManualRequest is an order entered by an admin for an in-person sale.
type ManualRequest struct {
	CustomerName string
	Phone        string
	Selection    selection.Flags
	Paid         decimal.Decimal
	Status       string
}

// StatusUpdate is one row of the admin bulk editor.
type StatusUpdate struct {
	ID      string
	Status  string
	Balance decimal.Decimal
}

// Result is a saved order plus an optional non-fatal warning.
type Result struct {
	Order   database.Order
	Warning string
}

// OrderEvent is the payload published for order changes.
type OrderEvent struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Balance      decimal.Decimal `json:"balance"`
	Status       string          `json:"status"`
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	catalogs CatalogSource
	receipts receipt.Store
	ids      orderid.Allocator
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

// NewOrderService creates a new OrderService. notifier may be nil.
func NewOrderService(
	pool TxBeginner,
	newStore NewOrderStore,
	catalogs CatalogSource,
	receipts receipt.Store,
	ids orderid.Allocator,
	notifier Notifier,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		pool:     pool,
		newStore: newStore,
		catalogs: catalogs,
		receipts: receipts,
		ids:      ids,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Submit validates and stores a customer order, then uploads its receipt.
// Retries up to maxOrderIDRetries times when a concurrent submission took
// the same id.
func (s *OrderService) Submit(ctx context.Context, req SubmitRequest) (*Result, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.CustomerName == "" || req.Phone == "" {
		return nil, ErrMissingCustomer
	}
	if err := validatePaymentType(req.PaymentType); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	enc, err := s.encode(ctx, req.Selection)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, ErrPaymentRequired
	}
	if req.Receipt == nil || len(req.Receipt.Data) == 0 {
		return nil, ErrReceiptRequired
	}
	ext, err := receipt.Ext(req.Receipt.Filename)
	if err != nil {
		return nil, err
	}
	if req.PaymentType == enum.PaymentTypeFull && req.Amount.LessThan(enc.Total) {
		return nil, ErrInsufficientPayment
	}

	now := s.now()
	params := database.CreateOrderParams{
		CreatedAt:    now,
		UpdatedAt:    now,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Detail:       enc.Detail,
		Total:        database.Numeric(enc.Total),
		Paid:         database.Numeric(req.Amount),
		Balance:      database.Numeric(enc.Total.Sub(req.Amount)),
		Status:       enum.OrderStatusNew,
		Receipt1:     enum.ReceiptAbsent,
		Receipt2:     enum.ReceiptAbsent,
		ChangeLog:    enum.ChangeLogOriginal,
	}

	order, err := s.createWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	res := &Result{Order: order}
	s.attachReceipt(ctx, res, 1, ext, req.Receipt.Data)
	s.publish(ws.EventOrderCreated, res.Order)
	return res, nil
}

// CreateManual stores an in-person order entered by an admin. No receipt is
// attached; the order is marked as manual.
func (s *OrderService) CreateManual(ctx context.Context, req ManualRequest) (*Result, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.CustomerName == "" || req.Phone == "" {
		return nil, ErrMissingCustomer
	}
	if req.Status == "" {
		req.Status = enum.OrderStatusNew
	}
	switch req.Status {
	case enum.OrderStatusNew, enum.OrderStatusPaidInFull, enum.OrderStatusDelivered:
	default:
		return nil, ErrInvalidStatus
	}
	if req.Paid.IsNegative() {
		return nil, ErrInvalidAmount
	}

	enc, err := s.encode(ctx, req.Selection)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order, err := s.createWithRetry(ctx, database.CreateOrderParams{
		CreatedAt:    now,
		UpdatedAt:    now,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Detail:       enc.Detail,
		Total:        database.Numeric(enc.Total),
		Paid:         database.Numeric(req.Paid),
		Balance:      database.Numeric(enc.Total.Sub(req.Paid)),
		Status:       req.Status,
		Receipt1:     enum.ReceiptManual,
		Receipt2:     enum.ReceiptAbsent,
		ChangeLog:    enum.ChangeLogAdminManual,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ws.EventOrderCreated, order)
	return &Result{Order: order}, nil
}

// Edit re-encodes the selection of an open order, adds the new payment to
// what was already paid and optionally stores a second receipt. The status
// is left unchanged.
func (s *OrderService) Edit(ctx context.Context, req EditRequest) (*Result, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.CustomerName == "" || req.Phone == "" {
		return nil, ErrMissingCustomer
	}
	if err := validatePaymentType(req.PaymentType); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	enc, err := s.encode(ctx, req.Selection)
	if err != nil {
		return nil, err
	}

	var ext string
	if req.Receipt != nil && len(req.Receipt.Data) > 0 {
		if ext, err = receipt.Ext(req.Receipt.Filename); err != nil {
			return nil, err
		}
	}

	var order database.Order
	err = s.withTx(ctx, func(store OrderStore) error {
		current, err := store.GetOrderForUpdate(ctx, req.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("get order: %w", err)
		}
		if enum.IsClosedOrderStatus(current.Status) {
			return ErrOrderClosed
		}

		paid := database.Decimal(current.Paid).Add(req.Amount)
		if req.PaymentType == enum.PaymentTypeFull && paid.LessThan(enc.Total) {
			return ErrInsufficientPayment
		}

		now := s.now()
		order, err = store.UpdateOrder(ctx, database.UpdateOrderParams{
			ID:           current.ID,
			UpdatedAt:    now,
			CustomerName: req.CustomerName,
			Phone:        req.Phone,
			Detail:       enc.Detail,
			Total:        database.Numeric(enc.Total),
			Paid:         database.Numeric(paid),
			Balance:      database.Numeric(enc.Total.Sub(paid)),
			Status:       current.Status,
			ChangeLog:    appendChangeLog(current.ChangeLog, "Modif", now),
		})
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Order: order}
	if ext != "" {
		s.attachReceipt(ctx, res, 2, ext, req.Receipt.Data)
	}
	s.publish(ws.EventOrderUpdated, res.Order)
	return res, nil
}

// UpdateStatuses applies the admin bulk editor in one transaction and
// returns how many orders actually changed. Rows whose status and balance
// already match are skipped.
func (s *OrderService) UpdateStatuses(ctx context.Context, updates []StatusUpdate) (int, error) {
	for _, u := range updates {
		if !enum.IsValidOrderStatus(u.Status) {
			return 0, fmt.Errorf("order %s: %w", u.ID, ErrInvalidStatus)
		}
	}

	var changed []database.Order
	err := s.withTx(ctx, func(store OrderStore) error {
		for _, u := range updates {
			current, err := store.GetOrderForUpdate(ctx, u.ID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return fmt.Errorf("order %s: %w", u.ID, ErrOrderNotFound)
				}
				return fmt.Errorf("get order %s: %w", u.ID, err)
			}
			if current.Status == u.Status && database.Decimal(current.Balance).Equal(u.Balance) {
				continue
			}

			now := s.now()
			o, err := store.UpdateOrderStatusBalance(ctx, database.UpdateOrderStatusBalanceParams{
				ID:        current.ID,
				Status:    u.Status,
				Balance:   database.Numeric(u.Balance),
				ChangeLog: appendChangeLog(current.ChangeLog, "Admin", now),
				UpdatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("update order %s: %w", u.ID, err)
			}
			changed = append(changed, o)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, o := range changed {
		s.publish(ws.EventOrderUpdated, o)
	}
	return len(changed), nil
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(store OrderStore) error {
		n, err := store.DeleteOrder(ctx, id)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		if n == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Publish(ws.EventOrderDeleted, map[string]string{"id": id})
	}
	return nil
}

// createWithRetry allocates an id and inserts the order, retrying when the
// id was taken between allocation and insert.
func (s *OrderService) createWithRetry(ctx context.Context, params database.CreateOrderParams) (database.Order, error) {
	var lastErr error
	for attempt := 0; attempt < maxOrderIDRetries; attempt++ {
		order, err := s.createTx(ctx, params)
		if err == nil {
			return order, nil
		}
		if isOrderIDConflict(err) {
			s.log.Warn("order id conflict, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
			lastErr = err
			continue
		}
		return database.Order{}, err
	}
	return database.Order{}, lastErr
}

func (s *OrderService) createTx(ctx context.Context, params database.CreateOrderParams) (database.Order, error) {
	var order database.Order
	err := s.withTx(ctx, func(store OrderStore) error {
		existing, err := store.ListOrderIDs(ctx)
		if err != nil {
			return fmt.Errorf("list order ids: %w", err)
		}
		params.ID, err = s.ids.Next(existing)
		if err != nil {
			return fmt.Errorf("allocate order id: %w", err)
		}
		order, err = store.CreateOrder(ctx, params)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	return order, err
}

// attachReceipt uploads a receipt into slot 1 or 2 and records its
// reference. Failures leave the previous reference in place and set a
// warning on res; the order itself is already saved.
func (s *OrderService) attachReceipt(ctx context.Context, res *Result, slot int, ext string, data []byte) {
	ref, err := s.receipts.Save(ctx, receipt.Name(res.Order.ID, slot), ext, data)
	if err != nil {
		s.log.Error("receipt upload failed",
			zap.String("order_id", res.Order.ID), zap.Int("slot", slot), zap.Error(err))
		res.Warning = ReceiptUploadWarning
		return
	}

	params := database.UpdateOrderReceiptsParams{
		ID:       res.Order.ID,
		Receipt1: res.Order.Receipt1,
		Receipt2: res.Order.Receipt2,
	}
	if slot == 1 {
		params.Receipt1 = ref
	} else {
		params.Receipt2 = ref
	}

	err = s.withTx(ctx, func(store OrderStore) error {
		o, err := store.UpdateOrderReceipts(ctx, params)
		if err != nil {
			return fmt.Errorf("update receipts: %w", err)
		}
		res.Order = o
		return nil
	})
	if err != nil {
		s.log.Error("saving receipt reference failed",
			zap.String("order_id", res.Order.ID), zap.String("ref", ref), zap.Error(err))
		res.Warning = ReceiptUploadWarning
	}
}

func (s *OrderService) encode(ctx context.Context, flags selection.Flags) (selection.Encoded, error) {
	cat, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return selection.Encoded{}, fmt.Errorf("load catalog: %w", err)
	}
	enc := selection.Encode(cat, flags)
	if len(enc.Entries) == 0 {
		return enc, ErrEmptySelection
	}
	if !enc.Total.IsPositive() {
		return enc, ErrZeroTotal
	}
	return enc, nil
}

// withTx runs fn against a store bound to a new transaction and commits
// when fn succeeds.
func (s *OrderService) withTx(ctx context.Context, fn func(OrderStore) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(s.newStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *OrderService) publish(eventType string, o database.Order) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(eventType, OrderEvent{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Total:        database.Decimal(o.Total),
		Balance:      database.Decimal(o.Balance),
		Status:       o.Status,
	})
}

// --- Helpers ---

// isOrderIDConflict checks if the error is a unique constraint violation
// on the order primary key (pgconn error code 23505).
func isOrderIDConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_pkey"
	}
	return false
}

func validatePaymentType(s string) error {
	switch s {
	case enum.PaymentTypeFull, enum.PaymentTypePartial:
		return nil
	}
	return ErrInvalidPaymentType
}

func appendChangeLog(log, label string, at time.Time) string {
	if log == "" {
		log = enum.ChangeLogOriginal
	}
	return log + " | " + label + ": " + at.Format(ChangeLogTimeLayout)
}

// PendingOrLatest picks what a customer sees when looking up their phone:
// every order that still has a balance, or the most recent order when none
// do. orders must be sorted oldest first.
func PendingOrLatest(orders []database.Order) []database.Order {
	var pending []database.Order
	for _, o := range orders {
		if database.Decimal(o.Balance).IsPositive() && !enum.IsClosedOrderStatus(o.Status) {
			pending = append(pending, o)
		}
	}
	if len(pending) > 0 || len(orders) == 0 {
		return pending
	}
	return orders[len(orders)-1:]
}

// IsValidationError reports whether err is caused by bad input rather than
// a backing-store failure.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingCustomer, ErrEmptySelection, ErrZeroTotal, ErrInvalidPaymentType,
		ErrInvalidAmount, ErrPaymentRequired, ErrReceiptRequired, ErrInsufficientPayment,
		ErrInvalidStatus, receipt.ErrUnsupportedType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
