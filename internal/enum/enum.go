package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusNew           = "NEW"
	OrderStatusPartiallyPaid = "PARTIALLY_PAID"
	OrderStatusPaidInFull    = "PAID_IN_FULL"
	OrderStatusPrinting      = "PRINTING"
	OrderStatusDelivered     = "DELIVERED"
	OrderStatusCancelled     = "CANCELLED"
)

// OrderStatuses lists every order status in workflow order.
var OrderStatuses = []string{
	OrderStatusNew,
	OrderStatusPartiallyPaid,
	OrderStatusPaidInFull,
	OrderStatusPrinting,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether s is one of the known order statuses.
func IsValidOrderStatus(s string) bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// IsClosedOrderStatus reports whether an order in status s can no longer be
// edited by the customer.
func IsClosedOrderStatus(s string) bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleAdmin = "ADMIN"
)

// ── Group B: Configurable labels (no DB constraint) ──

const (
	PaymentTypeFull    = "FULL"
	PaymentTypePartial = "PARTIAL"
)

// Receipt reference sentinels stored in place of an uploaded file.
const (
	ReceiptAbsent = "No"
	ReceiptManual = "Manual"
)

// Change log markers.
const (
	ChangeLogOriginal    = "Original"
	ChangeLogAdminManual = "Admin Manual"
)

// Order id strategies.
const (
	OrderIDSequential = "sequential"
	OrderIDRandom     = "random"
)

// Receipt storage backends.
const (
	ReceiptBackendLocal = "local"
	ReceiptBackendImgbb = "imgbb"
)
