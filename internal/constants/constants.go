package constants

// Payment request statuses
const (
	PaymentRequestStatusPending   = "pending"
	PaymentRequestStatusPaid      = "paid"
	PaymentRequestStatusFailed    = "failed"
	PaymentRequestStatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// Payment methods (mobile money networks)
const (
	PaymentMethodAirtel = "airtel_money"
	PaymentMethodMTN    = "mtn_money"
	PaymentMethodMoov   = "moov_money"
)

// PaymentMethods lists every accepted mobile money method.
var PaymentMethods = []string{
	PaymentMethodAirtel,
	PaymentMethodMTN,
	PaymentMethodMoov,
}

// Payment provider constants
const (
	PaymentProviderMypayga = "mypayga"
)

// MyPayga aggregator protocol constants
const (
	MypaygaOrderStatusSuccess = "200"
	MypaygaNetworkType        = "mobile_money"
	MypaygaDefaultCountry     = "GA"
)

// DefaultCurrency is the only currency the collection office settles in.
const DefaultCurrency = "CFA"

// Back office roles
const (
	RoleAdmin    = "admin"
	RoleAgent    = "agent"
	RoleOperator = "operator"
)

// Authorization objects and actions
const (
	AuthzObjectPayments  = "payments"
	AuthzObjectOperators = "operators"
	AuthzObjectAudit     = "audit"

	AuthzActionView        = "view"
	AuthzActionCreate      = "create"
	AuthzActionSendReceipt = "send_receipt"
)

// Audit actor types and sources
const (
	AuditActorTypeUser   = "user"
	AuditActorTypeSystem = "system"

	AuditSourceAPI             = "api"
	AuditSourceMypaygaCallback = "mypayga-callback"
	AuditSourceReconciler      = "reconciler"
)

// Audit actions
const (
	AuditActionPaymentInitiated   = "payment.initiated"
	AuditActionPaymentPaid        = "payment.paid"
	AuditActionPaymentFailed      = "payment.failed"
	AuditActionPaymentReceiptSent = "payment.receipt_sent"
)

// Queue and task names
const (
	QueueDefault     = "default"
	TaskAuditAppend  = "audit:append"
	TaskReceiptIssue = "receipt:issue"
)

// Operator statuses
const (
	OperatorStatusPending  = "pending"
	OperatorStatusApproved = "approved"
	OperatorStatusRejected = "rejected"
)

// User statuses
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
