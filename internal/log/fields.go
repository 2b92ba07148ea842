package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldBookingID     = "booking_id"
	FieldCounterparty  = "counterparty"
	FieldAmountCents   = "amount_cents"
	FieldCategory      = "category"
	FieldRateSource    = "rate_source"
	FieldSheetsRef     = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExtract = "extract"
	ComponentRates   = "rates"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpConfirm  = "confirm"
	OpSettle   = "settle"
	OpRestore  = "restore"
	OpNuke     = "nuke"
	OpSync     = "sync"
	OpExtract  = "extract"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
