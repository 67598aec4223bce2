package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldUser      = "user"
	FieldOperation = "operation"
	FieldRecords   = "records"
	FieldIndex     = "index"
	FieldCategory  = "category"
	FieldAmount    = "amount_cents"
	FieldError     = "error"
	FieldSuccess   = "success"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAuth    = "auth"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentArchive = "archive"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpAdd      = "add"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpRegister = "register"
	OpLogin    = "login"
	OpMirror   = "mirror"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
