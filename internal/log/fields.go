package log

// Field names shared across structured log records.
const (
	FieldComponent = "component"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldQuery     = "query"
	FieldUserAgent = "user_agent"
	FieldOperation = "operation"

	FieldUserID     = "user_id"
	FieldEntityID   = "entity_id"
	FieldEntityKind = "entity_kind"
)

// Component names for the subsystems that emit structured records.
const (
	ComponentHTTP     = "http"
	ComponentFinance  = "finance"
	ComponentSecurity = "security"
)

// Operation names for mutation log records.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpToggle = "toggle"
)

// LogFields builds attribute sets for structured log records.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithUser adds the acting user
func (f LogFields) WithUser(userID string) LogFields {
	f[FieldUserID] = userID
	return f
}

// WithEntity tags the log line with the entity a mutation touched
func (f LogFields) WithEntity(kind, id string) LogFields {
	f[FieldEntityKind] = kind
	f[FieldEntityID] = id
	return f
}

// WithHTTPRequest adds the request line attributes. Query and user agent are
// omitted when empty.
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

// ToSlice flattens the fields into alternating key/value pairs for slog.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
