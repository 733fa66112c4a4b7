package apis

const (
	// Self-defined Fields
	RequestID = "X-Request-Id"
)
