package lambda

// Request represents a generic inbound event request for serverless functions
type Request struct {
	Headers map[string]string `json:"headers"`
	Body    []byte            `json:"body"`
}

// Response represents a generic plain-text response for serverless functions
type Response struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}
