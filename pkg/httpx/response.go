package httpx

// ContentType enumerates the response body encodings the dispatcher's
// coercion rules produce (spec.md §6 "content_type enum (text, json, html,
// binary, custom-string)").
type ContentType int

const (
	ContentTypeText ContentType = iota
	ContentTypeJSON
	ContentTypeHTML
	ContentTypeBinary
	ContentTypeCustom
)

// Response is the outbound half of the transport contract (spec.md §6).
// WriteBody should be called at most once per request, guarded by
// Responded: once true, further writes are a programmer error the
// dispatcher refuses to make.
type Response interface {
	// SetStatus sets the status code to write on the next body write. A
	// body write made without SetStatus gets 200 (pkg/httpnet uses 204 when
	// the body is empty); a handler that returns nothing and never writes
	// gets no WriteBody call at all.
	SetStatus(code int)

	// SetHeader sets a response header. Must be called before any body
	// write; transports that stream headers immediately on first write
	// (net/http) enforce this themselves.
	SetHeader(name, value string)

	// WriteBody writes raw bytes with the given content type, finalizing
	// the response. Safe to call at most once.
	WriteBody(ct ContentType, body []byte) error

	// Responded reports whether a body has already been written.
	Responded() bool
}
