package webutil

const (
	// Header Keys
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderAccept        = "Accept"
	HeaderCacheControl  = "Cache-Control"
	HeaderETag          = "ETag"
	HeaderIfNoneMatch   = "If-None-Match"

	// Content Types
	ContentTypeJSONUTF8      = "application/json; charset=utf-8"
	ContentTypeHTMLUTF8      = "text/html; charset=utf-8"
	ContentTypeTextPlainUTF8 = "text/plain; charset=utf-8"
	ContentTypeCSSUTF8       = "text/css; charset=utf-8"
	ContentTypeJS            = "text/javascript; charset=utf-8"
	ContentTypeForm          = "application/x-www-form-urlencoded"
)
