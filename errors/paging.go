package errors

const (
	InvalidPageErrorCode     = 300_001
	KeyFormatErrorCode       = 300_002
	InvalidBaseErrorCode     = 300_003
	InvalidBookmarkErrorCode = 300_004
)

// InvalidPageError indicates the requested page number is outside of the available pages
var InvalidPageError = new(InvalidPageErrorCode, "InvalidPage", "Page %d is out of range")

// KeyFormatError indicates an identifier cannot be encoded or decoded as a fixed width key
var KeyFormatError = new(KeyFormatErrorCode, "KeyFormat", "Identifier %s does not fit key format: %s")

// InvalidBaseError indicates a base conversion was asked with unsupported base or digits
var InvalidBaseError = new(InvalidBaseErrorCode, "InvalidBase", "Cannot convert %q with base %d")

// InvalidBookmarkError indicates the bookmark given by client cannot be decoded
var InvalidBookmarkError = new(InvalidBookmarkErrorCode, "InvalidBookmark", "Bookmark %q is malformed")
