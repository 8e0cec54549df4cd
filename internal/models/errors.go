package models

import "errors"

// Domain errors
var (
	ErrMalformedDefinition = errors.New("malformed extra field definition")
	ErrFormat              = errors.New("format error")
	ErrFieldNotFound       = errors.New("extra field not found")
	ErrDuplicateField      = errors.New("duplicate extra field")
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrOverflow            = errors.New("overflow")
	ErrNotConnected        = errors.New("progress channel not connected")
	ErrAlreadyConnected    = errors.New("progress channel already connected")
)

// Provider access errors
var (
	ErrHostNotFound     = errors.New("provider host not configured")
	ErrTokenNotFound    = errors.New("provider token not configured")
	ErrBasePathNotFound = errors.New("provider base path not configured")
	ErrInvalidToken     = errors.New("provider rejected token")
	ErrTransport        = errors.New("provider transport error")
)

// CodeUnknown is reported for errors outside the taxonomy
const CodeUnknown = 500

var errorCodes = []struct {
	err  error
	code int
}{
	{ErrInvalidArgument, 100},
	{ErrNotFound, 101},
	{ErrFormat, 102},
	{ErrFieldNotFound, 103},
	{ErrDuplicateField, 104},
	{ErrMalformedDefinition, 105},
	{ErrOverflow, 106},
	{ErrNotConnected, 107},
	{ErrAlreadyConnected, 108},
	{ErrHostNotFound, 200},
	{ErrTokenNotFound, 201},
	{ErrBasePathNotFound, 202},
	{ErrInvalidToken, 203},
	{ErrTransport, 204},
}

// ErrorCode maps an error chain to the numeric code sent to progress subscribers
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}
	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return CodeUnknown
}
