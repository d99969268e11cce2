package newznab

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error codes defined by the newznab API.
const (
	CodeIncorrectCredentials = "100"
	CodeAccountSuspended     = "101"
	CodeNotAuthorized        = "102"
	CodeMissingParameter     = "200"
	CodeIncorrectParameter   = "201"
	CodeNoSuchFunction       = "202"
	CodeNotAvailable         = "203"
	CodeNoSuchItem           = "300"
	CodeUnknown              = "900"
	CodeAPIDisabled          = "910"
)

var descriptions = map[string]string{
	"100": "Incorrect user credentials",
	"101": "Account suspended",
	"102": "Insufficient privileges/not authorized",
	"103": "Registration denied",
	"104": "Registrations are closed",
	"105": "Invalid registration (Email Address Taken)",
	"106": "Invalid registration (Email Address Bad Format)",
	"107": "Registration Failed (Data error)",
	"200": "Missing parameter",
	"201": "Incorrect parameter",
	"202": "No such function. (Function not defined in this specification).",
	"203": "Function not available. (Optional function is not implemented).",
	"300": "No such item.",
	"301": "Item already exists.",
	"900": "Unknown error",
	"910": "API Disabled",
}

// Describe returns the standard message for a newznab error code.
func Describe(code string) string {
	if d, ok := descriptions[strings.TrimSpace(code)]; ok {
		return d
	}
	return "Unknown error"
}

// APIError is an error payload returned by the indexer in place of a result.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code        flexString `json:"code"`
		Description string     `json:"description"`
		Attributes  *struct {
			Code        flexString `json:"code"`
			Description string     `json:"description"`
		} `json:"@attributes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Code, e.Description = raw.Code.String(), raw.Description
	if raw.Attributes != nil && e.Code == "" {
		e.Code, e.Description = raw.Attributes.Code.String(), raw.Attributes.Description
	}
	return nil
}

func (e *APIError) Error() string {
	return fmt.Sprintf("indexer error %s: %s", e.Code, e.Message())
}

// Message returns the indexer's description, or the standard text for the
// code when the indexer sent none.
func (e *APIError) Message() string {
	if d := strings.TrimSpace(e.Description); d != "" {
		return d
	}
	return Describe(e.Code)
}

// IsAuth reports whether the indexer rejected the API key.
func (e *APIError) IsAuth() bool {
	return strings.TrimSpace(e.Code) == CodeIncorrectCredentials
}

// AsAPIError unwraps err to an *APIError when it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthError reports whether err is an indexer authentication failure.
func IsAuthError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsAuth()
}
