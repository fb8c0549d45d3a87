package directoryapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is returned when the backend responds with a non-2xx status
type APIError struct {
	Status int
	Route  string
	// Detail is the backend's human readable message, taken verbatim from
	// the "detail" field when present.
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("directory api %d on %s: %s", e.Status, e.Route, e.Detail)
}

// TransportError is returned when no HTTP response was received
type TransportError struct {
	Method string
	Route  string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("directory api %s %s: %v", e.Method, e.Route, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// DetailOr returns the backend-provided message carried by err, or fallback
// when err is not a server-reported error.
func DetailOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func newAPIError(route string, status int, body []byte) *APIError {
	return &APIError{Status: status, Route: route, Detail: extractDetail(body, status)}
}

// extractDetail reads the FastAPI error body. "detail" is either a string or
// a list of {loc, msg} validation entries.
func extractDetail(body []byte, status int) string {
	if len(body) > 0 && gjson.ValidBytes(body) {
		detail := gjson.GetBytes(body, "detail")
		switch {
		case detail.Type == gjson.String && detail.String() != "":
			return detail.String()
		case detail.IsArray():
			var msgs []string
			detail.ForEach(func(_, item gjson.Result) bool {
				msg := item.Get("msg").String()
				if msg == "" {
					msg = item.String()
				}
				if field := lastLoc(item.Get("loc")); field != "" {
					msg = field + ": " + msg
				}
				msgs = append(msgs, msg)
				return true
			})
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		case detail.IsObject():
			if msg := detail.Get("message").String(); msg != "" {
				return msg
			}
			return detail.Raw
		}

		for _, key := range []string{"message", "error"} {
			if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unexpected response status"
}

func lastLoc(loc gjson.Result) string {
	if !loc.IsArray() {
		return ""
	}
	parts := loc.Array()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1].String()
}

// decodeList unmarshals body into out whether the list is bare or wrapped under key
func decodeList(body []byte, key string, out any) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("response is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	switch {
	case root.IsArray():
		return json.Unmarshal(body, out)
	case root.IsObject():
		list := root.Get(key)
		if !list.Exists() || list.Type == gjson.Null {
			return json.Unmarshal([]byte("[]"), out)
		}
		if !list.IsArray() {
			return fmt.Errorf("field %q is not a list", key)
		}
		return json.Unmarshal([]byte(list.Raw), out)
	case root.Type == gjson.Null:
		return json.Unmarshal([]byte("[]"), out)
	}
	return fmt.Errorf("unexpected list payload")
}
