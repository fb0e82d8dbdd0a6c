package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Binder accepts JSON numbers and booleans for string fields. Every field
// ends up as a positional string argument of the chaincode, so {"id":1}
// binds as "1" instead of failing with a type error.
type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i any, c echo.Context) error {
	req := c.Request()
	if req.Body != nil && req.ContentLength != 0 &&
		strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {

		body, err := io.ReadAll(req.Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
		body = stringifyScalars(body)
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
	}
	return b.DefaultBinder.Bind(i, c)
}

// stringifyScalars rewrites number and boolean members of a JSON object as
// strings holding their literal text. Anything else is returned unchanged.
func stringifyScalars(body []byte) []byte {
	var fields map[string]json.RawMessage
	err := json.Unmarshal(body, &fields)
	if err != nil {
		return body
	}

	changed := false
	for name, value := range fields {
		literal := bytes.TrimSpace(value)
		if len(literal) == 0 {
			continue
		}
		switch literal[0] {
		case '"', '{', '[', 'n':
			continue
		}
		quoted, err := json.Marshal(string(literal))
		if err != nil {
			return body
		}
		fields[name] = quoted
		changed = true
	}
	if !changed {
		return body
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return body
	}
	return out
}
