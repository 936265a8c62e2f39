package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"example.com/exercisetracker/internal/domain"
)

// field is one decoded body value. numeric marks values sent as JSON numbers.
type field struct {
	value   string
	numeric bool
}

// fields holds the flattened values of a request body.
type fields map[string]field

func (f fields) get(key string) string {
	return f[key].value
}

// first returns the value of the first key that is present and non-empty.
func (f fields) first(keys ...string) string {
	for _, key := range keys {
		if value := f[key].value; value != "" {
			return value
		}
	}
	return ""
}

// text rejects keys whose value arrived as a JSON number.
func (f fields) text(keys ...string) error {
	for _, key := range keys {
		if f[key].numeric {
			return &domain.ValidationError{Field: key, Reason: "must be a string"}
		}
	}
	return nil
}

// readFields decodes a JSON object or URL-encoded form body.
// JSON numbers are kept in their literal form so "20" and 20 read the same where numbers are allowed.
func readFields(r *http.Request) (fields, error) {
	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, err
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		out := make(fields, len(r.PostForm))
		for key := range r.PostForm {
			out[key] = field{value: r.PostForm.Get(key)}
		}
		return out, nil
	case "", "application/json":
		var raw map[string]scalar
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return fields{}, nil
			}
			return nil, err
		}
		out := make(fields, len(raw))
		for key, value := range raw {
			out[key] = field{value: value.text, numeric: value.numeric}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported content type %q", mediaType)
	}
}

// scalar accepts a JSON string, number or null.
type scalar struct {
	text    string
	numeric bool
}

func (s *scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = scalar{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = scalar{text: str}
		return nil
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*s = scalar{text: num.String(), numeric: true}
		return nil
	}
}
