package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/exercisetracker/internal/domain"
)

func TestReadFieldsKeepsJSONKind(t *testing.T) {
	req := postJSON("/add", `{"description":"row","durationMinutes":20,"date":null}`)

	got, err := readFields(req)
	require.NoError(t, err)
	require.Equal(t, "row", got.get("description"))
	require.Equal(t, "20", got.get("durationMinutes"))
	require.Empty(t, got.get("date"))

	require.NoError(t, got.text("description", "date", "missing"))
	require.ErrorIs(t, got.text("description", "durationMinutes"), domain.ErrValidation)
}

func TestReadFieldsFormValuesAreText(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/new-user", strings.NewReader(url.Values{"username": {"12345"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	got, err := readFields(req)
	require.NoError(t, err)
	require.Equal(t, "12345", got.get("username"))
	require.NoError(t, got.text("username"))
}

func TestReadFieldsRejectsNestedValues(t *testing.T) {
	_, err := readFields(postJSON("/new-user", `{"username":["a"]}`))
	require.Error(t, err)
}
