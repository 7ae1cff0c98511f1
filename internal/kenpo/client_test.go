package kenpo

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, time.Second, testLogger())
}

func TestClient_Categories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/service_categories", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]ServiceCategory{
			{Code: "resort_reserve", Name: "Resort reservation"},
			{Code: "kaikan_reserve", Name: "Kaikan reservation"},
		})
	}))

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "resort_reserve", categories[0].Code)
}

func TestClient_FindCategory_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	category, err := client.FindCategory(context.Background(), "nope")
	assert.Nil(t, category)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestClient_ServiceAvailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/service_categories/resort_reserve", r.URL.Path)
		_ = json.NewEncoder(w).Encode(ServiceCategory{
			Code: "resort_reserve",
			Services: []ServiceGroup{
				{Name: "Resort A", Available: true},
				{Name: "Resort B", Available: false},
			},
		})
	}))

	ctx := context.Background()

	available, err := client.ServiceAvailable(ctx, "resort_reserve", "Resort A")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = client.ServiceAvailable(ctx, "resort_reserve", "Resort B")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = client.ServiceAvailable(ctx, "resort_reserve", "Resort C")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestClient_RequestReservationURL(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reservation_urls", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))

	err := client.RequestReservationURL(context.Background(), "resort_reserve", "Resort A", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got["email"])
	assert.Equal(t, "Resort A", got["service"])
}

func TestClient_Criteria(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/criteria", r.URL.Path)
		assert.Equal(t, "https://reserve.example.com/r/1", r.URL.Query().Get("url"))
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"headcount": {"1", "2", "3"},
		})
	}))

	criteria, err := client.Criteria(context.Background(), "https://reserve.example.com/r/1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, criteria["headcount"])
}

func TestClient_Submit_ErrorSurfacesBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("reservation window closed"))
	}))

	err := client.Submit(context.Background(), "resort_reserve", "https://reserve.example.com/r/1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reservation window closed")
}
