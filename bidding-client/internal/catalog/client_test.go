package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Thanush-41/AgriXchange/shared/models"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestActiveListings(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/bidding/active", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"data":{"data":[
			{"id":"p1","name":"Basmati","type":"wholesale","biddingRoom":{"_id":"room42","status":"active"}},
			{"id":"p2","name":"Wheat","type":"wholesale","biddingRoom":"room7"},
			{"id":"p3","name":"Onion","type":"wholesale"}
		]}}`))
	}))
	defer srv.Close()

	listings := NewClient(srv.URL, nil).ActiveListings(context.Background(), "tok-abc")

	require.Equal(t, "Bearer tok-abc", gotAuth)
	require.Len(t, listings, 3)
	require.Equal(t, "room42", listings[0].RoomID())
	require.Equal(t, "room7", listings[1].RoomID())
	require.Equal(t, "", listings[2].RoomID())
}

func TestActiveListings_Degrades(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "forbidden",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "forbidden", http.StatusForbidden)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":`))
			},
		},
		{
			name: "empty envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":true,"data":{}}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			listings := NewClient(srv.URL, nil).ActiveListings(context.Background(), "tok")
			require.NotNil(t, listings)
			require.Empty(t, listings)
		})
	}
}

func TestActiveListings_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	listings := NewClient(url, nil).ActiveListings(context.Background(), "tok")
	require.NotNil(t, listings)
	require.Empty(t, listings)
}

func TestRetailProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, models.Response[models.Page[models.Product]]{
			Success: true,
			Data: models.Page[models.Product]{Data: []models.Product{
				{ID: "r1", Name: "Tomatoes", Type: models.ProductTypeRetail, Price: 40},
				{ID: "w1", Name: "Rice lot", Type: models.ProductTypeWholesale, StartingPrice: 2000},
				{ID: "r2", Name: "Mangoes", Type: models.ProductTypeRetail, Price: 120},
			}},
		})
	}))
	defer srv.Close()

	products := NewClient(srv.URL+"/", nil).RetailProducts(context.Background())
	require.Len(t, products, 2)
	require.Equal(t, "r1", products[0].ID)
	require.Equal(t, "r2", products[1].ID)
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Role != models.RoleTrader {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(t, w, models.Response[models.LoginResult]{
			Success: true,
			Data: models.LoginResult{
				User:  models.User{ID: "u1", Phone: req.Phone, Role: req.Role},
				Token: "tok-abc",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	id, err := c.Login(context.Background(), "9876543210", models.RoleTrader)
	require.NoError(t, err)
	require.Equal(t, "tok-abc", id.Token)
	require.Equal(t, "9876543210", id.User.Phone)
	require.True(t, id.CanBid())

	_, err = c.Login(context.Background(), "9876543210", "admin")
	require.ErrorIs(t, err, ErrLoginFailed)
}
