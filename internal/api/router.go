package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/grocer-backend/internal/api/middleware"
	"github.com/example/grocer-backend/internal/auth"
	"github.com/example/grocer-backend/internal/domain/user"
)

func NewRouter(handlers *Handlers, jwtService *auth.JWTService) http.Handler {
	mux := http.NewServeMux()

	authMW := middleware.Auth(jwtService)
	adminMW := middleware.RequireRole(string(user.RoleAdmin))

	authed := func(hf http.HandlerFunc) http.Handler {
		return authMW(hf)
	}
	adminOnly := func(hf http.HandlerFunc) http.Handler {
		return authMW(adminMW(hf))
	}

	// Products (public reads, admin writes)
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ListProducts(w, r)
		case http.MethodPost:
			adminOnly(handlers.CreateProduct).ServeHTTP(w, r)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetProduct(w, r)
		case http.MethodPut:
			adminOnly(handlers.UpdateProduct).ServeHTTP(w, r)
		case http.MethodDelete:
			adminOnly(handlers.DeleteProduct).ServeHTTP(w, r)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Categories
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ListCategories(w, r)
		case http.MethodPost:
			adminOnly(handlers.CreateCategory).ServeHTTP(w, r)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			adminOnly(handlers.UpdateCategory).ServeHTTP(w, r)
		case http.MethodDelete:
			adminOnly(handlers.DeleteCategory).ServeHTTP(w, r)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Orders
	mux.Handle("/api/orders", adminOnly(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.ListOrders(w, r)
	}))

	mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case path == "/api/orders/create-order" && r.Method == http.MethodPost:
			authed(handlers.CreateOrder).ServeHTTP(w, r)
		case path == "/api/orders/my-orders" && r.Method == http.MethodGet:
			authed(handlers.MyOrders).ServeHTTP(w, r)
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPatch:
			adminOnly(handlers.UpdateOrderStatus).ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			authed(handlers.GetOrder).ServeHTTP(w, r)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Users
	mux.HandleFunc("/api/users/profile", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			authed(handlers.GetProfile).ServeHTTP(w, r)
		case http.MethodPut:
			authed(handlers.UpdateProfile).ServeHTTP(w, r)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.Handle("/api/users/addresses", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.AddAddress(w, r)
	}))

	mux.HandleFunc("/api/users/addresses/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			authed(handlers.UpdateAddress).ServeHTTP(w, r)
		case http.MethodDelete:
			authed(handlers.DeleteAddress).ServeHTTP(w, r)
		default:
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.Handle("/api/users/bcoins", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.BcoinHistory(w, r)
	}))

	mux.Handle("/api/users", adminOnly(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.ListUsers(w, r)
	}))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
