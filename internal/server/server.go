// Package server is the reference implementation of the item-collection
// API the client core talks to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/shopfront/internal/catalog"
)

// Credentials is the single admin login the demo server accepts.
type Credentials struct {
	Username     string
	PasswordHash string // bcrypt
}

// HashPassword hashes a plaintext admin password for Credentials.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type Server struct {
	store     ItemStore
	feed      *ChangeFeed // nil when the change feed is disabled
	creds     Credentials
	jwtSecret []byte // empty disables auth on mutations (demo mode)
	tokenTTL  time.Duration
}

func New(store ItemStore, feed *ChangeFeed, creds Credentials, jwtSecret string) *Server {
	return &Server{
		store:     store,
		feed:      feed,
		creds:     creds,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  15 * time.Minute,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/api/items", s.handleList)
	r.Post("/api/items", s.requireAuth(s.handleCreate))
	r.Put("/api/items/{id}", s.requireAuth(s.handleUpdate))
	r.Delete("/api/items/{id}", s.requireAuth(s.handleDelete))
	r.Post("/api/login", s.handleLogin)

	return r
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.List(r.Context())
	if err != nil {
		log.Printf("[Server] list items: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	item, err := s.store.Create(r.Context(), in)
	if err != nil {
		log.Printf("[Server] create item: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.publish(r.Context(), ChangeCreated, item)
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	item, err := s.store.Update(r.Context(), id, in)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[Server] update item %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.publish(r.Context(), ChangeUpdated, item)
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[Server] delete item %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.publish(r.Context(), ChangeDeleted, catalog.Item{ID: id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Username != s.creds.Username ||
		bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := s.issueToken(req.Username)
	if err != nil {
		log.Printf("[Server] issue token: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) issueToken(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// requireAuth checks the bearer token on mutating endpoints. With no JWT
// secret configured the server runs open, which is what the disconnected
// demo expects.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.jwtSecret) == 0 {
			next(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		_, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.jwtSecret, nil
		})
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

func (s *Server) publish(ctx context.Context, action string, item catalog.Item) {
	if s.feed == nil {
		return
	}
	change := ItemChanged{Action: action, Item: item, At: time.Now()}
	if err := s.feed.Publish(ctx, change); err != nil {
		log.Printf("[Server] change feed publish (%s, item %d): %v", action, item.ID, err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		log.Printf("[Server] %s %s (request %s)", r.Method, r.URL.Path, reqID)
		next.ServeHTTP(w, r)
	})
}

func decodeInput(w http.ResponseWriter, r *http.Request) (ItemInput, bool) {
	var in ItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return ItemInput{}, false
	}
	if in.Name == "" || in.Category == "" || in.Price.IsNegative() {
		http.Error(w, "name, category and a non-negative price are required", http.StatusBadRequest)
		return ItemInput{}, false
	}
	return in, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Server] encode response: %v", err)
	}
}
