package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"libraryapi/internal/auth"
	"libraryapi/internal/book"
	"libraryapi/internal/borrowing"
	"libraryapi/internal/dashboard"
	"libraryapi/internal/digital"
	"libraryapi/internal/httpx"
	"libraryapi/internal/ingest"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/recommend"
	"libraryapi/internal/user"
	"libraryapi/internal/wishlist"
)

// handlers groups every HTTP handler the API serves.
type handlers struct {
	auth       *auth.HTTPHandler
	books      *book.HTTPHandler
	imports    *ingest.HTTPHandler
	borrowings *borrowing.HTTPHandler
	digital    *digital.HTTPHandler
	recommend  *recommend.HTTPHandler
	wishlist   *wishlist.HTTPHandler
	members    *member.HTTPHandler
	users      *user.HTTPHandler
	dashboard  *dashboard.HTTPHandler
}

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

const uploadPrefix = "/api/digital-books/upload/"

type routerDeps struct {
	jwtSecret  string
	blacklist  httpx.BlacklistRepository
	db         Pinger
	cors       []string
	enableHSTS bool
	maxBody    int64
	rateRPS    float64
	rateBurst  int
}

func newRouter(h handlers, deps routerDeps) http.Handler {
	mux := http.NewServeMux()

	authMW := httpx.AuthMiddleware(deps.jwtSecret, deps.blacklist)
	authed := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, authMW)
	}
	borrower := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, authMW, httpx.RequireRole(crypto.RoleUser))
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, authMW, httpx.RequireRole(crypto.RoleAdmin))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := deps.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// auth
	mux.HandleFunc("POST /api/auth/signup", h.auth.SignUp)
	mux.HandleFunc("POST /api/auth/signin", h.auth.SignIn)
	mux.HandleFunc("POST /api/auth/setup-admin", h.auth.SetupAdmin)
	mux.Handle("POST /api/auth/logout", authed(h.auth.Logout))
	mux.Handle("GET /api/auth/me", authed(h.auth.Me))

	// catalog
	mux.HandleFunc("GET /api/books", h.books.List)
	mux.HandleFunc("GET /api/books/search", h.books.Search)
	mux.HandleFunc("GET /api/books/available", h.books.Available)
	mux.HandleFunc("GET /api/books/digital", h.books.Digital)
	mux.HandleFunc("GET /api/books/genres", h.books.Genres)
	mux.HandleFunc("GET /api/books/{id}", h.books.Get)

	// recommendations
	mux.HandleFunc("GET /api/books/popular", h.recommend.Popular)
	mux.HandleFunc("GET /api/books/trending", h.recommend.Trending)
	mux.HandleFunc("GET /api/books/moods", h.recommend.Moods)
	mux.HandleFunc("GET /api/books/recommendations/mood/{mood}", h.recommend.ByMood)
	mux.HandleFunc("GET /api/books/recommendations/genre/{genre}", h.recommend.ByGenre)
	mux.HandleFunc("GET /api/books/{id}/similar", h.recommend.Similar)
	mux.Handle("GET /api/books/recommendations", authed(h.recommend.Personalized))

	// digital books
	mux.HandleFunc("GET /api/digital-books/book/{bookId}", h.digital.ByBook)
	mux.HandleFunc("GET /api/digital-books/book/{bookId}/format/{format}", h.digital.ByBookAndFormat)
	mux.HandleFunc("GET /api/digital-books/format/{format}", h.digital.ByFormat)
	mux.HandleFunc("GET /api/digital-books/files/{name}", h.digital.File)
	mux.Handle("GET /api/digital-books/read/{id}", authed(h.digital.Read))
	mux.Handle("GET /api/digital-books", admin(h.digital.List))
	mux.Handle("POST "+uploadPrefix+"{bookId}", admin(h.digital.Upload))
	mux.Handle("PUT /api/digital-books/{id}", admin(h.digital.UpdateFormat))
	mux.Handle("DELETE /api/digital-books/{id}", admin(h.digital.Delete))

	// wishlist
	mux.Handle("GET /api/wishlist", authed(h.wishlist.List))
	mux.Handle("POST /api/wishlist/{bookId}", authed(h.wishlist.Add))
	mux.Handle("DELETE /api/wishlist/{bookId}", authed(h.wishlist.Remove))

	// borrowings
	mux.Handle("POST /api/borrowings/borrow/{bookId}", borrower(h.borrowings.Borrow))
	mux.Handle("PUT /api/borrowings/return/{id}", borrower(h.borrowings.Return))
	mux.Handle("GET /api/borrowings/current", borrower(h.borrowings.Current))
	mux.Handle("GET /api/borrowings/history", borrower(h.borrowings.History))
	mux.Handle("GET /api/borrowings/{id}", authed(h.borrowings.Get))
	mux.Handle("GET /api/borrowings/member/{memberId}", admin(h.borrowings.MemberAll))
	mux.Handle("GET /api/borrowings/member/{memberId}/current", admin(h.borrowings.MemberCurrent))
	mux.Handle("GET /api/borrowings/member/{memberId}/history", admin(h.borrowings.MemberHistory))
	mux.Handle("GET /api/borrowings/member/{memberId}/total-fines", admin(h.borrowings.TotalFines))
	mux.Handle("GET /api/borrowings/overdue", admin(h.borrowings.Overdue))
	mux.Handle("GET /api/borrowings/book/{bookId}", admin(h.borrowings.ByBook))
	mux.Handle("POST /api/borrowings/calculate-fines", admin(h.borrowings.CalculateFines))

	// administration
	mux.Handle("POST /api/admin/books", admin(h.books.Create))
	mux.Handle("POST /api/admin/books/import", admin(h.imports.ImportCSV))
	mux.Handle("PUT /api/admin/books/{id}", admin(h.books.Update))
	mux.Handle("PUT /api/admin/books/{id}/copies", admin(h.books.AdjustCopies))
	mux.Handle("DELETE /api/admin/books/{id}", admin(h.books.Delete))

	mux.Handle("GET /api/admin/members", admin(h.members.List))
	mux.Handle("POST /api/admin/members", admin(h.members.Create))
	mux.Handle("GET /api/admin/members/{id}", admin(h.members.Get))
	mux.Handle("PUT /api/admin/members/{id}", admin(h.members.Update))
	mux.Handle("DELETE /api/admin/members/{id}", admin(h.members.Delete))

	mux.Handle("GET /api/admin/users", admin(h.users.List))
	mux.Handle("POST /api/admin/users/admin", admin(h.users.CreateAdmin))
	mux.Handle("PUT /api/admin/users/{id}/role", admin(h.users.ChangeRole))

	mux.Handle("GET /api/admin/borrowings", admin(h.borrowings.All))
	mux.Handle("GET /api/admin/stats/dashboard", admin(h.dashboard.Stats))

	rateLimiter := httpx.NewRateLimitMiddleware(deps.rateRPS, deps.rateBurst)

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(deps.enableHSTS),
		httpx.CORSMiddleware(deps.cors),
		httpx.RequestSizeLimitMiddleware(deps.maxBody, uploadPrefix),
		rateLimiter.Middleware,
	)
}
