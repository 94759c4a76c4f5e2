package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/phk910805/overtime-sub000/internal/config"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/phk910805/overtime-sub000/pkg/subscription"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-Employee-Id header into context for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			employeeIdHeader := req.Header.Get("X-Employee-Id")
			ctx := req.Context()

			if employeeIdHeader != "" {
				e, err := deps.EmployeeService.GetByUid(ctx, employeeIdHeader)
				if err != nil {
					if errors.Is(err, employee.ErrNoEmployee) {
						log.Debugf("employee not found: %s", employeeIdHeader)
						http.Error(w, "employee not found", http.StatusForbidden)
						return
					}
					log.Errorf("failed to get employee: %v", err)
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				if !e.Active {
					http.Error(w, "employee is deactivated", http.StatusForbidden)
					return
				}
				ctx = employee.WithEmployee(ctx, e)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	// Block writes once the organization's subscription has expired.
	// Reads stay available so the data is never held hostage.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !isMutating(req.Method) || isSubscriptionExempt(req.URL.Path) {
				next.ServeHTTP(w, req)
				return
			}
			if _, err := employee.Current(req.Context()); err != nil {
				// unauthenticated writes are rejected downstream
				next.ServeHTTP(w, req)
				return
			}
			if err := deps.SubscriptionService.CheckWritable(req.Context()); err != nil {
				if errors.Is(err, subscription.ErrExpired) {
					http.Error(w, err.Error(), http.StatusPaymentRequired)
					return
				}
				log.Errorf("subscription check failed: %v", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, req)
		})
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// isSubscriptionExempt lists the writes that must keep working for an
// expired organization: joining via an already issued invite is one of
// them, creating a brand new organization the other.
func isSubscriptionExempt(path string) bool {
	if path == "/api/organization" {
		return true
	}
	return strings.HasPrefix(path, "/api/invites/") && strings.HasSuffix(path, "/accept")
}
