package middleware

import (
	"context"
	"net/http"
)

// MembershipChecker answers allowlist questions; satisfied by
// services.RedisAllowlist.
type MembershipChecker interface {
	IsCohortMember(ctx context.Context, email string) (bool, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireCohort rejects authenticated participants who are not on the cohort
// allowlist before any program logic runs. The client treats the 403 as a
// forced sign-out.
func RequireCohort(list MembershipChecker) func(http.Handler) http.Handler {
	return requireMembership(list.IsCohortMember, "You are not part of the current cohort")
}

// RequireAdmin guards the reporting surface with the separate admin
// allowlist.
func RequireAdmin(list MembershipChecker) func(http.Handler) http.Handler {
	return requireMembership(list.IsAdmin, "Admin access required")
}

func requireMembership(check func(ctx context.Context, email string) (bool, error), message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			participant := GetParticipant(r.Context())
			if participant.Email == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing participant identity", r)
				return
			}

			member, err := check(r.Context(), participant.Email)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Membership check failed: "+err.Error(), r)
				return
			}
			if !member {
				writeError(w, http.StatusForbidden, "FORBIDDEN", message, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
