package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/identity"
	"github.com/cmlabs-hris/faculty-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type userIDKey struct{}

// ResolveIdentity turns the token's identifiers into the canonical user ID.
// Candidates are tried in order: user_id, employee_id, email, email local part.
// The local part is only a candidate when the email's domain is in emailDomains.
// A caller with no registered alias keeps the token's user_id.
func ResolveIdentity(identityService identity.IdentityService, emailDomains []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			tokenUserID, _ := claims["user_id"].(string)
			employeeID, _ := claims["employee_id"].(string)
			email, _ := claims["email"].(string)

			candidates := []string{tokenUserID, employeeID, email, identity.TrustedLocalPart(email, emailDomains)}
			userID, err := identityService.Resolve(r.Context(), candidates)
			switch {
			case errors.Is(err, identity.ErrUnknownIdentity):
				userID = tokenUserID
			case err != nil:
				slog.Error("failed to resolve identity", "user_id", tokenUserID, "error", err)
				response.InternalServerError(w, "Failed to resolve identity")
				return
			}

			if userID == "" {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the canonical user ID stored by ResolveIdentity.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}
