package http

import (
	"net/http"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/identity"
	"github.com/cmlabs-hris/faculty-attendance/internal/handler/http/response"
	"github.com/goccy/go-json"
)

type IdentityHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
}

type identityHandlerImpl struct {
	identityService identity.IdentityService
}

func NewIdentityHandler(identityService identity.IdentityService) IdentityHandler {
	return &identityHandlerImpl{
		identityService: identityService,
	}
}

// Register implements IdentityHandler.
func (h *identityHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req identity.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.identityService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Identity registered successfully", result)
}
