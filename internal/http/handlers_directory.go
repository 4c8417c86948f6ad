package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/campuskit/identity-api/internal/domain/principal"
)

// DirectoryHandlers exposes permission-gated principal lookups for back-office
// tooling.
type DirectoryHandlers struct {
	Perms  PermissionChecker
	Logger *slog.Logger
}

func (h *DirectoryHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// staticKindTag carries a fixed kind tag so a lookup consults exactly one
// identity table.
type staticKindTag struct {
	kind principal.Kind
}

func (t staticKindTag) KindTag() (principal.Kind, bool) { return t.kind, true }

// untagged resolves through the fallback search order.
type untagged struct{}

func (untagged) KindTag() (principal.Kind, bool) { return "", false }

// Lookup resolves a principal by id. GET /directory/{kind}/{id}.
// The kind segment accepts a concrete kind or "any" for a fallback search
// across every table.
func (h *DirectoryHandlers) Lookup(w http.ResponseWriter, r *http.Request) {
	rawKind := r.PathValue("kind")
	rawID := r.PathValue("id")

	var (
		p   *principal.Principal
		err error
	)
	if rawKind == "any" {
		p, err = h.Perms.ResolveByID(r.Context(), rawID, untagged{})
	} else {
		kind, ok := principal.ParseKind(rawKind)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "unknown_kind",
				Err:     errors.New("unknown principal kind"),
			})
			return
		}
		p, err = h.Perms.ResolveByID(r.Context(), rawID, staticKindTag{kind: kind})
	}
	if err != nil {
		h.logger().ErrorContext(r.Context(), "directory lookup failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "lookup_failed",
			Err:     errors.New("lookup failed"),
		})
		return
	}
	if p == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("principal not found"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"kind":       string(p.Kind),
		"id":         p.ID,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"email":      p.Email,
		"phone":      p.Phone,
		"active":     p.Active,
	})
}

// Permissions returns the full permission set of the current principal.
// GET /directory/permissions (requires auth).
func (h *DirectoryHandlers) Permissions(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	set, err := h.Perms.AllPermissions(r.Context(), p, nil)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "permission listing failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "permission_check_failed",
			Err:     errors.New("permission check failed"),
		})
		return
	}

	perms := make([]string, 0, len(set))
	for perm := range set {
		perms = append(perms, perm)
	}
	sort.Strings(perms)
	WriteJSON(w, http.StatusOK, map[string]any{"permissions": perms})
}
