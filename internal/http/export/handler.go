package export

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/stash/internal/auth"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/export"
	"github.com/MrJamesThe3rd/stash/internal/http/respond"
)

type Handler struct {
	svc     *export.Service
	budgets *budget.Service
}

func NewHandler(svc *export.Service, budgets *budget.Service) *Handler {
	return &Handler{svc: svc, budgets: budgets}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// filterFromQuery reads the optional "from" and "to" dates (YYYY-MM-DD, inclusive).
func filterFromQuery(r *http.Request) (export.Filter, error) {
	var (
		f export.Filter
		v domain.Validator
	)

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		v.Check(err == nil, "from", "must be YYYY-MM-DD")
		f.StartDate = &t
	}

	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		v.Check(err == nil, "to", "must be YYYY-MM-DD")
		f.EndDate = new(t.Add(24*time.Hour - time.Nanosecond))
	}

	return f, v.Err()
}

// download streams the export as csv (default), zip or a plain-text summary.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var (
		contentType string
		write       func(io.Writer, *budget.State) error
	)

	switch format {
	case "csv":
		contentType = "text/csv; charset=utf-8"
		write = func(w io.Writer, s *budget.State) error { return h.svc.WriteCSV(w, h.svc.Expenses(s, filter)) }
	case "zip":
		contentType = "application/zip"
		write = func(w io.Writer, s *budget.State) error { return h.svc.WriteZip(w, s, filter) }
	case "txt":
		contentType = "text/plain; charset=utf-8"
		write = func(w io.Writer, s *budget.State) error {
			_, err := io.WriteString(w, h.svc.Summary(s, h.svc.Expenses(s, filter)))
			return err
		}
	default:
		respond.Error(w, r, domain.NewValidationError("format", "must be csv, zip or txt"))
		return
	}

	ctrl, err := h.budgets.Open(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.svc.Filename(format)))

	if err := write(w, ctrl.State()); err != nil {
		slog.ErrorContext(r.Context(), "failed to write export", "format", format, "error", err)
	}
}
