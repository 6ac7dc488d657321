package importcsv

import (
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/stash/internal/auth"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/http/respond"
	"github.com/MrJamesThe3rd/stash/internal/importer"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
	budgets   *budget.Service
}

func NewHandler(importSvc *importer.Service, budgets *budget.Service) *Handler {
	return &Handler{importSvc: importSvc, budgets: budgets}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type previewResponse struct {
	Entries []entryResponse `json:"entries"`
}

type entryResponse struct {
	Amount      float64         `json:"amount"`
	Category    budget.Category `json:"category,omitempty"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Income      bool            `json:"income"`
}

// upload reads the multipart "format" and "file" fields. The caller closes the file.
func upload(r *http.Request) (importer.Format, multipart.File, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return "", nil, domain.NewValidationError("file", "failed to parse form: "+err.Error())
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatStash
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return "", nil, domain.NewValidationError("file", "required")
	}

	return format, file, nil
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	format, file, err := upload(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer file.Close()

	ctrl, err := h.budgets.Open(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result, err := h.importSvc.Import(r.Context(), ctrl, format, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, result)
}

// preview parses the upload without recording anything.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	format, file, err := upload(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer file.Close()

	session := auth.SessionFromContext(r.Context())

	entries, err := h.importSvc.Parse(r.Context(), session.Email, format, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := previewResponse{Entries: make([]entryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryResponse{
			Amount:      e.Amount,
			Category:    e.Category,
			Description: e.Description,
			Date:        e.Date.Format("2006-01-02"),
			Income:      e.Income,
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}
