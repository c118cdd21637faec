package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/imageenc"
	"github.com/kiwari-pos/console/internal/menu"
)

// MenuManager defines the menu operations the handlers need.
// Satisfied by *menu.Manager; narrow interface for testability.
type MenuManager interface {
	ListByCategory(category string) []menu.Item
	Get(id int) (menu.Item, error)
	CreateItem(ctx context.Context, f menu.Fields) (menu.Item, error)
	UpdateItem(ctx context.Context, id int, f menu.Fields) (menu.Item, error)
	DeleteItem(ctx context.Context, id int) error
	NewDraft() *menu.Draft
	EditDraft(id int) (*menu.Draft, error)
}

// MenuRecorder records menu and upload outcomes. Satisfied by *metrics.Metrics.
type MenuRecorder interface {
	MenuMutation(op string, err error)
	ImageEncode(err error)
}

// multipartOverhead is allowed on top of the image limit for form boundaries
// and headers.
const multipartOverhead = 64 << 10

// MenuHandler handles menu endpoints.
type MenuHandler struct {
	menu      MenuManager
	metrics   MenuRecorder
	maxUpload int64
}

// NewMenuHandler creates a new MenuHandler. maxUpload caps the image size.
func NewMenuHandler(m MenuManager, metrics MenuRecorder, maxUpload int64) *MenuHandler {
	return &MenuHandler{menu: m, metrics: metrics, maxUpload: maxUpload}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
// Expected to be mounted at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/images", h.EncodeImage)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/image", h.AttachImage)
}

// --- Request / Response types ---

// priceText accepts a price sent either as a JSON number or a string, keeping
// the operator's text so it can be validated exactly.
type priceText string

func (p *priceText) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = priceText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = priceText(n.String())
	return nil
}

type menuItemRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       priceText `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
}

func (req menuItemRequest) fields() menu.Fields {
	return menu.Fields{
		Name:        req.Name,
		Description: req.Description,
		Price:       string(req.Price),
		Category:    req.Category,
		Image:       req.Image,
	}
}

type menuItemResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image,omitempty"`
}

func toMenuItemResponse(it menu.Item) menuItemResponse {
	return menuItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price.StringFixed(2),
		Category:    it.Category,
		Image:       it.Image,
	}
}

type imageResponse struct {
	Image     string `json:"image"`
	MediaType string `json:"media_type"`
}

// --- Handlers ---

// List returns menu items, optionally filtered by ?category=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		category = enum.FilterAll
	}

	items := h.menu.ListByCategory(category)
	resp := make([]menuItemResponse, len(items))
	for i, it := range items {
		resp[i] = toMenuItemResponse(it)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single menu item.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}
	it, err := h.menu.Get(id)
	if err != nil {
		writeError(w, "get menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(it))
}

// Create adds a new item to the menu.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	it, err := h.menu.CreateItem(r.Context(), req.fields())
	h.metrics.MenuMutation("create", err)
	if err != nil {
		writeError(w, "create menu item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(it))
}

// Update replaces every field of an existing item.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	it, err := h.menu.UpdateItem(r.Context(), id, req.fields())
	h.metrics.MenuMutation("update", err)
	if err != nil {
		writeError(w, "update menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(it))
}

// Delete removes an item. Deleting an absent item succeeds.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	err := h.menu.DeleteItem(r.Context(), id)
	h.metrics.MenuMutation("delete", err)
	if err != nil {
		writeError(w, "delete menu item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EncodeImage turns an uploaded image into a data URI for a new item's form.
func (h *MenuHandler) EncodeImage(w http.ResponseWriter, r *http.Request) {
	draft := h.menu.NewDraft()
	if !h.attach(w, r, draft) {
		return
	}
	uri := draft.Fields().Image
	writeJSON(w, http.StatusOK, imageResponse{Image: uri, MediaType: imageenc.MediaType(uri)})
}

// AttachImage replaces the image of an existing item with the upload.
func (h *MenuHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	draft, err := h.menu.EditDraft(id)
	if err != nil {
		writeError(w, "edit menu item", err)
		return
	}
	if !h.attach(w, r, draft) {
		return
	}

	it, err := h.menu.UpdateItem(r.Context(), id, draft.Fields())
	h.metrics.MenuMutation("update", err)
	if err != nil {
		writeError(w, "update menu item image", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(it))
}

// attach reads the multipart "image" field into draft. It writes the error
// response itself and reports whether the caller should continue.
func (h *MenuHandler) attach(w http.ResponseWriter, r *http.Request, draft *menu.Draft) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	file, _, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": imageenc.ErrTooLarge.Error()})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image file is required"})
		}
		return false
	}
	defer file.Close()

	err = draft.AttachImage(r.Context(), file).Wait()
	h.metrics.ImageEncode(err)
	if err != nil {
		if errors.Is(err, imageenc.ErrTooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
			return false
		}
		writeError(w, "encode image", err)
		return false
	}
	return true
}
