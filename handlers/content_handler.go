package handlers

import (
	"context"
	"net/http"

	"github.com/eulark/eulark-site/services"
)

// ContentCRUD is the slice of services.ContentService the handlers need.
type ContentCRUD[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, patch services.Patch[T]) (*T, error)
	Update(ctx context.Context, id int, patch services.Patch[T]) (*T, error)
	Delete(ctx context.Context, id int) error
}

// ContentHandler serves one content table. In is the JSON body type applied
// on create and update.
type ContentHandler[T any, In services.Patch[T]] struct {
	service ContentCRUD[T]
	noun    string
}

func NewContentHandler[T any, In services.Patch[T]](service ContentCRUD[T], noun string) *ContentHandler[T, In] {
	return &ContentHandler[T, In]{service: service, noun: noun}
}

func (h *ContentHandler[T, In]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, items)
}

func (h *ContentHandler[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	var input In
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	item, err := h.service.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, item)
}

func (h *ContentHandler[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input In
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	item, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, item)
}

func (h *ContentHandler[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"message": h.noun + " deleted"})
}
