package handlers

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/services"
)

const maxLogoBytes = 2 << 20

type SponsorHandler struct {
	*ContentHandler[models.Sponsor, models.SponsorInput]
	sponsorService *services.SponsorService
}

func NewSponsorHandler(s *services.SponsorService) *SponsorHandler {
	return &SponsorHandler{
		ContentHandler: NewContentHandler[models.Sponsor, models.SponsorInput](s, "sponsor"),
		sponsorService: s,
	}
}

// UploadLogo godoc
// @Summary Upload a sponsor logo
// @Tags sponsors
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Sponsor ID"
// @Param logo formData file true "Logo image (jpeg, png, gif, webp)"
// @Success 200 {object} models.Sponsor
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/sponsors/{id}/logo [post]
func (h *SponsorHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes+4096)
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("logo must be a multipart upload of at most %d bytes", maxLogoBytes))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, errors.New("multipart field \"logo\" is required"))
		return
	}
	defer file.Close()

	// the declared part header is ignored; the bytes decide the type
	br := bufio.NewReader(file)
	sniff, _ := br.Peek(512)
	contentType := http.DetectContentType(sniff)

	sponsor, err := h.sponsorService.UploadLogo(r.Context(), id, contentType, br)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, sponsor)
}
