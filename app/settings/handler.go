package settings

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/newlineapparel/pogen/app/respond"
	"github.com/newlineapparel/pogen/matrix"
	"github.com/newlineapparel/pogen/models"
	"github.com/pkg/errors"
)

// MaxLogoBytes caps the decoded size of an uploaded logo.
const MaxLogoBytes = 5 << 20

var (
	ErrLogoEncoding = errors.New("logo is not valid base64")
	ErrLogoType     = errors.New("logo must be a PNG or JPEG image")
	ErrLogoTooLarge = errors.New("logo must be at most 5 MB")
)

type SettingsStore interface {
	Get() (*models.Settings, error)
	Save(s *models.Settings) error
}

type Response struct {
	DefaultUnitPrice float64   `json:"default_unit_price"`
	LogoBase64       string    `json:"logo_base64,omitempty"`
	LogoFilename     string    `json:"logo_filename,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Input is a partial settings update. Absent keys keep their stored value;
// an empty logo_base64 removes the logo.
type Input struct {
	DefaultUnitPrice any     `json:"default_unit_price"`
	LogoBase64       *string `json:"logo_base64"`
	LogoFilename     *string `json:"logo_filename"`
}

// LogoResponse is returned by a logo upload.
type LogoResponse struct {
	LogoBase64 string `json:"logo_base64"`
	Filename   string `json:"filename"`
}

type SettingsHandler struct {
	store SettingsStore
}

func NewSettingsHandler(s SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: s}
}

func toResponse(s *models.Settings) Response {
	return Response{
		DefaultUnitPrice: s.DefaultUnitPrice.InexactFloat64(),
		LogoBase64:       s.LogoBase64,
		LogoFilename:     s.LogoFilename,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get()
	if err != nil {
		log.Printf("loading settings: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(s))
}

func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s, err := h.store.Get()
	if err != nil {
		log.Printf("loading settings: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	if input.DefaultUnitPrice != nil {
		s.DefaultUnitPrice, _ = matrix.CoercePrice(input.DefaultUnitPrice)
	}
	if input.LogoBase64 != nil {
		logo, err := ValidateLogo(*input.LogoBase64)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		s.LogoBase64 = logo
		if logo == "" {
			s.LogoFilename = ""
		}
	}
	if input.LogoFilename != nil && s.LogoBase64 != "" {
		s.LogoFilename = *input.LogoFilename
	}

	if err := h.store.Save(s); err != nil {
		log.Printf("saving settings: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(s))
}

// HandleLogoUpload stores the image sent as the multipart field "file".
func (h *SettingsHandler) HandleLogoUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxLogoBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusBadRequest, ErrLogoTooLarge.Error())
			return
		}
		respond.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, MaxLogoBytes+1))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}
	logo, err := ValidateLogo(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if logo == "" {
		respond.Error(w, http.StatusBadRequest, "file is empty")
		return
	}

	s, err := h.store.Get()
	if err != nil {
		log.Printf("loading settings: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	s.LogoBase64 = logo
	s.LogoFilename = header.Filename
	if err := h.store.Save(s); err != nil {
		log.Printf("saving logo: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	respond.JSON(w, http.StatusOK, LogoResponse{LogoBase64: logo, Filename: header.Filename})
}

func (h *SettingsHandler) HandleLogoDelete(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get()
	if err != nil {
		log.Printf("loading settings: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	s.LogoBase64 = ""
	s.LogoFilename = ""
	if err := h.store.Save(s); err != nil {
		log.Printf("removing logo: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	respond.Message(w, http.StatusOK, "logo removed")
}

// ValidateLogo checks a base64 logo, optionally given as a data URL, and
// returns it as a data URL ready for an <img> tag. An empty string is valid
// and means no logo.
func ValidateLogo(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", nil
	}
	if strings.HasPrefix(encoded, "data:") {
		_, payload, ok := strings.Cut(encoded, ",")
		if !ok {
			return "", ErrLogoEncoding
		}
		encoded = payload
	}
	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxLogoBytes+3 {
		return "", ErrLogoTooLarge
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrLogoEncoding
	}
	if len(raw) > MaxLogoBytes {
		return "", ErrLogoTooLarge
	}
	mime := http.DetectContentType(raw)
	if mime != "image/png" && mime != "image/jpeg" {
		return "", ErrLogoType
	}
	return "data:" + mime + ";base64," + encoded, nil
}
