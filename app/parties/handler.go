package parties

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/newlineapparel/pogen/app/respond"
	"github.com/newlineapparel/pogen/models"
)

type PartyResponse struct {
	ID             uint   `json:"id"`
	CompanyName    string `json:"company_name"`
	Address1       string `json:"address1"`
	Address2       string `json:"address2"`
	Address3       string `json:"address3"`
	ContactName    string `json:"contact_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	GSTIN          string `json:"gstin"`
	Notes          string `json:"notes"`
	IsDefaultBuyer bool   `json:"is_default_buyer,omitempty"`
}

type PartyInput struct {
	CompanyName    string `json:"company_name"`
	Address1       string `json:"address1"`
	Address2       string `json:"address2"`
	Address3       string `json:"address3"`
	ContactName    string `json:"contact_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	GSTIN          string `json:"gstin"`
	Notes          string `json:"notes"`
	IsDefaultBuyer bool   `json:"is_default_buyer"`
}

type PartyProvider interface {
	GetAllParties(kind models.PartyKind) ([]models.Party, error)
	CreateParty(p *models.Party) error
	UpdateParty(p *models.Party) error
	DeleteParty(kind models.PartyKind, id uint) error
	DefaultBuyer() (*models.Party, error)
}

// PartyHandler serves the buyer, supplier and bill-to directories. Each
// handler method is bound to one list.
type PartyHandler struct {
	repo PartyProvider
}

func NewPartyHandler(r PartyProvider) *PartyHandler {
	return &PartyHandler{repo: r}
}

func toResponse(p models.Party) PartyResponse {
	return PartyResponse{
		ID:             p.ID,
		CompanyName:    p.CompanyName,
		Address1:       p.Address1,
		Address2:       p.Address2,
		Address3:       p.Address3,
		ContactName:    p.ContactName,
		Phone:          p.Phone,
		Email:          p.Email,
		GSTIN:          p.GSTIN,
		Notes:          p.Notes,
		IsDefaultBuyer: p.IsDefaultBuyer,
	}
}

func (in PartyInput) party(kind models.PartyKind) *models.Party {
	return &models.Party{
		Kind:           kind,
		CompanyName:    strings.TrimSpace(in.CompanyName),
		Address1:       in.Address1,
		Address2:       in.Address2,
		Address3:       in.Address3,
		ContactName:    in.ContactName,
		Phone:          in.Phone,
		Email:          in.Email,
		GSTIN:          strings.ToUpper(strings.TrimSpace(in.GSTIN)),
		Notes:          in.Notes,
		IsDefaultBuyer: in.IsDefaultBuyer,
	}
}

func (h *PartyHandler) HandleList(kind models.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parties, err := h.repo.GetAllParties(kind)
		if err != nil {
			log.Printf("listing %s directory: %v", kind, err)
			respond.Error(w, http.StatusInternalServerError, "failed to fetch directory")
			return
		}

		response := make([]PartyResponse, len(parties))
		for i, p := range parties {
			response[i] = toResponse(p)
		}
		respond.JSON(w, http.StatusOK, response)
	}
}

func (h *PartyHandler) HandleCreate(kind models.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PartyInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(input.CompanyName) == "" {
			respond.Error(w, http.StatusBadRequest, "company name is required")
			return
		}

		p := input.party(kind)
		if err := h.repo.CreateParty(p); err != nil {
			log.Printf("creating %s: %v", kind, err)
			respond.Error(w, http.StatusInternalServerError, "failed to create entry")
			return
		}
		respond.JSON(w, http.StatusCreated, toResponse(*p))
	}
}

func (h *PartyHandler) HandleUpdate(kind models.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var input PartyInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(input.CompanyName) == "" {
			respond.Error(w, http.StatusBadRequest, "company name is required")
			return
		}

		p := input.party(kind)
		p.ID = id
		if err := h.repo.UpdateParty(p); err != nil {
			if errors.Is(err, models.ErrPartyNotFound) {
				respond.Error(w, http.StatusNotFound, "entry not found")
				return
			}
			log.Printf("updating %s %d: %v", kind, id, err)
			respond.Error(w, http.StatusInternalServerError, "failed to update entry")
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(*p))
	}
}

func (h *PartyHandler) HandleDelete(kind models.PartyKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := h.repo.DeleteParty(kind, id); err != nil {
			if errors.Is(err, models.ErrPartyNotFound) {
				respond.Error(w, http.StatusNotFound, "entry not found")
				return
			}
			log.Printf("deleting %s %d: %v", kind, id, err)
			respond.Error(w, http.StatusInternalServerError, "failed to delete entry")
			return
		}
		respond.Message(w, http.StatusOK, "entry deleted")
	}
}

// HandleBuyerInfo returns the default buyer, or the built-in one when the
// directory has none.
func (h *PartyHandler) HandleBuyerInfo(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.DefaultBuyer()
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, p.Info())
	case errors.Is(err, models.ErrPartyNotFound):
		respond.JSON(w, http.StatusOK, models.StaticBuyer)
	default:
		log.Printf("loading default buyer: %v", err)
		respond.JSON(w, http.StatusOK, models.StaticBuyer)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
