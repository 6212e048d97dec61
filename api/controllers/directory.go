package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pzfresh/pzfresh-backend/api/responses"
	"github.com/pzfresh/pzfresh-backend/api/validators"
	"github.com/pzfresh/pzfresh-backend/internal/directory"
	"github.com/pzfresh/pzfresh-backend/pkg/enums"
	pkgerrors "github.com/pzfresh/pzfresh-backend/pkg/errors"
	"github.com/pzfresh/pzfresh-backend/pkg/logger"
)

type registerUserRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	BusinessName    string   `json:"business_name" validate:"required"`
	ContactName     string   `json:"contact_name"`
	Role            string   `json:"role" validate:"required"`
	Region          string   `json:"region"`
	BuyingInterests []string `json:"buying_interests,omitempty"`
}

// RegisterUser creates a marketplace account.
func RegisterUser(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerUserRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(req.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		user, err := svc.RegisterUser(r.Context(), directory.RegisterUserInput{
			Email:           req.Email,
			BusinessName:    req.BusinessName,
			ContactName:     req.ContactName,
			Role:            role,
			Region:          req.Region,
			BuyingInterests: req.BuyingInterests,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// GetUser returns a user profile.
func GetUser(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

type updateInterestsRequest struct {
	Interests []string `json:"interests" validate:"required"`
}

// UpdateBuyingInterests replaces the calling buyer's interest tokens.
func UpdateBuyingInterests(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateInterestsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateBuyingInterests(r.Context(), buyerID, req.Interests)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

type connectPartnerRequest struct {
	SupplierID uuid.UUID `json:"supplier_id" validate:"required"`
}

// ConnectPartner links the calling buyer to a supplier.
func ConnectPartner(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req connectPartnerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partner, err := svc.ConnectPartner(r.Context(), buyerID, req.SupplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, partner)
	}
}

// ListPartners returns the calling buyer's active partners.
func ListPartners(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partners, err := svc.ListPartners(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, partners)
	}
}

type approveRegistrationRequest struct {
	BusinessName string    `json:"business_name" validate:"required"`
	ContactName  string    `json:"contact_name"`
	Location     string    `json:"location"`
	Category     string    `json:"category"`
	SupplierID   uuid.UUID `json:"supplier_id" validate:"required"`
}

// ApproveRegistration creates a customer record under a supplier from an
// operator-reviewed registration.
func ApproveRegistration(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req approveRegistrationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.ApproveRegistration(r.Context(), directory.ApproveRegistrationInput{
			BusinessName: req.BusinessName,
			ContactName:  req.ContactName,
			Location:     req.Location,
			Category:     req.Category,
			SupplierID:   req.SupplierID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

// GetCustomer returns a customer record.
func GetCustomer(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParsePathUUID(chi.URLParam(r, "customerId"), "customer id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// ListCustomers returns the calling supplier's customer book.
func ListCustomers(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customers, err := svc.ListCustomersForSupplier(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers)
	}
}
