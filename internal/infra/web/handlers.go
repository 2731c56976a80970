// File: internal/infra/web/handlers.go
package web

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"municipal-benefits/internal/domain"
	"municipal-benefits/internal/domain/model"
	"municipal-benefits/internal/infra/metrics"
	"municipal-benefits/internal/infra/sepa"
	"municipal-benefits/internal/usecase"
)

// caller pulls the session principal out of the request context. The session
// middleware guarantees it is set on every route below it.
func caller(w http.ResponseWriter, r *http.Request) (model.Principal, bool) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
	}
	return p, ok
}

// ===== Auth =====

type loginRequest struct {
	SubjectID string   `json:"subject_id"`
	TenantID  string   `json:"tenant_id"`
	Roles     []string `json:"roles"`
}

func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.SubjectID == "" || len(req.Roles) == 0 {
			writeError(w, domain.ErrInvalidArgument)
			return
		}
		roles := make([]model.Role, 0, len(req.Roles))
		for _, role := range req.Roles {
			switch model.Role(role) {
			case model.RoleCitizen, model.RoleSupplier, model.RoleMunicipality, model.RoleAdmin:
				roles = append(roles, model.Role(role))
			default:
				writeError(w, domain.ErrInvalidArgument)
				return
			}
		}
		token, err := s.auth.Mint(w, model.Principal{SubjectID: req.SubjectID, TenantID: req.TenantID, Roles: roles})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Token string `json:"token"`
		}{Token: token})
	}
}

func (s *Server) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.Clear(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ===== Redemption =====

// Amounts cross the wire in euros; the domain works in cents.
type redeemRequest struct {
	Code        string   `json:"code"`
	CurrentTime string   `json:"currentTime"`
	Amount      *float64 `json:"amount"`
}

type redeemResponse struct {
	Code            string    `json:"code"`
	ValidatedAmount float64   `json:"validatedAmount"`
	ValidatedAt     time.Time `json:"validatedAt"`
}

func redemptionOutcome(err error) string {
	var rerr *domain.RedemptionError
	if errors.As(err, &rerr) {
		return string(rerr.Kind)
	}
	return "error"
}

func (s *Server) redeemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p, ok := caller(w, r)
		if !ok {
			return
		}

		var req redeemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		// Sheds doubled-up submits of the same code before they reach the
		// database. The advisory lock inside the transaction is the
		// authoritative serialization point.
		if s.locker != nil {
			key := "redeem_lock:" + strings.ToUpper(strings.TrimSpace(req.Code))
			token, err := s.locker.TryLock(ctx, key, s.rateCfg.LockTTL)
			if err != nil {
				writeError(w, err)
				return
			}
			defer s.locker.Unlock(ctx, key, token)
		}

		var amountCents *int64
		if req.Amount != nil {
			v := int64(math.Round(*req.Amount * 100))
			amountCents = &v
		}

		start := time.Now()
		res, err := s.uc.Redemption.Redeem(ctx, p, usecase.RedeemRequest{
			Code:        req.Code,
			CurrentTime: req.CurrentTime,
			AmountCents: amountCents,
		})
		if err != nil {
			metrics.IncRedemption(redemptionOutcome(err))
			writeError(w, err)
			return
		}
		metrics.IncRedemption("confirmed")
		metrics.ObserveRedemption(res.ValidatedAmountCents, int(time.Since(start).Milliseconds()))

		writeJSON(w, http.StatusOK, redeemResponse{
			Code:            res.Code,
			ValidatedAmount: float64(res.ValidatedAmountCents) / 100,
			ValidatedAt:     res.ValidatedAt,
		})
	}
}

// ===== Offers =====

type restrictionBody struct {
	TimeFrom      string `json:"time_from"`
	TimeTo        string `json:"time_to"`
	MinPriceCents *int64 `json:"min_price_cents"`
	MaxPriceCents *int64 `json:"max_price_cents"`
	Frequency     string `json:"frequency"`
	MinAge        int    `json:"min_age"`
}

type offerCreateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	AmountCents int64            `json:"amount_cents"`
	Percent     int              `json:"percent"`
	StartAt     time.Time        `json:"start_at"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Lat         float64          `json:"lat"`
	Lng         float64          `json:"lng"`
	Restriction *restrictionBody `json:"restriction"`
}

func offerCreateHandler(offerUC usecase.OfferUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		var req offerCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		in := usecase.CreateOfferInput{
			Title:       req.Title,
			Description: req.Description,
			Type:        model.OfferType(req.Type),
			AmountCents: req.AmountCents,
			Percent:     req.Percent,
			StartAt:     req.StartAt,
			ExpiresAt:   req.ExpiresAt,
			Lat:         req.Lat,
			Lng:         req.Lng,
		}
		if req.Restriction != nil {
			in.Restriction = &model.Restriction{
				TimeFrom:      req.Restriction.TimeFrom,
				TimeTo:        req.Restriction.TimeTo,
				MinPriceCents: req.Restriction.MinPriceCents,
				MaxPriceCents: req.Restriction.MaxPriceCents,
				Frequency:     model.Frequency(req.Restriction.Frequency),
				MinAge:        req.Restriction.MinAge,
			}
		}
		offer, err := offerUC.Create(r.Context(), p, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, offer)
	}
}

func offerGetHandler(offerUC usecase.OfferUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		offer, err := offerUC.Get(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, offer)
	}
}

func offersMineHandler(offerUC usecase.OfferUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		offers, err := offerUC.ListMine(r.Context(), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Offer `json:"data"`
		}{Data: offers})
	}
}

func offersPendingHandler(offerUC usecase.OfferUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}
		offers, err := offerUC.ListPending(r.Context(), p, offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data   []*model.Offer `json:"data"`
			Limit  int            `json:"limit"`
			Offset int            `json:"offset"`
		}{Data: offers, Limit: limit, Offset: offset})
	}
}

// offerDecideHandler serves both approve and reject; fn is the use case
// method to invoke.
func offerDecideHandler(fn func(ctx context.Context, p model.Principal, id string) (*model.Offer, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		offer, err := fn(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, offer)
	}
}

// ===== Discount codes =====

func engageHandler(codeUC usecase.CodeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		code, err := codeUC.Engage(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		metrics.IncCodeIssued()
		writeJSON(w, http.StatusCreated, code)
	}
}

// ===== Suppliers =====

type supplierRegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	IBAN  string `json:"iban"`
}

func supplierRegisterHandler(supplierUC usecase.SupplierUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		var req supplierRegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		sup, err := supplierUC.Register(r.Context(), p, req.Name, req.Email, req.IBAN)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sup)
	}
}

func suppliersListHandler(supplierUC usecase.SupplierUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		status := model.SupplierStatus(r.URL.Query().Get("status"))
		suppliers, err := supplierUC.List(r.Context(), p, status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Supplier `json:"data"`
		}{Data: suppliers})
	}
}

func supplierGetHandler(supplierUC usecase.SupplierUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		sup, err := supplierUC.Get(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sup)
	}
}

func supplierDecideHandler(fn func(ctx context.Context, p model.Principal, id string) (*model.Supplier, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		sup, err := fn(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sup)
	}
}

func supplierDeleteHandler(supplierUC usecase.SupplierUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		if err := supplierUC.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ===== Tenants =====

type tenantRequest struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ContactEmail string `json:"contact_email"`
	CreditorName string `json:"creditor_name"`
	CreditorIBAN string `json:"creditor_iban"`
	CreditorBIC  string `json:"creditor_bic"`
	Timezone     string `json:"timezone"`
}

func (t tenantRequest) input() usecase.TenantInput {
	return usecase.TenantInput{
		Name:         t.Name,
		Slug:         t.Slug,
		ContactEmail: t.ContactEmail,
		CreditorName: t.CreditorName,
		CreditorIBAN: t.CreditorIBAN,
		CreditorBIC:  t.CreditorBIC,
		Timezone:     t.Timezone,
	}
}

func tenantCreateHandler(tenantUC usecase.TenantUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		var req tenantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		tenant, err := tenantUC.Create(r.Context(), p, req.input())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tenant)
	}
}

func tenantsListHandler(tenantUC usecase.TenantUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		tenants, err := tenantUC.List(r.Context(), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Tenant `json:"data"`
		}{Data: tenants})
	}
}

func tenantGetHandler(tenantUC usecase.TenantUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		tenant, err := tenantUC.Get(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tenant)
	}
}

func tenantUpdateHandler(tenantUC usecase.TenantUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		var req tenantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		tenant, err := tenantUC.Update(r.Context(), p, chi.URLParam(r, "id"), req.input())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tenant)
	}
}

func tenantDeleteHandler(tenantUC usecase.TenantUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		if err := tenantUC.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ===== Citizen groups and citizens =====

func groupCreateHandler(citizenUC usecase.CitizenUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		group, err := citizenUC.CreateGroup(r.Context(), p, req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, group)
	}
}

func groupsListHandler(citizenUC usecase.CitizenUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		groups, err := citizenUC.ListGroups(r.Context(), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.CitizenGroup `json:"data"`
		}{Data: groups})
	}
}

func groupDeleteHandler(citizenUC usecase.CitizenUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		if err := citizenUC.DeleteGroup(r.Context(), p, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func citizenRegisterHandler(citizenUC usecase.CitizenUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		var req struct {
			GroupID    string `json:"group_id"`
			PassNumber string `json:"pass_number"`
			BirthYear  int    `json:"birth_year"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		citizen, err := citizenUC.Register(r.Context(), p, req.GroupID, req.PassNumber, req.BirthYear)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, citizen)
	}
}

func citizenRemoveHandler(citizenUC usecase.CitizenUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		if err := citizenUC.Remove(r.Context(), p, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ===== Benefits and grants =====

func benefitCreateHandler(benefitUC usecase.BenefitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		var req struct {
			GroupID     string `json:"group_id"`
			Name        string `json:"name"`
			BudgetCents int64  `json:"budget_cents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		benefit, err := benefitUC.CreateBenefit(r.Context(), p, req.GroupID, req.Name, req.BudgetCents)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, benefit)
	}
}

func benefitsListHandler(benefitUC usecase.BenefitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		benefits, err := benefitUC.ListBenefits(r.Context(), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Benefit `json:"data"`
		}{Data: benefits})
	}
}

func benefitDeleteHandler(benefitUC usecase.BenefitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		if err := benefitUC.DeleteBenefit(r.Context(), p, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func grantCreateHandler(benefitUC usecase.BenefitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		var req struct {
			BenefitID   string `json:"benefit_id"`
			CitizenID   string `json:"citizen_id"`
			AmountCents int64  `json:"amount_cents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		grant, err := benefitUC.CreateGrant(r.Context(), p, req.BenefitID, req.CitizenID, req.AmountCents)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, grant)
	}
}

func grantsListHandler(benefitUC usecase.BenefitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		status := model.GrantStatus(r.URL.Query().Get("status"))
		grants, err := benefitUC.ListGrants(r.Context(), p, status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Grant `json:"data"`
		}{Data: grants})
	}
}

func grantDecideHandler(fn func(ctx context.Context, p model.Principal, id string) (*model.Grant, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		grant, err := fn(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, grant)
	}
}

// ===== Invoices =====

func invoicesGenerateHandler(invoiceUC usecase.InvoiceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		period := r.URL.Query().Get("period")
		invoices, err := invoiceUC.GenerateForPeriod(r.Context(), p, period)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			Data []*model.Invoice `json:"data"`
		}{Data: invoices})
	}
}

func invoicesListHandler(invoiceUC usecase.InvoiceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		period := r.URL.Query().Get("period")
		invoices, err := invoiceUC.ListByPeriod(r.Context(), p, period)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Invoice `json:"data"`
		}{Data: invoices})
	}
}

func invoiceIssueHandler(invoiceUC usecase.InvoiceUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		invoice, err := invoiceUC.Issue(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		metrics.IncInvoice(string(invoice.Status))
		writeJSON(w, http.StatusOK, invoice)
	}
}

// sepaExportHandler serves the pain.001 credit-transfer document built from
// the period's issued invoices.
func sepaExportHandler(invoiceUC usecase.InvoiceUseCase, tenantUC usecase.TenantUseCase, supplierUC usecase.SupplierUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		ctx := r.Context()
		period := r.URL.Query().Get("period")

		invoices, err := invoiceUC.ListByPeriod(ctx, p, period)
		if err != nil {
			writeError(w, err)
			return
		}
		issued := make([]*model.Invoice, 0, len(invoices))
		for _, inv := range invoices {
			if inv.Status == model.InvoiceStatusIssued {
				issued = append(issued, inv)
			}
		}
		if len(issued) == 0 {
			writeError(w, domain.ErrNotFound)
			return
		}

		tenant, err := tenantUC.Get(ctx, p, p.TenantID)
		if err != nil {
			writeError(w, err)
			return
		}
		suppliers := make(map[string]*model.Supplier, len(issued))
		for _, inv := range issued {
			if _, seen := suppliers[inv.SupplierID]; seen {
				continue
			}
			sup, err := supplierUC.Get(ctx, p, inv.SupplierID)
			if err != nil {
				writeError(w, err)
				return
			}
			suppliers[inv.SupplierID] = sup
		}

		doc, err := sepa.BuildPain001(tenant, issued, suppliers, time.Now())
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Header().Set("Content-Disposition", `attachment; filename="pain001-`+period+`.xml"`)
		w.WriteHeader(http.StatusOK)
		w.Write(doc)
	}
}

// ===== Stats =====

func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := caller(w, r)
		if !ok {
			return
		}
		totals, err := statsUC.Totals(r.Context(), p)
		if err != nil {
			writeError(w, err)
			return
		}

		byStatus := make(map[string]int, len(totals.OffersByStatus))
		for status, n := range totals.OffersByStatus {
			byStatus[string(status)] = n
		}
		metrics.SetOffersTotal(totals.OffersByStatus)

		response := struct {
			Citizens       int            `json:"citizens"`
			OffersByStatus map[string]int `json:"offers_by_status"`
			Revenue        struct {
				Week  int64 `json:"week"`
				Month int64 `json:"month"`
				Year  int64 `json:"year"`
			} `json:"revenue_cents"`
		}{
			Citizens:       totals.Citizens,
			OffersByStatus: byStatus,
		}
		response.Revenue.Week = totals.RevenueCents.Week
		response.Revenue.Month = totals.RevenueCents.Month
		response.Revenue.Year = totals.RevenueCents.Year

		writeJSON(w, http.StatusOK, response)
	}
}
