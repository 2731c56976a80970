// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"municipal-benefits/internal/config"
	"municipal-benefits/internal/domain/model"
	pg "municipal-benefits/internal/infra/db/postgres"
	"municipal-benefits/internal/infra/logging"
	"municipal-benefits/internal/usecase"
)

// Seeds one demo tenant with a supplier, a citizen group, a citizen and an
// approved offer so the redemption flow can be exercised end to end.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	tenantRepo := pg.NewTenantRepo(pool)
	supplierRepo := pg.NewSupplierRepo(pool)
	groupRepo := pg.NewCitizenGroupRepo(pool)
	citizenRepo := pg.NewCitizenRepo(pool)
	offerRepo := pg.NewOfferRepo(pool)

	tenantUC := usecase.NewTenantUseCase(tenantRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, logger)
	citizenUC := usecase.NewCitizenUseCase(groupRepo, citizenRepo)
	offerUC := usecase.NewOfferUseCase(offerRepo, logger)

	admin := model.Principal{SubjectID: "seed", Roles: []model.Role{model.RoleAdmin}}

	// If tenants already exist, do nothing
	tenants, err := tenantUC.List(ctx, admin)
	if err != nil {
		log.Fatalf("list tenants: %v", err)
	}
	if len(tenants) > 0 {
		fmt.Printf("%d tenants already present. No changes.\n", len(tenants))
		return
	}

	tenant, err := tenantUC.Create(ctx, admin, usecase.TenantInput{
		Name:         "Musterstadt",
		Slug:         "musterstadt",
		ContactEmail: "sozialamt@musterstadt.example",
		CreditorName: "Stadt Musterstadt",
		CreditorIBAN: "DE02120300000000202051",
		CreditorBIC:  "BYLADEM1001",
		Timezone:     "Europe/Berlin",
	})
	if err != nil {
		log.Fatalf("create tenant: %v", err)
	}
	admin.TenantID = tenant.ID

	supplier, err := supplierUC.Register(ctx, admin, "Schwimmbad GmbH", "kasse@schwimmbad.example", "DE89370400440532013000")
	if err != nil {
		log.Fatalf("register supplier: %v", err)
	}
	if _, err := supplierUC.Approve(ctx, admin, supplier.ID); err != nil {
		log.Fatalf("approve supplier: %v", err)
	}

	group, err := citizenUC.CreateGroup(ctx, admin, "Familienpass")
	if err != nil {
		log.Fatalf("create group: %v", err)
	}
	citizen, err := citizenUC.Register(ctx, admin, group.ID, "FP-0001", 1990)
	if err != nil {
		log.Fatalf("register citizen: %v", err)
	}

	supplierCaller := model.Principal{SubjectID: supplier.ID, TenantID: tenant.ID, Roles: []model.Role{model.RoleSupplier}}
	offer, err := offerUC.Create(ctx, supplierCaller, usecase.CreateOfferInput{
		Title:       "Nachmittag im Freibad",
		Description: "Freier Eintritt am Nachmittag",
		Type:        model.OfferTypeCredit,
		AmountCents: 750,
		StartAt:     time.Now(),
		ExpiresAt:   time.Now().AddDate(0, 6, 0),
		Restriction: &model.Restriction{
			TimeFrom:  "12:00",
			TimeTo:    "18:00",
			Frequency: model.FrequencyDaily,
		},
	})
	if err != nil {
		log.Fatalf("create offer: %v", err)
	}
	if _, err := offerUC.Approve(ctx, admin, offer.ID); err != nil {
		log.Fatalf("approve offer: %v", err)
	}

	fmt.Printf("seeded tenant=%s supplier=%s citizen=%s offer=%s\n", tenant.ID, supplier.ID, citizen.ID, offer.ID)
}
