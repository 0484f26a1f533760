package main

import (
	"fmt"
	"time"

	"github.com/taxepay/internal/config"
	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/logger"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/repository"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	taxServiceRepo := repository.NewTaxServiceRepository(models.DB)

	services := []models.TaxService{
		{
			Name:        "Taxe d'occupation du domaine public",
			Description: "Redevance mensuelle pour l'occupation d'un emplacement sur le domaine public communal",
			BaseAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(15000)),
			Currency:    constants.DefaultCurrency,
			Category:    "occupation",
			IsActive:    true,
		},
		{
			Name:        "Patente commerciale",
			Description: "Contribution annuelle des patentes pour l'exercice d'une activité commerciale",
			BaseAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(45000)),
			Currency:    constants.DefaultCurrency,
			Category:    "patente",
			IsActive:    true,
		},
		{
			Name:        "Taxe d'enlèvement des ordures",
			Description: "Redevance trimestrielle pour la collecte des déchets",
			BaseAmount:  models.NewMoneyFromDecimal(decimal.NewFromInt(9000)),
			Currency:    constants.DefaultCurrency,
			Category:    "salubrite",
			IsActive:    true,
		},
	}

	for i := range services {
		svc := &services[i]
		var existing models.TaxService
		if err := models.DB.Where("name = ?", svc.Name).First(&existing).Error; err == nil {
			stdLog.Printf("tax service already exists: %s", svc.Name)
			services[i] = existing
			continue
		}
		if err := taxServiceRepo.Create(svc); err != nil {
			stdLog.Printf("failed to create tax service %s: %v", svc.Name, err)
			continue
		}
		stdLog.Printf("created tax service: %s", svc.Name)
	}

	operatorRepo := repository.NewOperatorRepository(models.DB)
	operator, err := operatorRepo.GetByRegistrationNumber("RCCM-GA-LBV-2024-A-1001")
	if err != nil {
		stdLog.Fatalf("failed to look up operator: %v", err)
	}
	if operator == nil {
		now := time.Now()
		operator = &models.EconomicOperator{
			Status:             constants.OperatorStatusApproved,
			FirstName:          "Marie",
			LastName:           "Ondo",
			Phone:              "+24107000000",
			Email:              "marie.ondo@example.ga",
			BusinessName:       "Boulangerie Moderne",
			BusinessType:       "commerce",
			Address:            "Quartier Louis, Libreville",
			RegistrationNumber: "RCCM-GA-LBV-2024-A-1001",
			ApprovedAt:         &now,
		}
		if err := operatorRepo.Create(operator); err != nil {
			stdLog.Fatalf("failed to create operator: %v", err)
		}
		stdLog.Printf("created operator: %s", operator.BusinessName)
	} else {
		stdLog.Printf("operator already exists: %s", operator.BusinessName)
	}

	requestRepo := repository.NewPaymentRequestRepository(models.DB)
	for i, svc := range services {
		requestNumber := fmt.Sprintf("PR-2026-%04d", i+1)
		existing, err := requestRepo.GetByRequestNumber(requestNumber)
		if err != nil {
			stdLog.Printf("failed to look up payment request %s: %v", requestNumber, err)
			continue
		}
		if existing != nil {
			stdLog.Printf("payment request already exists: %s", requestNumber)
			continue
		}
		request := &models.PaymentRequest{
			RequestNumber: requestNumber,
			OperatorID:    operator.ID,
			OperatorName:  operator.BusinessName,
			Services: models.ServiceLines{
				{
					ServiceID:   svc.ID,
					ServiceName: svc.Name,
					Amount:      svc.BaseAmount,
					Period:      "2026-T1",
				},
			},
			TotalAmount: svc.BaseAmount,
			Currency:    constants.DefaultCurrency,
			Status:      constants.PaymentRequestStatusPending,
		}
		if err := requestRepo.Create(request); err != nil {
			stdLog.Printf("failed to create payment request %s: %v", requestNumber, err)
			continue
		}
		stdLog.Printf("created payment request: %s (%s)", requestNumber, svc.Name)
	}

	stdLog.Printf("seed completed")
}
