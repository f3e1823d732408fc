package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	httpadp "kahawa-backend/internal/adapter/http"
	"kahawa-backend/internal/adapter/middleware"
	"kahawa-backend/internal/adapter/repository/mongodb"
	"kahawa-backend/internal/adapter/repository/outboxsql"
	"kahawa-backend/internal/config"
	"kahawa-backend/internal/infrastructure/cache"
	"kahawa-backend/internal/infrastructure/db"
	"kahawa-backend/internal/usecase/creditflow"
	"kahawa-backend/internal/usecase/ledger"
	"kahawa-backend/internal/usecase/membership"
)

const outboxDrainInterval = 5 * time.Minute

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	mdb, err := db.OpenMongo(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}

	var journalDB *gorm.DB
	switch cfg.OutboxDriver {
	case "mysql":
		journalDB, err = db.OpenOutboxMySQL(cfg.MySQLDSN())
	default:
		journalDB, err = db.OpenOutboxSQLite(cfg.SQLitePath)
	}
	if err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	farmers := mongodb.NewFarmerRepository(mdb)
	orgs := mongodb.NewOrganizationRepository(mdb)
	requests := mongodb.NewCreditRequestRepository(mdb)
	loans := mongodb.NewLoanRepository(mdb)
	journal := outboxsql.NewOutboxRepository(journalDB)

	ledgerUC := ledger.NewUsecase(loans, cfg.RejectOverpayment)
	creditUC := creditflow.NewUsecase(requests, loans, farmers)
	memberUC := membership.NewUsecase(farmers, orgs, journal)

	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(ledgerUC)
	requestH := httpadp.NewCreditRequestHandler(creditUC)
	memberH := httpadp.NewMembershipHandler(memberUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)

	cr := e.Group("/credit-requests", idemp)
	cr.POST("", requestH.CreateRequest)
	cr.GET("", requestH.ListRequests)
	cr.GET("/:request_id", requestH.GetRequest)
	cr.POST("/:request_id/approve", requestH.ApproveRequest)
	cr.POST("/:request_id/reject", requestH.RejectRequest)
	cr.POST("/:request_id/disburse", requestH.DisburseRequest)

	ln := e.Group("/loans", idemp)
	ln.GET("", loanH.ListLoans)
	ln.GET("/:loan_id", loanH.GetLoan)
	ln.POST("/:loan_id/payments", loanH.RecordPayment)
	ln.POST("/:loan_id/activate", loanH.ActivateLoan)
	ln.POST("/:loan_id/repaid", loanH.MarkRepaid)
	ln.POST("/:loan_id/default", loanH.MarkDefaulted)

	mb := e.Group("", idemp)
	mb.POST("/organizations/:type/:org_id/farmers", memberH.AddFarmers)
	mb.POST("/organizations/:type/:org_id/reconcile", memberH.Reconcile)
	mb.POST("/farmers/:farmer_id/transfer", memberH.TransferFarmer)
	mb.DELETE("/farmers/:farmer_id/organization", memberH.RemoveFarmer)
	e.GET("/farmers/:farmer_id/organization", memberH.ResolveOrganization)
	e.GET("/organizations/:type/:org_id/farmers", memberH.ListMembers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go drainOutbox(ctx, memberUC)
	go watchLoans(ctx, loans)

	if err := e.Start(":" + cfg.AppPort); err != nil {
		log.Fatal(err)
	}
}

// drainOutbox periodically replays journaled counter increments that never
// reached the document store.
func drainOutbox(ctx context.Context, uc *membership.Usecase) {
	t := time.NewTicker(outboxDrainInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := uc.DrainOutbox(ctx, outboxDrainInterval)
			if err != nil {
				log.Printf("outbox drain: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("outbox drain: replayed %d counter adjustments", n)
			}
		}
	}
}

// watchLoans logs loan status changes pushed by the store's change stream.
func watchLoans(ctx context.Context, loans *mongodb.LoanRepository) {
	events, err := loans.Watch(ctx)
	if err != nil {
		log.Printf("loan watch unavailable: %v", err)
		return
	}
	for l := range events {
		log.Printf("loan %s: status=%s paid=%.2f remaining=%.2f", l.ID, l.Status, l.AmountPaid, l.RemainingAmount)
	}
}
