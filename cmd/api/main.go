package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/doarlabs/donation-ledger-go/config"
	"github.com/doarlabs/donation-ledger-go/queue"
	repository "github.com/doarlabs/donation-ledger-go/repository"
	routes "github.com/doarlabs/donation-ledger-go/routes"
	services "github.com/doarlabs/donation-ledger-go/services"
	utils "github.com/doarlabs/donation-ledger-go/utils"
)

func main() {
	log := utils.NewLogger(os.Getenv("APP_ENV"))

	ctx := context.Background()
	cfg, err := config.Load(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}

	db := cfg.Database()
	if err := config.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("could not ensure indexes")
	}

	var sender queue.Sender
	if cfg.SQSClient != nil {
		sender = queue.NewSQSSender(cfg.SQSClient, cfg.QueueURL)
	}
	dispatcher := queue.NewDispatcher(sender, cfg.DispatcherBuffer, log)

	donationRepo := repository.NewDonationRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	donationSvc := services.NewDonationService(donationRepo, campaignRepo, dispatcher, log)
	campaignSvc := services.NewCampaignService(campaignRepo, log)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))
	routes.SetupRoutes(r, donationSvc, campaignSvc, cfg.MongoClient)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("donation ledger API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	// No publishers remain once the server has stopped; drain the queue.
	dispatcher.Close()
	if err := cfg.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect error")
	}
}
