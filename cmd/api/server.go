package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"

	mw "chikwama_finance/internal/api/middlewares"
	"chikwama_finance/internal/api/routers"
	"chikwama_finance/internal/config"
	"chikwama_finance/internal/events"
	"chikwama_finance/internal/repositories/sqlconnect"
	"chikwama_finance/pkg/cron"
	"chikwama_finance/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln("Error loading config:", err)
	}

	utils.InitLogger()

	err = sqlconnect.ConnectDb(cfg)
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			utils.Logger.Errorf("Event publisher unavailable, continuing without events: %v", err)
		} else {
			events.Default = publisher
			defer publisher.Close()
		}
	}

	cronJobs := cron.StartCronJob(sqlconnect.DB)
	defer cronJobs.Stop()

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware,
		"/users/signup", "/users/login", "/users/forgotpassword", "/users/resetpassword")

	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	server := &http.Server{
		Addr:      cfg.ServerPort,
		Handler:   secureMux,
		TLSConfig: tlsConfig,
	}

	fmt.Println("Server is running on port", cfg.ServerPort)
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
