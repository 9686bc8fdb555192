// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"os"
	"slices"
	"time"

	"alimenta-server/cep"
	"alimenta-server/commons"
	"alimenta-server/db"
	"alimenta-server/handlers"
	"alimenta-server/notifications"
	"alimenta-server/routes"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	commons.LoadEnvFile()

	e := echo.New()
	e.HideBanner = true

	e.Logger.SetLevel(commons.Logger.Level())
	e.Logger.SetHeader("${time_rfc3339} ${level} ${short_file}:${line} -")

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logMsg := func(format string, args ...any) {
				switch {
				case v.Status >= 500:
					e.Logger.Errorf(format, args...)
				case v.Status >= 400:
					e.Logger.Warnf(format, args...)
				default:
					e.Logger.Infof(format, args...)
				}
			}
			logMsg("%s %s - %d - %.2fms - %s",
				v.Method,
				v.URI,
				v.Status,
				float64(v.Latency.Microseconds())/1000.0,
				v.RemoteIP,
			)
			return nil
		},
	}))
	debugMode := slices.Contains(os.Args[1:], "--debug")
	if debugMode {
		e.Logger.Warn("Debug mode is enabled.")
		e.Debug = true
		e.Logger.SetLevel(log.DEBUG)
	}

	e.Use(middleware.Recover())

	conn, err := db.Connect()
	if err != nil {
		commons.Logger.Fatal("Failed to connect to database: ", err)
	}
	if slices.Contains(os.Args[1:], "--migrate-db") {
		commons.Logger.Debug("--migrate-db flag detected, running migrations")
		if err := db.Migrate(conn); err != nil {
			commons.Logger.Fatal("Failed to migrate database: ", err)
		}
	}

	dispatcher := notifications.NewDispatcher()

	cepClient, err := cep.NewClient("")
	if err != nil {
		commons.Logger.Fatal("Failed to initialize CEP client: ", err)
	}

	handler := handlers.NewHandler(conn, dispatcher, cepClient)

	if slices.Contains(os.Args[1:], "--purge-tokens") {
		commons.Logger.Debug("--purge-tokens flag detected, purging stale verification tokens")
		cutoff := time.Now().Add(-30 * 24 * time.Hour)
		if _, err := handler.Verification.PurgeStale(cutoff); err != nil {
			commons.Logger.Error("Token purge failed: ", err)
		}
	}

	routes.RegisterRoutes(e, handler)

	port := commons.GetEnv("PORT")
	if port == "" {
		port = ":8080"
	}
	if port[0] != ':' {
		port = ":" + port
	}
	e.Logger.Fatal(e.Start(port))
}
