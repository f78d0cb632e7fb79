package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/finvault/dashboard-core/internal/handlers/v1/auth"
	"github.com/finvault/dashboard-core/internal/handlers/v1/budgets"
	"github.com/finvault/dashboard-core/internal/handlers/v1/status"
	"github.com/finvault/dashboard-core/internal/handlers/v1/transfers"
	"github.com/finvault/dashboard-core/internal/logging"
	"github.com/finvault/dashboard-core/internal/service"
	"github.com/finvault/dashboard-core/internal/session"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Sessions *session.Store
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Sessions)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	humaAPI := humago.New(mux, huma.DefaultConfig("dashboard-core", "1.0.0"))
	humaAPI.UseMiddleware(logging.HumaMiddleware(r.Logger))

	budgets.NewListBudgetsHandler(r.Service.Budget).Register(humaAPI)
	budgets.NewCreateBudgetHandler(r.Service.Budget).Register(humaAPI)
	budgets.NewUpdateBudgetHandler(r.Service.Budget).Register(humaAPI)
	budgets.NewDeleteBudgetHandler(r.Service.Budget).Register(humaAPI)
	budgets.NewCheckBudgetHandler(r.Service.Budget).Register(humaAPI)
	budgets.NewSyncBudgetsHandler(r.Service.Budget).Register(humaAPI)

	transfers.NewEvaluateTransferHandler(r.Service.Transfer).Register(humaAPI)
	transfers.NewExecuteTransferHandler(r.Service.Transfer).Register(humaAPI)
	transfers.NewListHistoryHandler(r.Service.Transfer).Register(humaAPI)

	auth.NewBeginOTPHandler(r.Service.OTP).Register(humaAPI)
	auth.NewVerifyOTPHandler(r.Service.OTP).Register(humaAPI)
	auth.NewResendOTPHandler(r.Service.OTP).Register(humaAPI)
	auth.NewSessionHandler(r.Sessions).Register(humaAPI)

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
