package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fiffu/pricewatch/config"
	"github.com/fiffu/pricewatch/lib"
	"github.com/fiffu/pricewatch/lib/market"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewAPI serves a REST mirror of the chat commands, for scripting and for
// operating the service without a chat client.
func NewAPI(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(cfg, log, svc)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go srv.ListenAndServe()
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(cfg *config.Config, log *zap.Logger, svc *lib.Service) http.Handler {
	ctrl := &controller{log, svc}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if creds := cfg.GetCreds(); len(creds) > 0 {
			r.Use(middleware.BasicAuth("pricewatch", creds))
		} else {
			log.Sugar().Info("Auth is disabled since no credentials are defined")
		}

		r.Route("/users/{user_id}/subscriptions", func(r chi.Router) {
			r.Get("/", ctrl.listSubscriptions)
			r.Post("/", ctrl.track)
			r.Delete("/", ctrl.untrack)
		})
		r.Get("/price", ctrl.price)
	})

	return r
}

type controller struct {
	log *zap.Logger
	svc *lib.Service
}

func (ctrl *controller) reject(w http.ResponseWriter, status int, err error) {
	if err != nil {
		http.Error(w, err.Error(), status)
	} else {
		w.WriteHeader(status)
	}
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	if b, err := json.Marshal(body); err != nil {
		ctrl.reject(w, http.StatusInternalServerError, err)
		ctrl.log.Sugar().Error("Request failed", "error", err)
		return
	} else {
		w.WriteHeader(status)
		if b != nil {
			w.Write(b)
		}
	}
}

func (ctrl *controller) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := parseUserID(chi.URLParam(r, "user_id"))

	subs, err := ctrl.svc.List(ctx, userID)
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, 200, FromMany[SubscriptionView](subs))
}

func (ctrl *controller) track(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := parseUserID(chi.URLParam(r, "user_id"))
	item := r.FormValue("item")
	threshold := r.FormValue("threshold")

	if item == "" {
		ctrl.reject(w, 400, errors.New("item is required"))
		return
	}
	n, err := strconv.Atoi(threshold)
	if err != nil {
		ctrl.reject(w, 400, errors.New("threshold must be an integer"))
		return
	}

	if err := ctrl.svc.Track(ctx, userID, item, n); err != nil {
		if errors.Is(err, lib.ErrNegativeThreshold) {
			ctrl.reject(w, 400, err)
		} else {
			ctrl.reject(w, 500, err)
		}
		return
	}
	ctrl.resolve(w, http.StatusOK, SubscriptionView{UserID: userID, Item: item, Threshold: n})
}

func (ctrl *controller) untrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := parseUserID(chi.URLParam(r, "user_id"))
	item := r.FormValue("item")
	if item == "" {
		item = r.URL.Query().Get("item")
	}

	if item == "" {
		ctrl.reject(w, 400, errors.New("item is required"))
		return
	}

	if err := ctrl.svc.Untrack(ctx, userID, item); err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, map[string]any{"removed": item})
}

func (ctrl *controller) price(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	item := r.URL.Query().Get("item")

	if item == "" {
		ctrl.reject(w, 400, errors.New("item is required"))
		return
	}

	summary, err := ctrl.svc.Price(ctx, item)
	switch {
	case errors.Is(err, market.ErrNoListings):
		ctrl.resolve(w, http.StatusOK, SummaryView{Item: item, NoData: true})
		return
	case err != nil:
		ctrl.reject(w, http.StatusBadGateway, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SummaryView{}.From(item, summary))
}

func parseUserID(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
