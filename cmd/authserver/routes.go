package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/back-devcourse/authfilter"
	"github.com/back-devcourse/authfilter/oauthlogin"
	"github.com/back-devcourse/authfilter/result"
)

var errLoginRequired = result.Fail("401-1", "Login is required.")

// newRouter wires the routes behind filter. login may be nil when no
// provider is configured.
func newRouter(filter *authfilter.Filter, login *oauthlogin.Login) http.Handler {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/members/me", me).Methods(http.MethodGet)

	if login != nil {
		r.HandleFunc("/oauth2/authorization/{provider}", func(w http.ResponseWriter, req *http.Request) {
			login.LoginHandler(mux.Vars(req)["provider"]).ServeHTTP(w, req)
		}).Methods(http.MethodGet)
		r.HandleFunc("/login/oauth2/code/{provider}", func(w http.ResponseWriter, req *http.Request) {
			login.CallbackHandler(mux.Vars(req)["provider"]).ServeHTTP(w, req)
		}).Methods(http.MethodGet)
	}

	return filter.Handler(r)
}

func me(w http.ResponseWriter, r *http.Request) {
	principal, err := authfilter.GetPrincipal(r.Context())
	if err != nil {
		_ = result.Write(w, errLoginRequired)
		return
	}
	_ = result.Write(w, result.New("200-1", "OK", principal))
}
