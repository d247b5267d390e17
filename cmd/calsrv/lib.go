package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/chromabench/chromabench/colorspace"
	"github.com/chromabench/chromabench/eotf"
	"github.com/chromabench/chromabench/generichttp"
	"github.com/chromabench/chromabench/generichttp/calibration"
	"github.com/chromabench/chromabench/session"
)

// TargetSetup is the calibration target block of the config.
type TargetSetup struct {
	// Name labels the session.
	Name string `koanf:"name" yaml:"name"`

	// Space is the target color space, e.g. "rec709".
	Space string `koanf:"space" yaml:"space"`

	// Transfer is the target transfer function, e.g. "gamma" or "bt1886".
	Transfer string `koanf:"transfer" yaml:"transfer"`

	// Gamma is the power-law exponent, used only when Transfer is "gamma".
	Gamma float64 `koanf:"gamma" yaml:"gamma"`
}

// Config is the top-level configuration.
type Config struct {
	// Addr is the address:port to listen on.
	Addr string `koanf:"addr" yaml:"addr"`

	// Endpoint is the URL stem the session is mounted under.
	Endpoint string `koanf:"endpoint" yaml:"endpoint"`

	Target TargetSetup `koanf:"target" yaml:"target"`
}

func defaultConfig() Config {
	return Config{
		Addr:     ":8000",
		Endpoint: "cal",
		Target: TargetSetup{
			Name:     "living room display",
			Space:    "rec709",
			Transfer: "gamma",
			Gamma:    2.2,
		},
	}
}

// BuildMux assembles the session and mounts its HTTP wrapper.
func BuildMux(c Config) (chi.Router, error) {
	space, err := colorspace.Parse(c.Target.Space)
	if err != nil {
		return nil, err
	}
	kind, err := eotf.Parse(c.Target.Transfer)
	if err != nil {
		return nil, err
	}
	sess := session.New(c.Target.Name, space, kind, c.Target.Gamma)

	httper := calibration.New(sess)
	stem := generichttp.SubMuxSanitize(c.Endpoint)

	root := chi.NewRouter()
	sub := chi.NewRouter()
	httper.RT().Bind(sub)
	root.Mount(stem, sub)

	supergraph := map[string][]string{stem: httper.RT().Endpoints()}
	root.Get("/endpoints", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(supergraph)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return root, nil
}
