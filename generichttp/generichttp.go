// Package generichttp maps engine operations onto HTTP routes and provides
// the JSON payload helpers shared by the route tables.
package generichttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi"
)

// MethodPath is one HTTP verb on one route.
type MethodPath struct {
	Method, Path string
}

// RouteTable maps endpoints to their handlers.
type RouteTable map[MethodPath]http.HandlerFunc

// Bind registers every route on the router.
func (rt RouteTable) Bind(r chi.Router) {
	for mp, h := range rt {
		r.Method(mp.Method, mp.Path, h)
	}
}

// Endpoints returns the routes as "METHOD /path" strings, sorted.
func (rt RouteTable) Endpoints() []string {
	out := make([]string, 0, len(rt))
	for mp := range rt {
		out = append(out, mp.Method+" "+mp.Path)
	}
	sort.Strings(out)
	return out
}

// An HTTPer exposes a route table over HTTP.
type HTTPer interface {
	RT() RouteTable
}

// SubMuxSanitize normalizes an endpoint for mounting: "cal" => "/cal".
func SubMuxSanitize(s string) string {
	s = strings.Trim(s, "/")
	return "/" + s
}

// The single-value JSON payload envelopes.
type (
	// FloatT is a float payload, {"f64": value}.
	FloatT struct {
		F64 float64 `json:"f64"`
	}

	// IntT is an int payload, {"int": value}.
	IntT struct {
		Int int `json:"int"`
	}

	// StrT is a string payload, {"str": value}.
	StrT struct {
		Str string `json:"str"`
	}

	// BoolT is a bool payload, {"bool": value}.
	BoolT struct {
		Bool bool `json:"bool"`
	}
)

// JSON writes v as a JSON response body.
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("error encoding response: %v", err), http.StatusInternalServerError)
	}
}

// GetFloat calls a float-getting function and replies {"f64": value}.
func GetFloat(fcn func() (float64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		JSON(w, FloatT{F64: f})
	}
}

// SetFloat parses a {"f64": value} body and calls fcn with it.
func SetFloat(fcn func(float64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f FloatT
		err := json.NewDecoder(r.Body).Decode(&f)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := fcn(f.F64); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetString calls a string-getting function and replies {"str": value}.
func GetString(fcn func() (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := fcn()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		JSON(w, StrT{Str: s})
	}
}

// SetString parses a {"str": value} body and calls fcn with it.
func SetString(fcn func(string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s StrT
		err := json.NewDecoder(r.Body).Decode(&s)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := fcn(s.Str); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
