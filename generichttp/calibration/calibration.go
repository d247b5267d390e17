// Package calibration exposes a calibration session, the sequence generators,
// and the pattern resolver over HTTP, so remote tooling can drive a bench
// through the server.
package calibration

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/chromabench/chromabench/chroma"
	"github.com/chromabench/chromabench/generichttp"
	"github.com/chromabench/chromabench/pattern"
	"github.com/chromabench/chromabench/sequence"
	"github.com/chromabench/chromabench/session"
)

// defaults for sequence generation when the query omits them
const (
	defaultGrayPoints = 11
	defaultSatSteps   = 4
)

// HTTPCalibration wraps a session in an HTTP interface.
type HTTPCalibration struct {
	Sess *session.Session

	RouteTable generichttp.RouteTable
}

// New returns a wrapper with the route table pre-configured.
func New(s *session.Session) HTTPCalibration {
	h := HTTPCalibration{Sess: s}
	rt := generichttp.RouteTable{
		{Method: http.MethodGet, Path: "/id"}: generichttp.GetString(func() (string, error) {
			return s.ID, nil
		}),
		{Method: http.MethodGet, Path: "/name"}: generichttp.GetString(func() (string, error) {
			return s.Name, nil
		}),
		{Method: http.MethodPost, Path: "/name"}: generichttp.SetString(func(name string) error {
			s.Name = name
			return nil
		}),
		{Method: http.MethodGet, Path: "/anchors"}:     h.getAnchors,
		{Method: http.MethodPost, Path: "/anchors"}:    h.setAnchors,
		{Method: http.MethodGet, Path: "/stats"}:       h.stats,
		{Method: http.MethodGet, Path: "/points"}:      h.allPoints,
		{Method: http.MethodDelete, Path: "/points"}:   h.clearAll,
		{Method: http.MethodGet, Path: "/points/{category}"}:    h.categoryPoints,
		{Method: http.MethodDelete, Path: "/points/{category}"}: h.clearCategory,
		{Method: http.MethodPost, Path: "/points/{category}"}:   h.addPoint,
		{Method: http.MethodGet, Path: "/sequence/{protocol}"}:  h.genSequence,
		{Method: http.MethodPost, Path: "/pattern/resolve"}:     h.resolvePattern,
	}
	h.RouteTable = rt
	return h
}

// RT satisfies the generichttp.HTTPer interface.
func (h HTTPCalibration) RT() generichttp.RouteTable {
	return h.RouteTable
}

type anchorsT struct {
	Peak  float64 `json:"peak"`
	Black float64 `json:"black"`
}

func (h HTTPCalibration) getAnchors(w http.ResponseWriter, r *http.Request) {
	generichttp.JSON(w, anchorsT{Peak: h.Sess.Peak(), Black: h.Sess.Black()})
}

func (h HTTPCalibration) setAnchors(w http.ResponseWriter, r *http.Request) {
	var a anchorsT
	err := json.NewDecoder(r.Body).Decode(&a)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Sess.SetPeak(a.Peak)
	h.Sess.SetBlack(a.Black)
	w.WriteHeader(http.StatusOK)
}

// statsT carries the aggregate statistics.  ContrastRatio is null when the
// black anchor is exactly zero (infinite contrast), since JSON has no Inf.
type statsT struct {
	ContrastRatio     *float64 `json:"contrastRatio"`
	AverageDeltaE     float64  `json:"averageDeltaE"`
	GrayAverageDeltaE float64  `json:"grayscaleAverageDeltaE"`
	GrayMaxDeltaE     float64  `json:"grayscaleMaxDeltaE"`
	Points            int      `json:"points"`
}

func (h HTTPCalibration) stats(w http.ResponseWriter, r *http.Request) {
	st := statsT{
		AverageDeltaE:     h.Sess.AverageDeltaE(),
		GrayAverageDeltaE: h.Sess.GrayscaleAverageDeltaE(),
		GrayMaxDeltaE:     h.Sess.GrayscaleMaxDeltaE(),
		Points:            h.Sess.Len(),
	}
	if cr := h.Sess.ContrastRatio(); !math.IsInf(cr, 1) {
		st.ContrastRatio = &cr
	}
	generichttp.JSON(w, st)
}

// pointT is the wire form of a session point.  Gamma is null where the
// engine reports NaN.
type pointT struct {
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	IRE       float64    `json:"ire"`
	Time      time.Time  `json:"time"`
	Measured  [3]float64 `json:"measured"`
	Reference [3]float64 `json:"reference"`
	DeltaE    float64    `json:"dE2000"`
	RGBErr    [3]float64 `json:"rgbError"`
	Gamma     *float64   `json:"gamma"`
}

func toPointT(p session.Point) pointT {
	out := pointT{
		Name:      p.Name,
		Category:  p.Category.String(),
		IRE:       p.IRE,
		Time:      p.Time,
		Measured:  [3]float64{p.Measured.X, p.Measured.Y, p.Measured.Z},
		Reference: [3]float64{p.Reference.X, p.Reference.Y, p.Reference.Z},
		DeltaE:    p.DeltaE,
		RGBErr:    [3]float64{p.RGBErr.R, p.RGBErr.G, p.RGBErr.B},
	}
	if !math.IsNaN(p.Gamma) {
		g := p.Gamma
		out.Gamma = &g
	}
	return out
}

func toPointTs(pts []session.Point) []pointT {
	out := make([]pointT, len(pts))
	for i, p := range pts {
		out[i] = toPointT(p)
	}
	return out
}

func (h HTTPCalibration) allPoints(w http.ResponseWriter, r *http.Request) {
	generichttp.JSON(w, toPointTs(h.Sess.Points()))
}

func (h HTTPCalibration) clearAll(w http.ResponseWriter, r *http.Request) {
	h.Sess.Clear()
	w.WriteHeader(http.StatusOK)
}

func paramCategory(r *http.Request) (session.Category, error) {
	return session.ParseCategory(chi.URLParam(r, "category"))
}

func (h HTTPCalibration) categoryPoints(w http.ResponseWriter, r *http.Request) {
	cat, err := paramCategory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	generichttp.JSON(w, toPointTs(h.Sess.ByCategory(cat)))
}

func (h HTTPCalibration) clearCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := paramCategory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.Sess.ClearCategory(cat)
	w.WriteHeader(http.StatusOK)
}

// addPointT is the wire form of a measurement submission.  Reference is
// consulted only for the ColorChecker category, which has no derivable
// reference.
type addPointT struct {
	Name      string      `json:"name"`
	IRE       float64     `json:"ire"`
	Measured  [3]float64  `json:"measured"`
	Reference *[3]float64 `json:"reference"`
}

func (h HTTPCalibration) addPoint(w http.ResponseWriter, r *http.Request) {
	cat, err := paramCategory(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	var req addPointT
	err = json.NewDecoder(r.Body).Decode(&req)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	meas := chroma.XYZ{X: req.Measured[0], Y: req.Measured[1], Z: req.Measured[2]}
	var pt session.Point
	switch cat {
	case session.Grayscale:
		pt = h.Sess.AddGrayscale(req.Name, req.IRE, meas)
	case session.NearBlack:
		pt = h.Sess.AddNearBlack(req.Name, req.IRE, meas)
	case session.NearWhite:
		pt = h.Sess.AddNearWhite(req.Name, req.IRE, meas)
	case session.Primary:
		pt = h.Sess.AddPrimary(req.Name, req.IRE, meas)
	case session.Secondary:
		pt = h.Sess.AddSecondary(req.Name, req.IRE, meas)
	case session.Saturation:
		pt = h.Sess.AddSaturation(req.Name, req.IRE, meas)
	case session.ContrastRatio:
		pt = h.Sess.AddContrast(req.Name, req.IRE, meas)
	case session.ColorChecker:
		if req.Reference == nil {
			http.Error(w, "colorchecker points require a reference", http.StatusBadRequest)
			return
		}
		ref := chroma.XYZ{X: req.Reference[0], Y: req.Reference[1], Z: req.Reference[2]}
		pt = h.Sess.AddColorChecker(req.Name, ref, meas)
	case session.Free:
		pt = h.Sess.AddFree(req.Name, meas)
	}
	generichttp.JSON(w, toPointT(pt))
}

// stepT is the wire form of a measurement step.
type stepT struct {
	Name          string   `json:"name"`
	IRE           float64  `json:"ire"`
	Category      string   `json:"category"`
	Stimulus      [3]uint8 `json:"stimulus"`
	Descriptor    string   `json:"descriptor"`
	Average       bool     `json:"average"`
	IntegrationMS int64    `json:"integrationMs"`
}

func toStepT(s sequence.Step) stepT {
	return stepT{
		Name:          s.Name,
		IRE:           s.IRE,
		Category:      s.Category.String(),
		Stimulus:      s.Stimulus,
		Descriptor:    s.Descriptor,
		Average:       s.Average,
		IntegrationMS: s.Integration.Milliseconds(),
	}
}

func (st stepT) toStep() (sequence.Step, error) {
	out := sequence.Step{
		Name:        st.Name,
		IRE:         st.IRE,
		Stimulus:    st.Stimulus,
		Descriptor:  st.Descriptor,
		Average:     st.Average,
		Integration: time.Duration(st.IntegrationMS) * time.Millisecond,
	}
	if st.Category != "" {
		cat, err := session.ParseCategory(st.Category)
		if err != nil {
			return out, err
		}
		out.Category = cat
	}
	return out, nil
}

func queryInt(r *http.Request, key string, dflt int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return dflt
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return dflt
	}
	return n
}

func (h HTTPCalibration) genSequence(w http.ResponseWriter, r *http.Request) {
	gray := queryInt(r, "gray", defaultGrayPoints)
	sat := queryInt(r, "sat", defaultSatSteps)
	steps, err := sequence.Generate(chi.URLParam(r, "protocol"), gray, sat)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	out := make([]stepT, len(steps))
	for i, s := range steps {
		out[i] = toStepT(s)
	}
	generichttp.JSON(w, out)
}

// instructionT is the wire form of a pattern instruction.
type instructionT struct {
	Kind       string   `json:"kind"`
	Color      [3]uint8 `json:"rgb"`
	Background [3]uint8 `json:"bg"`
	WindowPct  float64  `json:"window"`
}

func (h HTTPCalibration) resolvePattern(w http.ResponseWriter, r *http.Request) {
	var st stepT
	err := json.NewDecoder(r.Body).Decode(&st)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	step, err := st.toStep()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	instr, ok := pattern.Resolve(step)
	if !ok {
		http.Error(w, "step descriptor cannot be resolved to a pattern", http.StatusUnprocessableEntity)
		return
	}
	kind := "full"
	if instr.Kind == pattern.Window {
		kind = "window"
	}
	generichttp.JSON(w, instructionT{
		Kind:       kind,
		Color:      instr.Color,
		Background: instr.Background,
		WindowPct:  instr.WindowPct,
	})
}
