package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/photo-grid/internal/fit"
)

const eps = 1e-9

func assertTransform(t *testing.T, got, want fit.Transform) {
	t.Helper()
	if math.Abs(got.Scale-want.Scale) > eps ||
		math.Abs(got.OffsetX-want.OffsetX) > eps ||
		math.Abs(got.OffsetY-want.OffsetY) > eps {
		t.Errorf("expected transform %+v, got %+v", want, got)
	}
}

func TestFitHandler_Fit(t *testing.T) {
	tests := []struct {
		name string
		body string
		want fit.Transform
	}{
		{
			name: "cover by default",
			body: `{"image": {"width": 2000, "height": 1000}, "placeholder": {"width": 400, "height": 400}}`,
			want: fit.Transform{Scale: 0.4, OffsetX: -200, OffsetY: 0},
		},
		{
			name: "contain mode",
			body: `{"image": {"width": 2000, "height": 1000}, "placeholder": {"width": 400, "height": 400}, "mode": "contain"}`,
			want: fit.Transform{Scale: 0.2, OffsetX: 0, OffsetY: 100},
		},
		{
			name: "whitespace allowed means contain",
			body: `{"image": {"width": 2000, "height": 1000}, "placeholder": {"width": 400, "height": 400}, "allow_whitespace": true}`,
			want: fit.Transform{Scale: 0.2, OffsetX: 0, OffsetY: 100},
		},
		{
			name: "explicit mode wins",
			body: `{"image": {"width": 2000, "height": 1000}, "placeholder": {"width": 400, "height": 400}, "allow_whitespace": true, "mode": "cover"}`,
			want: fit.Transform{Scale: 0.4, OffsetX: -200, OffsetY: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			NewFitHandler().Fit(recorder, jsonRequest(http.MethodPost, "/api/v1/fit", tc.body))

			assertStatusCode(t, recorder, http.StatusOK)
			var got fit.Transform
			parseJSONResponse(t, recorder, &got)
			assertTransform(t, got, tc.want)
		})
	}
}

func TestFitHandler_Fit_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `not json`},
		{"zero image", `{"image": {"width": 0, "height": 10}, "placeholder": {"width": 10, "height": 10}}`},
		{"missing placeholder", `{"image": {"width": 10, "height": 10}}`},
		{"unknown mode", `{"image": {"width": 10, "height": 10}, "placeholder": {"width": 10, "height": 10}, "mode": "stretch"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			NewFitHandler().Fit(recorder, jsonRequest(http.MethodPost, "/api/v1/fit", tc.body))
			assertStatusCode(t, recorder, http.StatusBadRequest)
		})
	}
}

func TestFitHandler_Clamp(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"past the edge", `{"offset": -500, "image_size": 2000, "placeholder_size": 400, "scale": 0.4}`, -400},
		{"gap at the start", `{"offset": 30, "image_size": 2000, "placeholder_size": 400, "scale": 0.4}`, 0},
		{"inside range", `{"offset": -123, "image_size": 2000, "placeholder_size": 400, "scale": 0.4}`, -123},
		{"smaller image is centered", `{"offset": -50, "image_size": 1000, "placeholder_size": 400, "scale": 0.2}`, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			NewFitHandler().Clamp(recorder, jsonRequest(http.MethodPost, "/api/v1/fit/clamp", tc.body))

			assertStatusCode(t, recorder, http.StatusOK)
			var result map[string]float64
			parseJSONResponse(t, recorder, &result)
			if math.Abs(result["offset"]-tc.want) > eps {
				t.Errorf("expected offset %v, got %v", tc.want, result["offset"])
			}
		})
	}
}

func TestFitHandler_Clamp_BadRequest(t *testing.T) {
	recorder := httptest.NewRecorder()
	NewFitHandler().Clamp(recorder, jsonRequest(http.MethodPost, "/api/v1/fit/clamp", `{"offset": 1, "image_size": 10, "placeholder_size": 10, "scale": 0}`))
	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestFitHandler_Zoom(t *testing.T) {
	tests := []struct {
		name string
		body string
		want fit.Transform
	}{
		{
			name: "zoom in keeps the point under the cursor",
			body: `{"cursor": {"x": 200, "y": 200}, "placeholder": {"width": 400, "height": 400}, "image": {"width": 2000, "height": 1000},
				"transform": {"scale": 0.4, "offset_x": -200, "offset_y": 0}, "delta_sign": -1}`,
			want: fit.Transform{Scale: 0.44, OffsetX: -240, OffsetY: -20},
		},
		{
			name: "zoom out stops at cover scale",
			body: `{"cursor": {"x": 200, "y": 200}, "placeholder": {"width": 400, "height": 400}, "image": {"width": 2000, "height": 1000},
				"transform": {"scale": 0.4, "offset_x": -200, "offset_y": 0}, "delta_sign": 1}`,
			want: fit.Transform{Scale: 0.4, OffsetX: -200, OffsetY: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			NewFitHandler().Zoom(recorder, jsonRequest(http.MethodPost, "/api/v1/fit/zoom", tc.body))

			assertStatusCode(t, recorder, http.StatusOK)
			var got fit.Transform
			parseJSONResponse(t, recorder, &got)
			assertTransform(t, got, tc.want)
		})
	}
}

func TestFitHandler_Zoom_BadRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			"zero delta",
			`{"placeholder": {"width": 400, "height": 400}, "image": {"width": 2000, "height": 1000}, "transform": {"scale": 0.4}, "delta_sign": 0}`,
			"delta_sign must be non-zero",
		},
		{
			"zero scale",
			`{"placeholder": {"width": 400, "height": 400}, "image": {"width": 2000, "height": 1000}, "delta_sign": 1}`,
			"transform scale must be positive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			NewFitHandler().Zoom(recorder, jsonRequest(http.MethodPost, "/api/v1/fit/zoom", tc.body))
			assertStatusCode(t, recorder, http.StatusBadRequest)
			assertJSONError(t, recorder, tc.message)
		})
	}
}

func TestFitHandler_MinCoverScale(t *testing.T) {
	recorder := httptest.NewRecorder()
	body := `{"placeholder": {"width": 400, "height": 400}, "image": {"width": 2000, "height": 1000}}`

	NewFitHandler().MinCoverScale(recorder, jsonRequest(http.MethodPost, "/api/v1/fit/min-cover-scale", body))

	assertStatusCode(t, recorder, http.StatusOK)
	var result map[string]float64
	parseJSONResponse(t, recorder, &result)
	if math.Abs(result["scale"]-0.4) > eps {
		t.Errorf("expected scale 0.4, got %v", result["scale"])
	}
}
