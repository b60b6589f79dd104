package maps

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
)

func TestClientResolvePlaceRequest(t *testing.T) {
	const expectedURL = "http://maps.test/v1/places/place_123"
	respBody := `{"id":"place_123","formattedAddress":"123 Demo St","location":{"latitude":1.23,"longitude":-4.56}}`

	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()
		return jsonResponse(http.StatusOK, respBody), nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://maps.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	place, err := client.ResolvePlace(context.Background(), " place_123 ")
	if err != nil {
		t.Fatalf("resolve place: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("X-Goog-Api-Key") != "test-key" {
		t.Fatalf("api key header missing")
	}
	if capturedHeaders.Get("X-Goog-FieldMask") != placeResolveFieldMask {
		t.Fatalf("unexpected field mask %q", capturedHeaders.Get("X-Goog-FieldMask"))
	}
	if place.Location.Lat != 1.23 || place.Location.Lng != -4.56 {
		t.Fatalf("unexpected location %+v", place.Location)
	}
	if place.FormattedAddress != "123 Demo St" {
		t.Fatalf("unexpected address %q", place.FormattedAddress)
	}
}

func TestClientResolvePlaceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		rt   roundTripFunc
		code pkgerrors.Code
	}{
		{
			name: "not found",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusNotFound, `{}`), nil
			},
			code: pkgerrors.CodeNotFound,
		},
		{
			name: "server error",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusBadGateway, `upstream`), nil
			},
			code: pkgerrors.CodeUpstreamUnavailable,
		},
		{
			name: "transport error",
			rt: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("dial tcp: timeout")
			},
			code: pkgerrors.CodeUpstreamUnavailable,
		},
		{
			name: "missing location",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"id":"x"}`), nil
			},
			code: pkgerrors.CodeValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient("k", WithBaseURL("http://maps.test/v1"), WithHTTPClient(&http.Client{Transport: tc.rt}))
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.ResolvePlace(context.Background(), "abc")
			if !pkgerrors.HasCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestClientRequiresAPIKeyAndPlaceID(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected api key error")
	}
	client, err := NewClient("k")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ResolvePlace(context.Background(), ""); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var nilClient *Client
	if _, err := nilClient.ResolvePlace(context.Background(), "x"); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}
