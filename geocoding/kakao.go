package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/net/context/ctxhttp"

	"github.com/vipmap/inventory-server/config"
	"github.com/vipmap/inventory-server/errortypes"
	"github.com/vipmap/inventory-server/metrics"
)

// KakaoClient geocodes addresses with the Kakao local address search API.
type KakaoClient struct {
	httpClient    *http.Client
	endpoint      string
	apiKey        string
	metricsEngine metrics.Engine
}

func NewKakaoClient(httpClient *http.Client, cfg config.Geocoder, metricsEngine metrics.Engine) *KakaoClient {
	return &KakaoClient{
		httpClient:    httpClient,
		endpoint:      cfg.Endpoint,
		apiKey:        cfg.APIKey,
		metricsEngine: metricsEngine,
	}
}

type kakaoResponse struct {
	Documents []struct {
		X string `json:"x"` // longitude
		Y string `json:"y"` // latitude
	} `json:"documents"`
}

func (c *KakaoClient) Lookup(ctx context.Context, address string) (Result, error) {
	req, err := http.NewRequest("GET", c.endpoint+"?query="+url.QueryEscape(address), nil)
	if err != nil {
		return Result{}, c.fail(fmt.Sprintf("failed to build geocode request: %v", err))
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := ctxhttp.Do(ctx, c.httpClient, req)
	if err != nil {
		return Result{}, c.fail(fmt.Sprintf("geocode request for %q failed: %v", address, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, c.fail(fmt.Sprintf("geocode request for %q returned status %d", address, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, c.fail(fmt.Sprintf("failed to read geocode response: %v", err))
	}

	var parsed kakaoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, c.fail(fmt.Sprintf("failed to parse geocode response: %v", err))
	}

	if len(parsed.Documents) == 0 {
		c.metricsEngine.RecordGeocodeLookup(metrics.GeocodeNotFound)
		return Result{Found: false}, nil
	}

	doc := parsed.Documents[0]
	lat, latErr := strconv.ParseFloat(doc.Y, 64)
	lon, lonErr := strconv.ParseFloat(doc.X, 64)
	if latErr != nil || lonErr != nil {
		return Result{}, c.fail(fmt.Sprintf("geocode response for %q has malformed coordinates (%q, %q)", address, doc.Y, doc.X))
	}

	c.metricsEngine.RecordGeocodeLookup(metrics.GeocodeFound)
	return Result{Found: true, Latitude: lat, Longitude: lon}, nil
}

// fail records the error outcome and returns a warning-severity Geocode
// error: lookup failures degrade per row rather than failing a whole pass.
func (c *KakaoClient) fail(message string) error {
	c.metricsEngine.RecordGeocodeLookup(metrics.GeocodeError)
	return &errortypes.Geocode{Message: message}
}
