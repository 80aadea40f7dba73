package clients

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"plant-gallery/internal/models"
)

const GeocoderService = "nominatim"

type reverseResponse struct {
	Error   string `json:"error"`
	Address struct {
		Country       string `json:"country"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		CityDistrict  string `json:"city_district"`
	} `json:"address"`
}

// GeocoderClient resolves coordinates to place names against a Nominatim
// compatible reverse endpoint.
type GeocoderClient struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Recorder  UpstreamRecorder
}

func NewGeocoderClient(baseURL, userAgent string, timeout time.Duration, rec UpstreamRecorder) *GeocoderClient {
	return &GeocoderClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Timeout:   timeout,
		Recorder:  rec,
	}
}

// Reverse returns the country, city and district around lat/lon. City falls
// back to town then village; district falls back to neighbourhood then
// city_district.
func (c *GeocoderClient) Reverse(ctx context.Context, lat, lon float64) (*models.Location, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=jsonv2&addressdetails=1&lat=%s&lon=%s",
		c.BaseURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))

	agent := fiber.Get(endpoint).UserAgent(c.UserAgent)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	body, err := send(ctx, GeocoderService, agent, c.Timeout, c.Recorder)
	if err != nil {
		return nil, err
	}

	var resp reverseResponse
	if err := gojson.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decoding reverse geocoding response")
	}
	if resp.Error != "" {
		return nil, errors.Errorf("%s: %s", GeocoderService, resp.Error)
	}

	a := resp.Address
	return &models.Location{
		Country:  firstNonEmpty(a.Country),
		City:     firstNonEmpty(a.City, a.Town, a.Village),
		District: firstNonEmpty(a.Suburb, a.Neighbourhood, a.CityDistrict),
	}, nil
}

func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}
