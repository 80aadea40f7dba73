package clients

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"plant-gallery/internal/models"
)

const RecognitionService = "plantnet"

// ErrNoMatch is returned when the recognition response has no usable top result.
var ErrNoMatch = errors.New("recognition returned no usable match")

type taxon struct {
	ScientificNameWithoutAuthor string `json:"scientificNameWithoutAuthor"`
}

type identifyResponse struct {
	Results []struct {
		Score   float64 `json:"score"`
		Species struct {
			taxon
			Genus  taxon `json:"genus"`
			Family taxon `json:"family"`
		} `json:"species"`
	} `json:"results"`
}

// RecognitionClient talks to a Pl@ntNet compatible identification API.
type RecognitionClient struct {
	BaseURL  string
	APIKey   string
	Organ    string
	Timeout  time.Duration
	Recorder UpstreamRecorder
}

func NewRecognitionClient(baseURL, apiKey, organ string, timeout time.Duration, rec UpstreamRecorder) *RecognitionClient {
	return &RecognitionClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		Organ:    organ,
		Timeout:  timeout,
		Recorder: rec,
	}
}

// Query posts the image as multipart field "images" and returns the raw
// response body. Any non-2xx answer is an error.
func (c *RecognitionClient) Query(ctx context.Context, upload models.Upload) (json.RawMessage, error) {
	endpoint := c.BaseURL + "/identify/all?api-key=" + url.QueryEscape(c.APIKey)

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	if c.Organ != "" {
		args.Set("organs", c.Organ)
	}

	agent := fiber.Post(endpoint).
		FileData(&fiber.FormFile{Fieldname: "images", Name: upload.Filename, Content: upload.Data}).
		MultipartForm(args)

	body, err := send(ctx, RecognitionService, agent, c.Timeout, c.Recorder)
	if err != nil {
		return nil, err
	}
	if !gojson.Valid(body) {
		return nil, errors.Errorf("%s returned a non-JSON body", RecognitionService)
	}
	return json.RawMessage(body), nil
}

// Identify queries the service and extracts family and genus from the
// first result. Results are ranked upstream; no score threshold applies.
func (c *RecognitionClient) Identify(ctx context.Context, upload models.Upload) (*models.Identification, error) {
	raw, err := c.Query(ctx, upload)
	if err != nil {
		return nil, err
	}
	return ParseIdentification(raw)
}

// ParseIdentification picks the best match out of a raw identification response.
func ParseIdentification(raw json.RawMessage) (*models.Identification, error) {
	var resp identifyResponse
	if err := gojson.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(err, "decoding recognition response")
	}
	if len(resp.Results) == 0 {
		return nil, ErrNoMatch
	}

	best := resp.Results[0]
	family := strings.TrimSpace(best.Species.Family.ScientificNameWithoutAuthor)
	genus := strings.TrimSpace(best.Species.Genus.ScientificNameWithoutAuthor)
	if family == "" || genus == "" {
		return nil, errors.Wrap(ErrNoMatch, "top result lacks family or genus")
	}

	return &models.Identification{
		Family: family,
		Genus:  genus,
		Score:  best.Score,
		Raw:    raw,
	}, nil
}
