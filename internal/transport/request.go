package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

// unknownProblem is reported when a failed response carries no error list.
const unknownProblem = "Some unknown problem"

// errorBody is the structured error list a service may return.
type errorBody struct {
	Errors []errors.ServiceError `json:"errors"`
}

// DecodeResponse decodes a JSON response into target. Non-200 responses become
// an *errors.APIError carrying the service error list when the body has one.
func DecodeResponse(resp *http.Response, provider string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &errors.APIError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    unknownProblem,
		}
		if resp.Request != nil && resp.Request.URL != nil {
			apiErr.Endpoint = resp.Request.URL.Path
		}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && len(eb.Errors) > 0 {
			apiErr.Errors = eb.Errors
		} else if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
			apiErr.Message = unknownProblem + ": " + text
		}
		return apiErr
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
