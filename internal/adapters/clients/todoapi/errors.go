package todoapi

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/jsamuelsen11/todo-api/internal/domain"
)

const maxErrorBodySize = 1 << 20

// problem is the part of an RFC 9457 body the server writes for 400 and 401.
type problem struct {
	Detail string `json:"detail"`
	Errors []struct {
		Location string `json:"location"`
		Message  string `json:"message"`
	} `json:"errors"`
}

// TranslateHTTPError turns a non-success API response into an error that
// wraps one of the domain sentinels. A 400 or 422 problem body listing field
// errors becomes a *domain.ValidationError.
func TranslateHTTPError(resp *http.Response) error {
	p := readProblem(resp)
	code := resp.StatusCode

	if (code == http.StatusBadRequest || code == http.StatusUnprocessableEntity) && len(p.Errors) > 0 {
		fields := make(map[string]string, len(p.Errors))
		for _, e := range p.Errors {
			fields[e.Location] = e.Message
		}
		return &domain.ValidationError{Fields: fields}
	}

	detail := cmp.Or(p.Detail, http.StatusText(code))
	if sentinel := sentinelFor(code); sentinel != nil {
		return fmt.Errorf("%s: %w", detail, sentinel)
	}
	return fmt.Errorf("unexpected status %d: %s", code, detail)
}

func sentinelFor(code int) error {
	switch {
	case code == http.StatusNotFound:
		return domain.ErrNotFound
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return domain.ErrUnauthorized
	case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
		return domain.ErrUnavailable
	default:
		return nil
	}
}

// readProblem decodes resp.Body when it is declared as problem+json. Any
// other or unreadable body yields the zero problem.
func readProblem(resp *http.Response) problem {
	if resp.Body == nil {
		return problem{}
	}
	mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mt != "application/problem+json" {
		return problem{}
	}

	var p problem
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodySize)).Decode(&p); err != nil {
		return problem{}
	}
	return p
}
