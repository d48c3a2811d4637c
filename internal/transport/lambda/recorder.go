package lambda

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// responseRecorder captures what the router writes so it can be returned as a
// proxy response.
type responseRecorder struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: http.Header{}}
}

func (r *responseRecorder) Header() http.Header { return r.header }

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(b)
}

func (r *responseRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *responseRecorder) result() events.APIGatewayProxyResponse {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	headers := make(map[string]string, len(r.header))
	multi := make(map[string][]string, len(r.header))
	for k, vs := range r.header {
		headers[k] = strings.Join(vs, ",")
		multi[k] = vs
	}
	return events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           headers,
		MultiValueHeaders: multi,
		Body:              r.body.String(),
	}
}
