//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/restaurant-backoffice/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type inventoryRequest struct {
	ID            string `json:"id"`
	RestaurantID  string `json:"restaurantId"`
	ItemID        string `json:"itemId"`
	Quantity      string `json:"quantity"`
	Unit          string `json:"unit"`
	Status        string `json:"status"`
	State         string `json:"state"`
	CalledDriver  bool   `json:"calledDriver"`
	PendingStatus string `json:"pendingStatus"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	kind   string
	detail string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.kind, e.detail, e.status)
}

func TestLocationPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	requestBody := func(id, status, state string) matchers.Map {
		return matchers.Map{
			"id":            matchers.Like(id),
			"restaurantId":  matchers.Like(pacttest.ExampleRestaurantID),
			"itemId":        matchers.Like(pacttest.ExampleItemID),
			"quantity":      matchers.Like(pacttest.ExampleQuantity),
			"unit":          matchers.Like(pacttest.ExampleUnit),
			"status":        matchers.Term(status, "pending|accepted|rejected"),
			"state":         matchers.Term(state, "pending|accepted|dispatched|rejected"),
			"calledDriver":  matchers.Like(false),
			"pendingStatus": matchers.Term("pending", "pending|confirmed"),
		}
	}
	problemBody := func(problemType string, status int) matchers.Map {
		return matchers.Map{
			"type":   matchers.S(problemType),
			"title":  matchers.Like("problem"),
			"status": matchers.Like(status),
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateRequestsBaseline).
		UponReceiving("a location submitting an inventory request").
		WithRequest("POST", "/v1/requests", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleSubmitPayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(requestBody("generated-id", "pending", "pending"))
		})

	pact.AddInteraction().
		Given(pacttest.StateRequestAccepted).
		UponReceiving("a request to fetch an accepted inventory request").
		WithRequest("GET", "/v1/requests/"+pacttest.AcceptedRequestID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(requestBody(pacttest.AcceptedRequestID, "accepted", "accepted"))
		})

	pact.AddInteraction().
		Given(pacttest.StateRequestMissing).
		UponReceiving("a request for a missing inventory request").
		WithRequest("GET", "/v1/requests/"+pacttest.MissingRequestID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(problemBody("/problems/not-found", http.StatusNotFound))
		})

	pact.AddInteraction().
		Given(pacttest.StateRequestPending).
		UponReceiving("a request to reject a pending inventory request").
		WithRequest("POST", "/v1/requests/"+pacttest.PendingRequestID+"/reject").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(requestBody(pacttest.PendingRequestID, "rejected", "rejected"))
		})

	pact.AddInteraction().
		Given(pacttest.StateRequestAccepted).
		UponReceiving("a request to reject an already accepted inventory request").
		WithRequest("POST", "/v1/requests/"+pacttest.AcceptedRequestID+"/reject").
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(problemBody("/problems/invalid-transition", http.StatusConflict))
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newRequestsClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.Submit(ctx, pacttest.ExampleSubmitPayload())
		if err != nil {
			return fmt.Errorf("submit request: %w", err)
		}
		if created.ID == "" || created.Status != "pending" {
			return fmt.Errorf("expected a pending request with an id, got %+v", created)
		}

		fetched, err := client.Get(ctx, pacttest.AcceptedRequestID)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}
		if fetched.Status != "accepted" {
			return fmt.Errorf("expected accepted status, got %q", fetched.Status)
		}

		if err := expectStatus(client.Get(ctx, pacttest.MissingRequestID))(http.StatusNotFound); err != nil {
			return err
		}

		rejected, err := client.Reject(ctx, pacttest.PendingRequestID)
		if err != nil {
			return fmt.Errorf("reject request: %w", err)
		}
		if rejected.Status != "rejected" {
			return fmt.Errorf("expected rejected status, got %q", rejected.Status)
		}

		return expectStatus(client.Reject(ctx, pacttest.AcceptedRequestID))(http.StatusConflict)
	})
	require.NoError(t, err)
}

func expectStatus(_ *inventoryRequest, err error) func(int) error {
	return func(want int) error {
		var apiErr apiError
		if !errors.As(err, &apiErr) {
			return fmt.Errorf("expected status %d, got %v", want, err)
		}
		if apiErr.status != want {
			return fmt.Errorf("expected status %d, got %d", want, apiErr.status)
		}
		return nil
	}
}

type requestsClient struct {
	baseURL    string
	httpClient *http.Client
}

func newRequestsClient(config pactconsumer.MockServerConfig) *requestsClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &requestsClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *requestsClient) Submit(ctx context.Context, payload map[string]any) (*inventoryRequest, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/requests", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *requestsClient) Get(ctx context.Context, id string) (*inventoryRequest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/requests/"+id, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *requestsClient) Reject(ctx context.Context, id string) (*inventoryRequest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/requests/"+id+"/reject", nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *requestsClient) do(req *http.Request) (*inventoryRequest, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}
	var payload inventoryRequest
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{status: status, kind: problem.Type, detail: problem.Detail}
}
