package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stretchr/testify/require"

	"github.com/redeployer/redeployer/internal/redeploy"
)

type fakeServiceClient struct {
	calls           []*ecs.UpdateServiceInput
	updateServiceFn func() (*ecs.UpdateServiceOutput, error)
}

func (f *fakeServiceClient) UpdateService(
	_ context.Context,
	params *ecs.UpdateServiceInput,
	_ ...func(*ecs.Options),
) (*ecs.UpdateServiceOutput, error) {
	f.calls = append(f.calls, params)
	return f.updateServiceFn()
}

const testPushEventBody = `{
	"source": "registry",
	"detail-type": "Image Action",
	"detail": {
		"action-type": "PUSH",
		"repository-name": "my-repo"
	}
}`

func TestHandleEvent(t *testing.T) {
	testCases := []struct {
		name       string
		cfg        ServerConfig
		client     *fakeServiceClient
		req        func() *http.Request
		assertions func(*testing.T, *fakeServiceClient, *httptest.ResponseRecorder)
	}{
		{
			name: "missing token",
			cfg:  ServerConfig{Token: "my-super-secret-token", MaxBodyBytes: 2 << 20},
			client: &fakeServiceClient{
				updateServiceFn: func() (*ecs.UpdateServiceOutput, error) {
					return &ecs.UpdateServiceOutput{}, nil
				},
			},
			req: func() *http.Request {
				return httptest.NewRequest(
					http.MethodPost,
					"/api/v1/events",
					bytes.NewBufferString(testPushEventBody),
				)
			},
			assertions: func(t *testing.T, client *fakeServiceClient, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, rr.Code)
				require.Empty(t, client.calls)
			},
		},
		{
			name: "malformed body",
			cfg:  ServerConfig{MaxBodyBytes: 2 << 20},
			client: &fakeServiceClient{
				updateServiceFn: func() (*ecs.UpdateServiceOutput, error) {
					return &ecs.UpdateServiceOutput{}, nil
				},
			},
			req: func() *http.Request {
				return httptest.NewRequest(
					http.MethodPost,
					"/api/v1/events",
					bytes.NewBufferString("this is not json"),
				)
			},
			assertions: func(t *testing.T, client *fakeServiceClient, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, rr.Code)
				require.JSONEq(t, `{"error":"invalid request body"}`, rr.Body.String())
				require.Empty(t, client.calls)
			},
		},
		{
			name: "push event triggers a redeployment",
			cfg:  ServerConfig{Token: "my-super-secret-token", MaxBodyBytes: 2 << 20},
			client: &fakeServiceClient{
				updateServiceFn: func() (*ecs.UpdateServiceOutput, error) {
					return &ecs.UpdateServiceOutput{
						Service: &ecstypes.Service{
							Deployments: []ecstypes.Deployment{
								{
									Id:     aws.String("d-1"),
									Status: aws.String("PRIMARY"),
								},
							},
						},
					}, nil
				},
			},
			req: func() *http.Request {
				req := httptest.NewRequest(
					http.MethodPost,
					"/api/v1/events",
					bytes.NewBufferString(testPushEventBody),
				)
				req.Header.Set("Authorization", "my-super-secret-token")
				return req
			},
			assertions: func(t *testing.T, client *fakeServiceClient, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, rr.Code)
				require.JSONEq(
					t,
					`{"outcome":"Triggered","deploymentId":"d-1","deploymentStatus":"PRIMARY"}`,
					rr.Body.String(),
				)
				require.Len(t, client.calls, 1)
				require.Equal(t, "main", aws.ToString(client.calls[0].Cluster))
				require.Equal(t, "app", aws.ToString(client.calls[0].Service))
				require.True(t, client.calls[0].ForceNewDeployment)
			},
		},
		{
			name: "non-push event is acknowledged but skipped",
			cfg:  ServerConfig{MaxBodyBytes: 2 << 20},
			client: &fakeServiceClient{
				updateServiceFn: func() (*ecs.UpdateServiceOutput, error) {
					return &ecs.UpdateServiceOutput{}, nil
				},
			},
			req: func() *http.Request {
				return httptest.NewRequest(
					http.MethodPost,
					"/api/v1/events",
					bytes.NewBufferString(
						`{"detail": {"action-type": "DELETE", "repository-name": "my-repo"}}`,
					),
				)
			},
			assertions: func(t *testing.T, client *fakeServiceClient, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, rr.Code)
				res := map[string]any{}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
				require.Equal(t, "Skipped", res["outcome"])
				require.Empty(t, client.calls)
			},
		},
		{
			name: "remote failure surfaces the underlying message",
			cfg:  ServerConfig{MaxBodyBytes: 2 << 20},
			client: &fakeServiceClient{
				updateServiceFn: func() (*ecs.UpdateServiceOutput, error) {
					return nil, errors.New("ServiceNotFoundException")
				},
			},
			req: func() *http.Request {
				return httptest.NewRequest(
					http.MethodPost,
					"/api/v1/events",
					bytes.NewBufferString(testPushEventBody),
				)
			},
			assertions: func(t *testing.T, client *fakeServiceClient, rr *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, rr.Code)
				require.Contains(t, rr.Body.String(), "update service failed")
				require.Contains(t, rr.Body.String(), "ServiceNotFoundException")
				require.Len(t, client.calls, 1)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			s := &server{
				cfg: testCase.cfg,
				redeployer: redeploy.NewRedeployer(
					redeploy.Config{Cluster: "main", Service: "app"},
					testCase.client,
				),
			}
			rr := httptest.NewRecorder()
			s.handleEvent(rr, testCase.req())
			testCase.assertions(t, testCase.client, rr)
		})
	}
}

func TestHandleHealthz(t *testing.T) {
	s := &server{}
	rr := httptest.NewRecorder()
	s.handleHealthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"OK"}`, rr.Body.String())
}
