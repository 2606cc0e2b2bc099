package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"doctrack/backend/progress-service/logging"
	"doctrack/backend/progress-service/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembersClient fetches the workspace roster from the users service. The
// roster is the only piece of member data the progress service needs and
// it is never mutated here. Calls go through a circuit breaker so a users
// service outage degrades fast instead of piling up requests.
type MembersClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewMembersClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *MembersClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &MembersClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

func (c *MembersClient) ListMembers(ctx context.Context, workspace primitive.ObjectID) ([]models.Member, error) {
	url := fmt.Sprintf("%s/api/workspaces/%s/members", c.baseURL, workspace.Hex())

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("users service returned status %d", resp.StatusCode)
		}

		var members []models.Member
		if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
			return nil, fmt.Errorf("failed to decode members response: %v", err)
		}
		return members, nil
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: MEMBERS_FETCH_FAILED, Description: Fetching members for workspace %s failed: %v", workspace.Hex(), err)
		return nil, fmt.Errorf("failed to fetch workspace members: %v", err)
	}

	return result.([]models.Member), nil
}
