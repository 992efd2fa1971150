package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/signetdash/signet/apiclient"
)

// Stats are the dashboard headline numbers.
type Stats struct {
	TotalDocuments    int `json:"totalDocuments"`
	PendingSignatures int `json:"pendingSignatures"`
	SignedDocuments   int `json:"signedDocuments"`
	RejectedDocuments int `json:"rejectedDocuments"`
}

// Activity is one entry of the recent-activity feed.
type Activity struct {
	ID            string    `json:"id"`
	DocumentTitle string    `json:"documentTitle"`
	Action        string    `json:"action"`
	Actor         string    `json:"actor"`
	Timestamp     time.Time `json:"timestamp"`
}

// Service fetches dashboard data through the authorized API client.
type Service struct {
	client *apiclient.Client
}

// NewService creates a dashboard Service on top of the authorized client.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Stats fetches the dashboard headline numbers.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	envelope, err := s.client.Get(ctx, "/dashboard/stats")
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Stats] get stats")
	}
	if !envelope.Success {
		return nil, errors.Wrap(envelope.Err(), "[Service.Stats]")
	}
	var stats Stats
	if err := envelope.DecodeData(&stats); err != nil {
		return nil, errors.Wrap(err, "[Service.Stats] decode stats")
	}
	return &stats, nil
}

// RecentActivity fetches the latest activity feed entries.
func (s *Service) RecentActivity(ctx context.Context) ([]Activity, error) {
	envelope, err := s.client.Get(ctx, "/dashboard/recent-activity")
	if err != nil {
		return nil, errors.Wrap(err, "[Service.RecentActivity] get activity")
	}
	if !envelope.Success {
		return nil, errors.Wrap(envelope.Err(), "[Service.RecentActivity]")
	}

	var feed []Activity
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &feed); err != nil {
			return nil, errors.Wrap(err, "[Service.RecentActivity] decode activity")
		}
	}
	return feed, nil
}
