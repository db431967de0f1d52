package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"promti/internal/domain"
)

// MockProgressRepository is a mock for repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Load(playerID int64) (*domain.ProgressRecord, error) {
	args := m.Called(playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) Save(playerID int64, record *domain.ProgressRecord) error {
	args := m.Called(playerID, record)
	return args.Error(0)
}

// MockTextGenerationClient is a mock for service.TextGenerationClient
type MockTextGenerationClient struct {
	mock.Mock
}

func (m *MockTextGenerationClient) Ask(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockRewardedAds is a mock for service.RewardedAdCollaborator
type MockRewardedAds struct {
	mock.Mock
}

func (m *MockRewardedAds) ShowRewarded(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// MockInterstitialAds is a mock for service.InterstitialAdCollaborator
type MockInterstitialAds struct {
	mock.Mock
}

func (m *MockInterstitialAds) ShowInterstitial(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPayments is a mock for service.PaymentCollaborator
type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) Purchase(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// MockCloudSync is a mock for service.CloudSyncCollaborator
type MockCloudSync struct {
	mock.Mock
}

func (m *MockCloudSync) Pull(ctx context.Context, playerID int64) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockCloudSync) Push(ctx context.Context, playerID int64, record *domain.ProgressRecord) error {
	args := m.Called(ctx, playerID, record)
	return args.Error(0)
}
