// Package platform provides the dev-mode implementations of the ad, payment
// and cloud-sync collaborators, used when no real platform SDK is attached:
// rewards are always granted, interstitials always "shown" and purchases
// auto-confirm, so the game is fully playable in development.
package platform

import (
	"context"

	"go.uber.org/zap"

	"promti/internal/domain"
)

// DevRewardedAds always grants the reward
type DevRewardedAds struct {
	Logger *zap.Logger
}

func (a *DevRewardedAds) ShowRewarded(context.Context) (bool, error) {
	a.Logger.Debug("Dev mode: rewarded ad auto-granted")
	return true, nil
}

// DevInterstitialAds always reports the ad as shown
type DevInterstitialAds struct {
	Logger *zap.Logger
}

func (a *DevInterstitialAds) ShowInterstitial(context.Context) error {
	a.Logger.Debug("Dev mode: interstitial skipped")
	return nil
}

// DevPayments auto-confirms every purchase
type DevPayments struct {
	Logger *zap.Logger
}

func (p *DevPayments) Purchase(_ context.Context, productID string) error {
	p.Logger.Info("Dev mode: purchase auto-confirmed", zap.String("product", productID))
	return nil
}

// NoopCloudSync keeps all progress local
type NoopCloudSync struct{}

func (NoopCloudSync) Pull(context.Context, int64) (*domain.ProgressRecord, error) {
	return nil, nil
}

func (NoopCloudSync) Push(context.Context, int64, *domain.ProgressRecord) error {
	return nil
}
