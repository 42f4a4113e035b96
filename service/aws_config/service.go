// Package awsconfig loads AWS configuration for the optional S3 mirror and SNS notification.
package awsconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// NewService creates a new AWS configuration service.
func NewService() Service {
	return &service{newSTS: func(cfg aws.Config) STSClientAPI { return sts.NewFromConfig(cfg) }}
}

func (s *service) GetAWSCfg(ctx context.Context, region, profile string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	// Only set region/profile if explicitly provided; otherwise the SDK reads
	// AWS_REGION, AWS_PROFILE and the shared config files.
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	// CI has no terminal to prompt on; an MFA-protected profile must fail fast.
	opts = append(opts, config.WithAssumeRoleCredentialOptions(func(o *stscreds.AssumeRoleOptions) {
		o.TokenProvider = func() (string, error) {
			return "", errors.New("MFA-protected profiles are not supported in release runs")
		}
	}))

	cfg, err := loadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return aws.Config{}, errors.New("no AWS region configured (set aws.region or AWS_REGION)")
	}
	return cfg, nil
}

// CallerAccount resolves the account the credentials belong to. It doubles as a
// credentials check before any asset is uploaded.
func (s *service) CallerAccount(ctx context.Context, cfg aws.Config) (string, error) {
	out, err := s.newSTS(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to verify AWS credentials: %w", err)
	}
	if out.Account == nil || *out.Account == "" {
		return "", errors.New("unable to resolve AWS account ID")
	}
	return *out.Account, nil
}
