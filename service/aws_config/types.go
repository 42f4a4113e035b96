package awsconfig

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// loadDefaultConfig is a variable to allow mocking in tests.
var loadDefaultConfig = config.LoadDefaultConfig

// STSClientAPI is the STS surface used for the credentials preflight.
type STSClientAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type service struct {
	newSTS func(aws.Config) STSClientAPI
}

// Service is the interface for loading AWS configuration for release publication.
type Service interface {
	GetAWSCfg(ctx context.Context, region, profile string) (aws.Config, error)
	CallerAccount(ctx context.Context, cfg aws.Config) (string, error)
}
