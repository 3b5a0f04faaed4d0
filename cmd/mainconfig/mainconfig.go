package mainconfig

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	appconfig "github.com/apexdigital/leadgen-platform/internal/config"
)

// LoadAWSConfig centralizes AWS SDK initialization so every binary that
// touches S3 or SES shares the same wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, err
	}
	return awsCfg, nil
}
