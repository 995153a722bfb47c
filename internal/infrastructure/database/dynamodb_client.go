package database

import (
	"context"

	appconfig "proposal_builder/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ConnectDynamoDB creates a DynamoDB client from the dynamodb config section.
//
// Local-friendly settings:
//   - region defaults to us-east-1
//   - access key / secret default to "local"
//   - endpoint is optional (e.g. http://dynamodb:8000)
func ConnectDynamoDB(ctx context.Context, cfg appconfig.DynamoDBConfig) (*dynamodb.Client, error) {
	awsCfg, err := NewAWSConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "dynamodb: load aws config")
	}
	zap.L().Info("[dynamodb][client] configured",
		zap.String("region", awsCfg.Region),
		zap.String("endpoint", cfg.Endpoint),
	)
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func NewAWSConfig(ctx context.Context, cfg appconfig.DynamoDBConfig) (aws.Config, error) {
	// Local DynamoDB does not validate credentials, but the AWS SDK requires them.
	creds := credentials.NewStaticCredentialsProvider(
		orDefault(cfg.AccessKeyID, "local"),
		orDefault(cfg.SecretAccessKey, "local"),
		"",
	)

	return config.LoadDefaultConfig(ctx,
		config.WithRegion(orDefault(cfg.Region, "us-east-1")),
		config.WithCredentialsProvider(creds),
	)
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
