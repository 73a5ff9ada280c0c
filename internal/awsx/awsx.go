// Package awsx holds the AWS side of the deployment pipeline: caller
// identity, ECR authentication and repository management, and App Runner
// deployment triggering. Service clients sit behind narrow interfaces so
// the pipeline logic can be exercised without AWS.
package awsx

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apprunner"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type ecrAPI interface {
	GetAuthorizationToken(ctx context.Context, params *ecr.GetAuthorizationTokenInput, optFns ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error)
	DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error)
	CreateRepository(ctx context.Context, params *ecr.CreateRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error)
}

type appRunnerAPI interface {
	StartDeployment(ctx context.Context, params *apprunner.StartDeploymentInput, optFns ...func(*apprunner.Options)) (*apprunner.StartDeploymentOutput, error)
	DescribeService(ctx context.Context, params *apprunner.DescribeServiceInput, optFns ...func(*apprunner.Options)) (*apprunner.DescribeServiceOutput, error)
}

// Client bundles the service clients the pipeline talks to.
type Client struct {
	sts       stsAPI
	ecr       ecrAPI
	apprunner appRunnerAPI
}

// New loads the default credential chain (env, shared config, SSO, IMDS)
// and constructs the service clients. The region argument overrides the
// chain's region when non-empty.
func New(ctx context.Context, region string) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	log.Debugf("aws configuration loaded, region %s", cfg.Region)

	return &Client{
		sts:       sts.NewFromConfig(cfg),
		ecr:       ecr.NewFromConfig(cfg),
		apprunner: apprunner.NewFromConfig(cfg),
	}, nil
}
