package awsx

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apprunner"
	"github.com/aws/aws-sdk-go-v2/service/apprunner/types"
)

// ServiceSnapshot is the slice of App Runner service state the CLI shows.
type ServiceSnapshot struct {
	Name    string
	Status  string
	URL     string
	Updated time.Time
}

// Settled reports whether the service has left OPERATION_IN_PROGRESS.
func (s ServiceSnapshot) Settled() bool {
	return s.Status != string(types.ServiceStatusOperationInProgress)
}

// Running reports whether the service is serving traffic.
func (s ServiceSnapshot) Running() bool {
	return s.Status == string(types.ServiceStatusRunning)
}

// StartDeployment triggers a rolling deployment that re-pulls the image the
// service is configured for. Returns the operation identifier App Runner
// assigns to the rollout.
func (c *Client) StartDeployment(ctx context.Context, serviceARN string) (string, error) {
	out, err := c.apprunner.StartDeployment(ctx, &apprunner.StartDeploymentInput{
		ServiceArn: aws.String(serviceARN),
	})
	if err != nil {
		return "", fmt.Errorf("failed to start App Runner deployment: %w", err)
	}
	return aws.ToString(out.OperationId), nil
}

// DescribeService fetches the current service state.
func (c *Client) DescribeService(ctx context.Context, serviceARN string) (ServiceSnapshot, error) {
	out, err := c.apprunner.DescribeService(ctx, &apprunner.DescribeServiceInput{
		ServiceArn: aws.String(serviceARN),
	})
	if err != nil {
		return ServiceSnapshot{}, fmt.Errorf("failed to describe App Runner service: %w", err)
	}
	svc := out.Service
	if svc == nil {
		return ServiceSnapshot{}, fmt.Errorf("App Runner returned no service for %s", serviceARN)
	}
	return ServiceSnapshot{
		Name:    aws.ToString(svc.ServiceName),
		Status:  string(svc.Status),
		URL:     aws.ToString(svc.ServiceUrl),
		Updated: aws.ToTime(svc.UpdatedAt),
	}, nil
}

// WaitForDeployment polls the service until the in-flight operation
// settles. tick fires once per poll so the caller can animate a spinner.
// The context is the only timeout: the pipeline imposes none of its own.
func (c *Client) WaitForDeployment(ctx context.Context, serviceARN string, interval time.Duration, tick func()) (ServiceSnapshot, error) {
	for {
		snap, err := c.DescribeService(ctx, serviceARN)
		if err != nil {
			return ServiceSnapshot{}, err
		}
		if snap.Settled() {
			if !snap.Running() {
				return snap, fmt.Errorf("deployment settled with service status %s", snap.Status)
			}
			return snap, nil
		}
		log.Debugf("service %s still %s", snap.Name, snap.Status)
		if tick != nil {
			tick()
		}
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-time.After(interval):
		}
	}
}
