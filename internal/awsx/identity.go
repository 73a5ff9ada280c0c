package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Identity is the resolved caller: the account that owns the registry and
// the principal ARN, mostly useful for doctor output.
type Identity struct {
	Account string
	ARN     string
}

// Identity resolves the caller through STS. Failure here means the
// credential chain is unusable, so the message passes the SDK error
// through untouched.
func (c *Client) Identity(ctx context.Context) (Identity, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("could not resolve AWS caller identity: %w", err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
	}, nil
}

// AccountID returns just the account number; the pipeline uses it to build
// the registry URI.
func (c *Client) AccountID(ctx context.Context) (string, error) {
	id, err := c.Identity(ctx)
	if err != nil {
		return "", err
	}
	return id.Account, nil
}
