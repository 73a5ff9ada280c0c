package awsx

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// RegistryAuth is a short-lived credential for docker login against ECR.
type RegistryAuth struct {
	Host     string
	Username string
	Password string
	Expires  time.Time
}

// RegistryAuth obtains and decodes an ECR authorization token. The token
// is base64 over "user:password"; the user is always AWS.
func (c *Client) RegistryAuth(ctx context.Context) (RegistryAuth, error) {
	out, err := c.ecr.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return RegistryAuth{}, fmt.Errorf("failed to obtain ECR authorization token: %w", err)
	}
	if len(out.AuthorizationData) == 0 {
		return RegistryAuth{}, fmt.Errorf("ECR returned no authorization data")
	}

	data := out.AuthorizationData[0]
	username, password, err := decodeAuthorizationToken(aws.ToString(data.AuthorizationToken))
	if err != nil {
		return RegistryAuth{}, err
	}

	return RegistryAuth{
		Host:     strings.TrimPrefix(aws.ToString(data.ProxyEndpoint), "https://"),
		Username: username,
		Password: password,
		Expires:  aws.ToTime(data.ExpiresAt),
	}, nil
}

// EnsureRepository makes sure the repository namespace exists, creating it
// when absent. Reports whether this call created it. A repository that
// appears between the existence check and the create call counts as
// success: pre-existence is the expected steady state, not an error.
func (c *Client) EnsureRepository(ctx context.Context, name string) (bool, error) {
	_, err := c.ecr.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RepositoryNames: []string{name},
	})
	if err == nil {
		log.Debugf("repository %s already exists", name)
		return false, nil
	}

	var notFound *types.RepositoryNotFoundException
	if !errors.As(err, &notFound) {
		return false, fmt.Errorf("failed to query repository %s: %w", name, err)
	}

	_, err = c.ecr.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		RepositoryName: aws.String(name),
	})
	if err != nil {
		var exists *types.RepositoryAlreadyExistsException
		if errors.As(err, &exists) {
			log.Debugf("repository %s created concurrently", name)
			return false, nil
		}
		return false, fmt.Errorf("failed to create repository %s: %w", name, err)
	}

	log.Debugf("repository %s created", name)
	return true, nil
}

func decodeAuthorizationToken(token string) (username, password string, err error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("malformed ECR authorization token: %w", err)
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", fmt.Errorf("malformed ECR authorization token: missing separator")
	}
	return username, password, nil
}
