// Package deploy drives the release pipeline: preflight checks, image tag
// derivation, ECR authentication and repository setup, the buildx build and
// push, and the optional App Runner rollout.
package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Stumpwiz/lmacfy/internal/awsx"
	"github.com/Stumpwiz/lmacfy/internal/docker"
	"github.com/Stumpwiz/lmacfy/internal/git"
	"github.com/Stumpwiz/lmacfy/internal/ui"
)

// fallbackTag is used when no git revision can be derived.
const fallbackTag = "latest"

// Config carries the resolved settings for one pipeline run.
type Config struct {
	Region     string
	Repository string
	Tag        string
	Platform   string
	ServiceARN string
	ContextDir string
	AlsoLatest bool
	Deploy     bool
	Wait       bool
}

// Validate rejects configurations the pipeline cannot act on. Deployment
// without a service ARN fails here, before any AWS call happens.
func (c Config) Validate() error {
	if c.Repository == "" {
		return fmt.Errorf("repository name must not be empty")
	}
	if c.Region == "" {
		return fmt.Errorf("region must not be empty")
	}
	if c.Deploy && c.ServiceARN == "" {
		return fmt.Errorf("deployment requested but no App Runner service ARN is configured\n\n" +
			"Set service_arn in .lmacfy.yaml, pass --service-arn, or export LMACFY_SERVICE_ARN.\n" +
			"List your services with: aws apprunner list-services")
	}
	return nil
}

// Engine is the container side of the pipeline, satisfied by docker.Client.
type Engine interface {
	CheckDaemon(ctx context.Context) error
	CheckBuildx(ctx context.Context) error
	Login(ctx context.Context, host, username, password string) error
	BuildAndPush(ctx context.Context, spec docker.BuildSpec) error
}

// Cloud is the AWS side of the pipeline, satisfied by awsx.Client.
type Cloud interface {
	AccountID(ctx context.Context) (string, error)
	RegistryAuth(ctx context.Context) (awsx.RegistryAuth, error)
	EnsureRepository(ctx context.Context, name string) (bool, error)
	StartDeployment(ctx context.Context, serviceARN string) (string, error)
	WaitForDeployment(ctx context.Context, serviceARN string, interval time.Duration, tick func()) (awsx.ServiceSnapshot, error)
}

type spin interface {
	Add(int) error
	Finish() error
}

// Result reports what a pipeline run produced.
type Result struct {
	Registry    string
	References  []string
	Created     bool
	OperationID string
	Service     awsx.ServiceSnapshot
}

// Pipeline wires the container engine and the cloud together and runs the
// fixed deployment sequence.
type Pipeline struct {
	engine       Engine
	cloud        Cloud
	out          io.Writer
	revision     func(ctx context.Context, dir string) (string, error)
	dirty        func(ctx context.Context, dir string) bool
	spinner      func(description string) spin
	pollInterval time.Duration
}

// New builds a pipeline writing status output to stdout.
func New(engine Engine, cloud Cloud) *Pipeline {
	return &Pipeline{
		engine:       engine,
		cloud:        cloud,
		out:          os.Stdout,
		revision:     git.ShortRevision,
		dirty:        git.Dirty,
		spinner:      func(description string) spin { return ui.NewSpinner(description) },
		pollInterval: 5 * time.Second,
	}
}

// Run executes the pipeline. Every step is fail-fast: the first error
// aborts the run and nothing after it executes.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ContextDir == "" {
		cfg.ContextDir = "."
	}

	ui.Stepf(p.out, "Checking prerequisites")
	if err := p.engine.CheckDaemon(ctx); err != nil {
		return nil, err
	}
	if err := p.engine.CheckBuildx(ctx); err != nil {
		return nil, err
	}
	account, err := p.cloud.AccountID(ctx)
	if err != nil {
		return nil, err
	}
	ui.Detailf(p.out, "account %s, region %s", account, cfg.Region)

	tag := p.resolveTag(ctx, cfg)
	registry := fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", account, cfg.Region)
	imageRef := fmt.Sprintf("%s/%s:%s", registry, cfg.Repository, tag)

	ui.Stepf(p.out, "Authenticating docker to %s", registry)
	auth, err := p.cloud.RegistryAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.engine.Login(ctx, auth.Host, auth.Username, auth.Password); err != nil {
		return nil, err
	}

	ui.Stepf(p.out, "Ensuring repository %s exists", cfg.Repository)
	created, err := p.cloud.EnsureRepository(ctx, cfg.Repository)
	if err != nil {
		return nil, err
	}
	if created {
		ui.Detailf(p.out, "repository created")
	} else {
		ui.Detailf(p.out, "repository already present")
	}

	tags := []string{imageRef}
	if cfg.AlsoLatest && tag != fallbackTag {
		tags = append(tags, fmt.Sprintf("%s/%s:latest", registry, cfg.Repository))
	}
	ui.Stepf(p.out, "Building and pushing %s", imageRef)
	err = p.engine.BuildAndPush(ctx, docker.BuildSpec{
		ContextDir: cfg.ContextDir,
		Platform:   cfg.Platform,
		Tags:       tags,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Registry: registry, References: tags, Created: created}

	if cfg.Deploy {
		ui.Stepf(p.out, "Triggering App Runner deployment")
		opID, err := p.cloud.StartDeployment(ctx, cfg.ServiceARN)
		if err != nil {
			return nil, err
		}
		res.OperationID = opID
		ui.Detailf(p.out, "operation %s", opID)

		if cfg.Wait {
			sp := p.spinner("Waiting for deployment to settle")
			snap, err := p.cloud.WaitForDeployment(ctx, cfg.ServiceARN, p.pollInterval, func() { sp.Add(1) })
			sp.Finish()
			if err != nil {
				return nil, err
			}
			res.Service = snap
		}
	}

	p.summarize(res)
	return res, nil
}

// resolveTag prefers an explicit tag, then the git short revision of the
// build context, then the fallback. A missing repository is not an error.
func (p *Pipeline) resolveTag(ctx context.Context, cfg Config) string {
	if cfg.Tag != "" {
		return cfg.Tag
	}
	tag, err := p.revision(ctx, cfg.ContextDir)
	if err != nil || tag == "" {
		ui.Hintf(p.out, "no git revision available, tagging as %s", fallbackTag)
		return fallbackTag
	}
	if p.dirty(ctx, cfg.ContextDir) {
		ui.Hintf(p.out, "worktree has uncommitted changes, image %s will include them", tag)
	}
	return tag
}

func (p *Pipeline) summarize(res *Result) {
	ui.Successf(p.out, "Push complete")
	for _, ref := range res.References {
		ui.Reff(p.out, ref)
	}
	switch {
	case res.Service.URL != "":
		ui.Successf(p.out, "Service %s is %s", res.Service.Name, res.Service.Status)
		ui.Reff(p.out, "https://"+res.Service.URL)
		ui.Detailf(p.out, "probe it with: curl https://%s/healthz", res.Service.URL)
	case res.OperationID != "":
		ui.Detailf(p.out, "rollout is in progress, follow it with: lmacfy status")
		ui.Detailf(p.out, "or verify it in the App Runner console")
	default:
		ui.Detailf(p.out, "image pushed only, roll it out with: lmacfy deploy --deploy")
		ui.Detailf(p.out, "or update the service from the App Runner console")
	}
}
