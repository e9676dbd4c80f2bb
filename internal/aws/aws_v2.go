// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/smithy-go/logging"

	"github.com/tfctl/orgctl/internal/log"
)

// OrganizationsRegion is where the Organizations endpoint lives in the
// commercial partition. It is used when no region is configured.
const OrganizationsRegion = "us-east-1"

// RetryableErrorCodes are the Organizations error codes retried on top of the
// SDK's standard throttling and transient set.
var RetryableErrorCodes = []string{
	"ConcurrentModificationException",
	"PolicyChangesInProgressException",
}

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
	retryer func() awsv2.Retryer
	logger  logging.Logger
	logMode awsv2.ClientLogMode
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile, region, and retryer without changing callers.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: profile=%s, region=%s", o.profile, o.region)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}
	if o.logger != nil {
		loadOpts = append(loadOpts, config.WithLogger(o.logger), config.WithClientLogMode(o.logMode))
	}
	log.Debugf("loadOpts built: len=%d", len(loadOpts))

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	log.Debugf("config loaded: region=%s", cfg.Region)
	return cfg, nil
}

// NewOrganizations constructs an Organizations client from cfg. A config
// without a region is pointed at OrganizationsRegion. Additional service
// options can be supplied via optFns.
func NewOrganizations(cfg awsv2.Config, optFns ...func(*organizations.Options)) *organizations.Client {
	if cfg.Region == "" {
		optFns = append([]func(*organizations.Options){func(o *organizations.Options) {
			o.Region = OrganizationsRegion
		}}, optFns...)
	}
	client := organizations.NewFromConfig(cfg, optFns...)
	log.Debugf("organizations client created")
	return client
}

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// WithLogger sends SDK client logging for the modes in mode to logger.
func WithLogger(logger logging.Logger, mode awsv2.ClientLogMode) Option {
	return func(o *options) {
		o.logger = logger
		o.logMode = mode
	}
}

// OrganizationsRetryer returns a retryer constructor that also retries the
// Organizations conflict codes. maxAttempts <= 0 keeps the SDK default.
func OrganizationsRetryer(maxAttempts int) func() awsv2.Retryer {
	return func() awsv2.Retryer {
		r := retry.NewStandard(func(so *retry.StandardOptions) {
			if maxAttempts > 0 {
				so.MaxAttempts = maxAttempts
			}
		})
		return retry.AddWithErrorCodes(r, RetryableErrorCodes...)
	}
}

// WithBaseEndpoint points the Organizations client at url, for local
// emulators and VPC endpoints. An empty url leaves resolution alone.
func WithBaseEndpoint(url string) func(*organizations.Options) {
	return func(o *organizations.Options) {
		if url != "" {
			o.BaseEndpoint = awsv2.String(url)
		}
	}
}
