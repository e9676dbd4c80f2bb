// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/orgctl/internal/attrs"
	awsutil "github.com/tfctl/orgctl/internal/aws"
	"github.com/tfctl/orgctl/internal/log"
	"github.com/tfctl/orgctl/internal/meta"
	"github.com/tfctl/orgctl/internal/orgs"
	"github.com/tfctl/orgctl/internal/output"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, fmt.Errorf("--attrs: %w", err)
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// DumpSchemaIfRequested writes the attribute paths of the provided type when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(t, writer(cmd))
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// writer returns where command results go.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// awsSettings collects the connection flags of cmd.
func awsSettings(cmd *cli.Command) meta.AWSSettings {
	return meta.AWSSettings{
		Profile:     cmd.String("profile"),
		Region:      cmd.String("region"),
		EndpointURL: cmd.String("endpoint-url"),
		MaxAttempts: int(cmd.Int("max-attempts")),
	}
}

// newClient builds the Organizations client for cmd through the factory in
// its meta.
func newClient(ctx context.Context, cmd *cli.Command) (orgs.API, error) {
	m := GetMeta(cmd)
	factory := m.NewClient
	if factory == nil {
		factory = NewOrganizationsClient
	}
	settings := awsSettings(cmd)
	log.Debugf("client settings: profile=%s region=%s endpoint=%s", settings.Profile, settings.Region, settings.EndpointURL)
	return factory(ctx, settings)
}

// NewOrganizationsClient is the default meta.ClientFactory. It loads the SDK
// config and returns a client that retries the Organizations conflict codes.
func NewOrganizationsClient(ctx context.Context, s meta.AWSSettings) (orgs.API, error) {
	cfg, err := awsutil.LoadAWSConfig(ctx,
		awsutil.WithProfile(s.Profile),
		awsutil.WithRegion(s.Region),
		awsutil.WithRetryer(awsutil.OrganizationsRetryer(s.MaxAttempts)),
		awsutil.WithLogger(log.SDKLogger{}, log.SDKLogMode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsutil.NewOrganizations(cfg, awsutil.WithBaseEndpoint(s.EndpointURL)), nil
}

// normalizedJSON normalizes v and marshals the result for the output layer.
func normalizedJSON(v any) ([]byte, error) {
	doc, err := orgs.Normalize(v)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = []any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal results: %w", err)
	}
	return raw, nil
}

// EmitEntities normalizes results and passes them to the common output
// routine.
func EmitEntities(cmd *cli.Command, results any, al attrs.AttrList) error {
	raw, err := normalizedJSON(results)
	if err != nil {
		return err
	}
	return output.SliceDiceSpit(raw, al, output.OptionsFromCommand(cmd), writer(cmd), nil)
}

// EmitResult reports the outcome of a reconciliation. The content diff is
// shown for dry runs and when --diff is set.
func EmitResult(cmd *cli.Command, res orgs.Result, al attrs.AttrList) error {
	raw, err := normalizedJSON(res.Policies)
	if err != nil {
		return err
	}
	status := output.Status{Changed: res.Changed, Warnings: res.Warnings}
	if cmd.Bool("dry-run") || cmd.Bool("diff") {
		status.Diff = res.ContentDiff
	}
	return output.SpitResult(raw, al, output.OptionsFromCommand(cmd), writer(cmd), status)
}

// readContent resolves --content. A leading @ names a file to read; - reads
// stdin.
func readContent(cmd *cli.Command) (string, error) {
	content := cmd.String("content")
	if !strings.HasPrefix(content, "@") {
		return content, nil
	}

	path := strings.TrimPrefix(content, "@")
	var (
		b   []byte
		err error
	)
	if path == "-" {
		var r io.Reader = os.Stdin
		if root := cmd.Root(); root != nil && root.Reader != nil {
			r = root.Reader
		}
		b, err = io.ReadAll(r)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read content from %s: %w", path, err)
	}
	return string(b), nil
}

// parseTags turns repeated key=value flags into a map. Later keys win.
func parseTags(pairs []string) map[string]string {
	tags := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, _ := strings.Cut(pair, "=")
		tags[strings.TrimSpace(k)] = v
	}
	return tags
}
