// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allowAll = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"*","Resource":"*"}]}`

func TestPolicyApply(t *testing.T) {
	t.Run("create with config tags", func(t *testing.T) {
		org := newFakeOrg()
		path := filepath.Join(t.TempDir(), "guard.json")
		require.NoError(t, os.WriteFile(path, []byte(allowAll), 0o600))

		out, _, err := runApp(t, org, "policy", "apply", "--name", "guard", "--content", "@"+path, "--tag", "team=core", "-o", "json")
		require.NoError(t, err)

		env := decodeEnvelope(t, out)
		assert.True(t, env.Changed)
		assert.Empty(t, env.Warnings)
		require.Len(t, env.Results, 1)
		assert.Equal(t, "guard", env.Results[0]["name"])
		assert.Equal(t, "SERVICE_CONTROL_POLICY", env.Results[0]["type"])

		id := env.Results[0]["id"].(string)
		assert.Equal(t, allowAll, aws.ToString(org.policies[id].Content))
		assert.Equal(t, map[string]string{"owner": "platform", "team": "core"}, org.tags[id])
	})

	t.Run("dry run shows diff", func(t *testing.T) {
		org := newFakeOrg()
		before := aws.ToString(org.policies["p-1"].Content)

		out, _, err := runApp(t, org, "policy", "apply", "--id", "p-1", "--content", allowAll, "--dry-run")
		require.NoError(t, err)

		assert.Contains(t, out, "changed: true")
		assert.Regexp(t, `(?m)^-.*"Effect".*"Deny"`, out)
		assert.Zero(t, org.count("UpdatePolicy"))
		assert.Zero(t, org.count("TagResource"))
		assert.Equal(t, before, aws.ToString(org.policies["p-1"].Content))
	})

	t.Run("diff hidden without flag", func(t *testing.T) {
		org := newFakeOrg()
		out, _, err := runApp(t, org, "policy", "apply", "--id", "p-1", "--content", allowAll, "-o", "json")
		require.NoError(t, err)

		env := decodeEnvelope(t, out)
		assert.True(t, env.Changed)
		assert.Empty(t, env.Diff)
		assert.Equal(t, 1, org.count("UpdatePolicy"))
	})

	t.Run("converges", func(t *testing.T) {
		org := newFakeOrg()
		args := []string{"policy", "apply", "--id", "p-1", "--tag", "env=prod"}

		out, _, err := runApp(t, org, args...)
		require.NoError(t, err)
		assert.Contains(t, out, "changed: true")
		assert.Equal(t, map[string]string{"env": "prod", "owner": "platform"}, org.tags["p-1"])

		out, _, err = runApp(t, org, args...)
		require.NoError(t, err)
		assert.Contains(t, out, "changed: false")
	})

	t.Run("clear tags", func(t *testing.T) {
		org := newFakeOrg()
		out, _, err := runApp(t, org, "policy", "apply", "--id", "p-1", "--clear-tags", "--purge-tags=false", "-o", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "changed: true")
		assert.Empty(t, org.tags["p-1"])
	})

	t.Run("clear tags with tag", func(t *testing.T) {
		_, _, err := runApp(t, newFakeOrg(), "policy", "apply", "--id", "p-1", "--clear-tags", "--tag", "a=b")
		assert.ErrorContains(t, err, "--clear-tags")
	})

	t.Run("bad tag", func(t *testing.T) {
		_, _, err := runApp(t, newFakeOrg(), "policy", "apply", "--id", "p-1", "--tag", "novalue")
		assert.ErrorContains(t, err, "key=value")
	})

	t.Run("id with type", func(t *testing.T) {
		org := newFakeOrg()
		_, _, err := runApp(t, org, "policy", "apply", "--id", "p-1", "--type", "tag")
		assert.ErrorContains(t, err, "invalid policy_type")
		assert.Empty(t, org.ops)
	})

	t.Run("ambiguous name", func(t *testing.T) {
		org := newFakeOrg()
		org.addPolicy("p-9", "deny-all", "SERVICE_CONTROL_POLICY", allowAll)
		_, _, err := runApp(t, org, "policy", "apply", "--name", "deny-all")
		assert.ErrorContains(t, err, "matches p-1, p-9")
	})
}

func TestPolicyDelete(t *testing.T) {
	t.Run("attached without force", func(t *testing.T) {
		org := newFakeOrg()
		_, _, err := runApp(t, org, "policy", "delete", "--id", "p-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "attached to ou-a")
		assert.Contains(t, err.Error(), "--force")
		assert.Zero(t, org.count("DeletePolicy"))
	})

	t.Run("force", func(t *testing.T) {
		org := newFakeOrg()
		out, _, err := runApp(t, org, "policy", "delete", "--id", "p-1", "--force", "-o", "json")
		require.NoError(t, err)

		env := decodeEnvelope(t, out)
		assert.True(t, env.Changed)
		assert.Empty(t, env.Results)
		assert.Equal(t, 1, org.count("DetachPolicy"))
		assert.NotContains(t, org.policies, "p-1")
	})

	t.Run("force dry run", func(t *testing.T) {
		org := newFakeOrg()
		out, _, err := runApp(t, org, "policy", "delete", "--name", "deny-all", "--force", "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "changed: true")
		assert.Zero(t, org.count("DetachPolicy"))
		assert.Contains(t, org.policies, "p-1")
	})

	t.Run("absent by name", func(t *testing.T) {
		org := newFakeOrg()
		out, _, err := runApp(t, org, "policy", "delete", "--name", "nope")
		require.NoError(t, err)
		assert.Contains(t, out, "changed: false")
	})

	t.Run("denied target listing", func(t *testing.T) {
		org := newFakeOrg()
		org.errs["ListTargetsForPolicy"] = fakeErr("AccessDeniedException")

		_, _, err := runApp(t, org, "policy", "delete", "--id", "p-2")
		assert.ErrorContains(t, err, "access denied")

		out, _, err := runApp(t, org, "policy", "delete", "--id", "p-2", "--tolerate-denied-targets", "-o", "json")
		require.NoError(t, err)
		env := decodeEnvelope(t, out)
		assert.True(t, env.Changed)
		assert.Len(t, env.Warnings, 1)
	})
}

func TestPolicyInfo(t *testing.T) {
	t.Run("by type", func(t *testing.T) {
		out, _, err := runApp(t, newFakeOrg(), "policy", "info", "--type", "tag", "-o", "json")
		require.NoError(t, err)
		rows := decodeRows(t, out)
		assert.Equal(t, []string{"p-2"}, ids(rows))
		assert.Equal(t, false, rows[0]["aws_managed"])
	})

	t.Run("default type", func(t *testing.T) {
		out, _, err := runApp(t, newFakeOrg(), "policy", "info", "-o", "json")
		require.NoError(t, err)
		assert.Equal(t, []string{"p-1"}, ids(decodeRows(t, out)))
	})

	t.Run("empty type", func(t *testing.T) {
		out, _, err := runApp(t, newFakeOrg(), "policy", "info", "--type", "backup", "-o", "json")
		require.NoError(t, err)
		assert.Empty(t, decodeRows(t, out))
	})

	t.Run("ids with targets", func(t *testing.T) {
		out, _, err := runApp(t, newFakeOrg(), "policy", "info", "--id", "p-2", "--id", "p-1", "--id", "p-404", "--targets", "-o", "json")
		require.NoError(t, err)
		rows := decodeRows(t, out)
		assert.Equal(t, []string{"p-2", "p-1"}, ids(rows))
		assert.Equal(t, "ou-a", rows[1]["targets"])
	})

	t.Run("extra attrs and filter", func(t *testing.T) {
		out, _, err := runApp(t, newFakeOrg(), "policy", "info", "--id", "p-1", "--id", "p-2",
			"--attrs", "tags.env:env", "--filter", "env=prod", "-o", "json")
		require.NoError(t, err)
		rows := decodeRows(t, out)
		assert.Equal(t, []string{"p-1"}, ids(rows))
		assert.Equal(t, "prod", rows[0]["env"])
	})

	t.Run("raw", func(t *testing.T) {
		out, _, err := runApp(t, newFakeOrg(), "policy", "info", "--id", "p-1", "-o", "raw")
		require.NoError(t, err)
		rows := decodeRows(t, out)
		require.Len(t, rows, 1)
		assert.Contains(t, rows[0], "content")
		assert.Contains(t, rows[0], "policy_summary")
	})

	t.Run("denied tags warn", func(t *testing.T) {
		org := newFakeOrg()
		org.errs["ListTagsForResource"] = fakeErr("AccessDeniedException")
		_, stderr, err := runApp(t, org, "policy", "info", "--id", "p-1")
		require.NoError(t, err)
		assert.Contains(t, stderr, "warning: access denied fetching tags for p-1")
	})

	t.Run("id with type", func(t *testing.T) {
		_, _, err := runApp(t, newFakeOrg(), "policy", "info", "--id", "p-1", "--type", "tag")
		assert.ErrorContains(t, err, "mutually exclusive")
	})

	t.Run("schema", func(t *testing.T) {
		org := newFakeOrg()
		out, _, err := runApp(t, org, "policy", "info", "--schema")
		require.NoError(t, err)
		assert.Contains(t, out, "policy_summary.name")
		assert.Contains(t, out, "targets[*].target_id")
		assert.Empty(t, org.ops)
	})

	t.Run("bad output", func(t *testing.T) {
		_, _, err := runApp(t, newFakeOrg(), "policy", "info", "-o", "xml")
		assert.Error(t, err)
	})
}
