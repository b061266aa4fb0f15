package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_EmptySandbox(t *testing.T) {
	db := tempDB(t)

	output, err := executeRoot(t, "plan", "--db", db, docPath("channels.yaml"))
	require.NoError(t, err)
	assert.Contains(t, output, "Plan (dry run, nothing was written)")
	assert.Contains(t, output, "  create channels/us")
	assert.Contains(t, output, "  create channels/eu")

	// Nothing was written and no run was recorded.
	output, err = executeRoot(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, output, "No runs recorded.")

	output, err = executeRoot(t, "plan", "--db", db, docPath("channels.yaml"))
	require.NoError(t, err)
	assert.Contains(t, output, "  create channels/us")
}

func TestPlan_AfterDeploy(t *testing.T) {
	db := tempDB(t)
	_, err := executeRoot(t, "deploy", "--db", db, docPath("channels.yaml"))
	require.NoError(t, err)

	output, err := executeRoot(t, "plan", "--db", db, docPath("channels.yaml"))
	require.NoError(t, err)
	assert.Contains(t, output, "No changes. The remote matches the document.")
	assert.Contains(t, output, "  Unchanged: 2")
}

func TestPlan_JSON(t *testing.T) {
	output, err := executeRoot(t, "--format", "json", "plan", "--db", tempDB(t), docPath("channels.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Report struct {
				Summary struct {
					Created int `json:"created"`
				} `json:"summary"`
			} `json:"report"`
			Mutations []struct {
				Op         string `json:"op"`
				Kind       string `json:"kind"`
				Identifier string `json:"identifier"`
			} `json:"mutations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Report.Summary.Created)
	require.Len(t, resp.Data.Mutations, 2)
	assert.Equal(t, "create", resp.Data.Mutations[0].Op)
	assert.Equal(t, "channels", resp.Data.Mutations[0].Kind)
	assert.Equal(t, "us", resp.Data.Mutations[0].Identifier)
}

func TestPlan_WouldFail(t *testing.T) {
	output, err := executeRoot(t, "plan", "--db", tempDB(t), docPath("missing_reference.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "Would fail:")
	assert.Contains(t, output, "shippingZones/North America")
}

func TestPlan_DuplicatesRejected(t *testing.T) {
	_, err := executeRoot(t, "plan", "--db", tempDB(t), docPath("duplicates.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeDuplicate)
}
