package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidDocument(t *testing.T) {
	output, err := executeRoot(t, "validate", docPath("channels.yaml"))
	require.NoError(t, err)
	assert.Contains(t, output, "✓ Document valid")
}

func TestValidateValidDocumentJSON(t *testing.T) {
	output, err := executeRoot(t, "--format", "json", "validate", docPath("channels.yaml"))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestValidateDuplicates(t *testing.T) {
	output, err := executeRoot(t, "validate", docPath("duplicates.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ Validation failed")
	assert.Contains(t, output, `E005: duplicate identifier "us" in channels`)
}

func TestValidateDuplicatesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	err := runValidate(&RootOptions{Format: "json"}, docPath("duplicates.yaml"), newTestCmd(buf))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDuplicate, resp.Error.Code)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Duplicates, 1)
	assert.Equal(t, "us", resp.Data.Duplicates[0].Identifier)
}

func TestValidateCycleIsWarning(t *testing.T) {
	output, err := executeRoot(t, "validate", docPath("cycle.yaml"))
	require.NoError(t, err)
	assert.Contains(t, output, "⚠ Category parent cycle detected")
	assert.Contains(t, output, "✓ Document valid")
}

func TestValidateSchemaViolations(t *testing.T) {
	output, err := executeRoot(t, "validate", docPath("invalid.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ Document is invalid")
	assert.Contains(t, err.Error(), ErrCodeInvalid)
}

func TestValidateSchemaViolationsJSON(t *testing.T) {
	output, err := executeRoot(t, "--format", "json", "validate", docPath("invalid.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalid, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)
}

func TestValidateMalformedDocument(t *testing.T) {
	output, err := executeRoot(t, "validate", docPath("malformed.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Error [E003]")
}

func TestValidateNonExistentDocument(t *testing.T) {
	output, err := executeRoot(t, "validate", "/nonexistent/document.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, output, "not found")
}

func TestValidateDirectory(t *testing.T) {
	_, err := executeRoot(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a file")
}

func TestValidateMissingArgs(t *testing.T) {
	_, err := executeRoot(t, "validate")
	require.Error(t, err)
}
