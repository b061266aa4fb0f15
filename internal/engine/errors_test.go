package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/configurator/internal/document"
	"github.com/roach88/configurator/internal/remote"
)

func TestReferenceNotFoundError(t *testing.T) {
	err := fmt.Errorf("resolve parent: %w", &ReferenceNotFoundError{Section: document.SectionCategories, Identifier: "root"})

	assert.True(t, IsReferenceNotFound(err))
	assert.False(t, IsRemoteOperation(err))
	assert.Equal(t, ErrCodeReferenceNotFound, CodeOf(err))
	assert.Equal(t, `resolve parent: reference "root" not found in section "categories"`, err.Error())
}

func TestRemoteOperationError(t *testing.T) {
	cause := &remote.Error{Message: "slug taken", Code: remote.CodeUnique, Field: "slug"}
	err := &RemoteOperationError{Section: document.SectionChannels, Identifier: "us", Op: "create", Err: cause}

	assert.Equal(t, `create channels "us": slug taken (code=UNIQUE, field=slug)`, err.Error())
	assert.Equal(t, remote.CodeUnique, err.RemoteCode())
	assert.Equal(t, "slug", err.RemoteField())
	assert.True(t, errors.Is(err, cause))

	plain := &RemoteOperationError{Section: document.SectionChannels, Op: "list", Err: errors.New("eof")}
	assert.Equal(t, "list channels: eof", plain.Error())
	assert.Empty(t, plain.RemoteCode())
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{
		Section:    document.SectionAttributes,
		Identifier: "Color",
		Field:      "inputType",
		Err:        document.ErrMissingInputType,
	}

	assert.Equal(t, `attributes "Color": inputType: inputType is required`, err.Error())
	assert.True(t, IsConfiguration(err))
	assert.ErrorIs(t, err, document.ErrMissingInputType)

	noField := &ConfigurationError{Section: document.SectionMenus, Identifier: "main", Err: errors.New("bad")}
	assert.Equal(t, `menus "main": bad`, noField.Error())
}

func TestCodeOf_Unknown(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
