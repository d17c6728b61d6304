package sshserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUploadPackArgsExtractsOrganisation(t *testing.T) {
	org, err := parseUploadPackArgs([]string{"git-upload-pack", "myorg"})
	require.NoError(t, err)
	assert.Equal(t, "myorg", org)
}

func TestParseUploadPackArgsTrimsSlashes(t *testing.T) {
	org, err := parseUploadPackArgs([]string{"git-upload-pack", "/myorg/"})
	require.NoError(t, err)
	assert.Equal(t, "myorg", org)
}

func TestParseUploadPackArgsRejectsEmptyArgv(t *testing.T) {
	_, err := parseUploadPackArgs(nil)
	assert.ErrorIs(t, err, errShellNotSupported)
}

func TestParseUploadPackArgsRejectsOtherCommands(t *testing.T) {
	_, err := parseUploadPackArgs([]string{"git-receive-pack", "myorg"})
	assert.Error(t, err)
}

func TestParseUploadPackArgsRejectsMissingOrganisation(t *testing.T) {
	_, err := parseUploadPackArgs([]string{"git-upload-pack"})
	assert.ErrorIs(t, err, errMissingOrganisation)
}

func TestParseUploadPackArgsRejectsBareSlashOrganisation(t *testing.T) {
	_, err := parseUploadPackArgs([]string{"git-upload-pack", "/"})
	assert.ErrorIs(t, err, errMissingOrganisation)
}
