package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/internal/repository"
	"github.com/pow3r/cashout/pkg/cashout"
)

func TestSmokeCommand_Passes(t *testing.T) {
	db, err := repository.OpenSqlLite(config.SQLLITE_IN_MEMORY)
	require.NoError(t, err)
	defer db.Close()
	srv := httptest.NewServer(cashout.NewHandler(db, nil))
	defer srv.Close()

	var out bytes.Buffer
	root := newRootCommand(&out)
	root.SetArgs([]string{"smoke", "--target", srv.URL})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "checks passed")
}

func TestSmokeCommand_FailureExitCode(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var out bytes.Buffer
	root := newRootCommand(&out)
	root.SetArgs([]string{"smoke", "--target", srv.URL})

	err := root.Execute()
	require.Error(t, err)
	code, ok := isExitError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "checks failed")
}

func TestSmokeCommand_BadTarget(t *testing.T) {
	root := newRootCommand(&bytes.Buffer{})
	root.SetArgs([]string{"smoke", "--target", "staging"})

	err := root.Execute()
	require.Error(t, err)
	_, ok := isExitError(err)
	assert.False(t, ok)
}
