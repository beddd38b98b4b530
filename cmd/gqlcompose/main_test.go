package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GQLCOMPOSE_LOG_LEVEL", "error")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSDL_Stdout(t *testing.T) {
	out, err := execute(t, "", "sdl", "--out", "-")
	require.NoError(t, err)
	require.Contains(t, out, "type Query {\n  hello(name: String = \"world\"): String!\n")
	require.True(t, strings.HasSuffix(out, "schema {\n  query: Query\n  mutation: Mutation\n}\n"), out)
}

func TestSDL_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.graphql")
	_, err := execute(t, "", "sdl", "--out", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "union FooBar = Foo | Bar")

	stdout, err := execute(t, "", "sdl", "--out", "-")
	require.NoError(t, err)
	require.Equal(t, stdout, string(b))
}

func TestSDL_DefaultPathFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configured.graphql")
	t.Setenv("GQLCOMPOSE_SDL_OUT", path)
	_, err := execute(t, "", "sdl")
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestQuery(t *testing.T) {
	out, err := execute(t, "", "query", `query Q($n: String) { hello(name: $n) foobar { ... on Bar { b } } }`,
		"--variables", `{"n":"Ada"}`, "--operation", "Q")
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"hello":"Hello, Ada!","foobar":{"b":"x"}}}`, out)
}

func TestQuery_HeadersAndStdin(t *testing.T) {
	out, err := execute(t, "{ me { id name } }", "query", "-", "--header", "X-User-Name=Ada Lovelace")
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"me":{"id":"user-ada-lovelace","name":"Ada Lovelace"}}}`, out)
}

func TestQuery_Errors(t *testing.T) {
	out, err := execute(t, "", "query", `{ scores }`)
	require.ErrorIs(t, err, errResponseErrors)
	require.JSONEq(t, `{"data":{"scores":[10,null,30]},"errors":[{"message":"strconv.Atoi: parsing \"x\": invalid syntax","locations":[{"line":1,"column":3}],"path":["scores",1]}]}`, out)

	_, err = execute(t, "", "query", `{ hello }`, "--variables", `{`)
	require.ErrorContains(t, err, "invalid --variables")

	_, err = execute(t, "", "query", `{ hello }`, "--header", "novalue")
	require.ErrorContains(t, err, `invalid --header "novalue"`)

	_, err = execute(t, "", "query")
	require.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("GQLCOMPOSE_OTEL_PROTOCOL", "udp")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"sdl", "--out", "-"})
	require.ErrorContains(t, cmd.Execute(), "OTEL_PROTOCOL")
}

func TestLogLevelFlag(t *testing.T) {
	_, err := execute(t, "", "--log-level", "shout", "sdl", "--out", "-")
	require.EqualError(t, err, `unknown log level "shout"`)
}
