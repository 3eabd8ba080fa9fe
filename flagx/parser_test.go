package flagx

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createUserFlags struct {
	Name   string   `flag:"name,n" usage:"username" required:"true"`
	Age    int      `flag:"age" default:"18"`
	Admin  bool     `flag:"admin"`
	Score  float64  `flag:"score" default:"1.5"`
	Tags   []string `flag:"tags"`
	hidden string   `flag:"hidden"`
}

func TestBindAndParseFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "create-user", Run: func(*cobra.Command, []string) {}}

	var req createUserFlags
	require.NoError(t, BindFlags(cmd, &req))

	cmd.SetArgs([]string{
		"--name", "alice",
		"--age", "30",
		"--admin",
		"--tags", "a,b",
	})
	require.NoError(t, cmd.Execute())

	require.NoError(t, ParseFlags(cmd, &req))
	assert.Equal(t, "alice", req.Name)
	assert.Equal(t, 30, req.Age)
	assert.True(t, req.Admin)
	assert.Equal(t, 1.5, req.Score)
	assert.Equal(t, []string{"a", "b"}, req.Tags)
	assert.Empty(t, req.hidden)
}

func TestBindFlagsDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "x", Run: func(*cobra.Command, []string) {}}

	var req createUserFlags
	require.NoError(t, BindFlags(cmd, &req))

	cmd.SetArgs([]string{"--name", "bob"})
	require.NoError(t, cmd.Execute())

	require.NoError(t, ParseFlags(cmd, &req))
	assert.Equal(t, 18, req.Age)
	assert.False(t, req.Admin)
}

func TestBindFlagsRequired(t *testing.T) {
	cmd := &cobra.Command{Use: "x", Run: func(*cobra.Command, []string) {}}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var req createUserFlags
	require.NoError(t, BindFlags(cmd, &req))

	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}

func TestBindFlagsRejectsNonStruct(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var s string
	assert.Error(t, BindFlags(cmd, &s))
	assert.Error(t, ParseFlags(cmd, &s))
	assert.Error(t, BindFlags(cmd, createUserFlags{}))
}

type badFlags struct {
	Ch chan int `flag:"ch"`
}

func TestBindFlagsUnsupportedType(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var req badFlags
	assert.ErrorContains(t, BindFlags(cmd, &req), "unsupported field type")
}
