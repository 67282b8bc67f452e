package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danmuck/fdowire/internal/protocol"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestParseArgument(t *testing.T) {
	cases := []struct {
		raw  string
		want protocol.Argument
	}{
		{"42", protocol.Int(42)},
		{"0x1f", protocol.Int(31)},
		{"-1", protocol.Int(-1)},
		{"none", protocol.None()},
		{"hex:0a0b", protocol.Bytes([]byte{0x0a, 0x0b})},
		{"s:42", protocol.Text("42")},
		{"yes", protocol.Text("yes")},
		{"32-30", protocol.Text("32-30")},
	}
	for _, tc := range cases {
		got, err := parseArgument(tc.raw)
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.want, got, tc.raw)
	}

	call, err := parseArgument("@uni_start_stream")
	require.NoError(t, err)
	require.Equal(t, protocol.ArgInvocation, call.Kind)
	require.Equal(t, "uni_start_stream", call.Call.Name)

	_, err = parseArgument("hex:zz")
	require.Error(t, err)
}

func TestParseCallByID(t *testing.T) {
	call, err := parseCall("3:1", []string{"hi"})
	require.NoError(t, err)
	require.Equal(t, protocol.AtomID{Class: 3, Atom: 1}, call.ID)
	require.Empty(t, call.Name)
	require.Equal(t, []protocol.Argument{protocol.Text("hi")}, call.Args)

	_, err = parseCall("3:x", nil)
	require.Error(t, err)
}

func TestReadHex(t *testing.T) {
	data, err := readHex(nil, []string{"0x03", "01:02", "68 69"})
	require.NoError(t, err)
	require.Equal(t, []byte{3, 1, 2, 'h', 'i'}, data)

	data, err = readHex(strings.NewReader("03 01\n00\n"), nil)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 1, 0}, data)

	_, err = readHex(nil, []string{"0"})
	require.Error(t, err)
}

func TestEncodeCommand(t *testing.T) {
	out, _, err := run(t, "", "encode", "de_data", "hi")
	require.NoError(t, err)
	require.Equal(t, "0301026869\n", out)

	out, _, err = run(t, "", "encode", "3:1", "hi")
	require.NoError(t, err)
	require.Equal(t, "0301026869\n", out)

	out, _, err = run(t, "", "--tagged", "encode", "de_data", "x")
	require.NoError(t, err)
	require.Equal(t, "001003010178\n", out)
}

func TestEncodeCommandPolicy(t *testing.T) {
	out, _, err := run(t, "", "encode", "mat_orientation", "hzz")
	require.NoError(t, err)
	require.Equal(t, "100300\n", out)

	_, _, err = run(t, "", "--policy", "strict", "encode", "mat_orientation", "hzz")
	require.ErrorIs(t, err, protocol.ErrInvalidArgument)
}

func TestDecodeCommand(t *testing.T) {
	out, _, err := run(t, "", "decode", "0301026869", "c5")
	require.NoError(t, err)
	require.Contains(t, out, "de_data")
	require.Contains(t, out, "de_validate")
	require.Contains(t, out, "# 6 bytes, last class 3")

	out, _, err = run(t, "03 01 00", "decode")
	require.NoError(t, err)
	require.Contains(t, out, "de_data")

	out, _, err = run(t, "", "--tagged", "decode", "001003010178")
	require.NoError(t, err)
	require.Contains(t, out, "stream tag 16")

	_, _, err = run(t, "", "decode", "0301")
	require.ErrorIs(t, err, protocol.ErrMalformedHeader)
}

func TestDecodeCommandExtendedLastClass(t *testing.T) {
	out, _, err := run(t, "", "--last-class", "300", "decode", "61")
	require.NoError(t, err)
	require.Contains(t, out, "?300:1")
	require.Contains(t, out, "last class 300")
}

func TestDecodeCommandRendersGid(t *testing.T) {
	out, _, err := run(t, "", "decode", "100803", "20001e")
	require.NoError(t, err)
	require.Contains(t, out, "gid 32-30")
}

func TestGidCommand(t *testing.T) {
	out, _, err := run(t, "", "gid", "32-30", "2097182", "42")
	require.NoError(t, err)
	require.Equal(t, "32-30 => 2097182\n2097182 => 32-30 (two-part)\n42 => 42 (none)\n", out)

	_, _, err = run(t, "", "gid", "65537-1")
	require.Error(t, err)
}

func TestRegistryCommand(t *testing.T) {
	out, _, err := run(t, "", "registry")
	require.NoError(t, err)
	require.Contains(t, out, "mat_art_id")

	out, _, err = run(t, "", "registry", "--domain", "font")
	require.NoError(t, err)
	require.Contains(t, out, "courier")

	_, _, err = run(t, "", "registry", "--domain", "colors")
	require.Error(t, err)
}

func TestRegistryFileExtendsEncoder(t *testing.T) {
	dir := t.TempDir()
	atoms := filepath.Join(dir, "atoms.toml")
	require.NoError(t, os.WriteFile(atoms, []byte(`
[[atom]]
name = "mat_custom_flag"
class = 16
atom = 41
type = "bool"
`), 0o644))

	out, _, err := run(t, "", "--registry", atoms, "encode", "mat_custom_flag", "yes")
	require.NoError(t, err)
	require.Equal(t, "10290101\n", out)
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codec.toml")
	out, _, err := run(t, "", "config", "template", "codec", "--output", path)
	require.NoError(t, err)
	require.Contains(t, out, "wrote codec template")

	out, _, err = run(t, "", "config", "validate", path)
	require.NoError(t, err)
	require.Contains(t, out, "policy lenient")

	require.NoError(t, os.WriteFile(path, []byte("argument_policy = \"strict\"\n"), 0o644))
	_, _, err = run(t, "", "--config", path, "encode", "mat_orientation", "hzz")
	require.ErrorIs(t, err, protocol.ErrInvalidArgument)
}

func TestMetricsFlag(t *testing.T) {
	_, errOut, err := run(t, "", "--metrics", "encode", "de_data", "x")
	require.NoError(t, err)
	require.Contains(t, errOut, "fdowire_codec_atoms_encoded_total")
}
