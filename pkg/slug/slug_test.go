package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Install Docker on Ubuntu":  "install-docker-on-ubuntu",
		"  Hello   World  ":         "hello-world",
		"C++ & Go: a comparison!":   "c-go-a-comparison",
		"already-a-slug":            "already-a-slug",
		"--Leading and trailing--":  "leading-and-trailing",
		"Tabs\tand\nnewlines":       "tabs-and-newlines",
		"ÜMLAUTS and émojis 🚀 ok":   "mlauts-and-mojis-ok",
		"123 Numbers first":         "123-numbers-first",
		"!!!":                       "",
		"":                          "",
	}
	for in, want := range cases {
		require.Equal(t, want, Make(in), "Make(%q)", in)
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{
		"Install Docker on Ubuntu",
		"  Weird -- input ~~ here  ",
		"ALL CAPS TITLE",
		"",
	}
	for _, in := range inputs {
		once := Make(in)
		require.Equal(t, once, Make(once), "Make should be idempotent for %q", in)
		if once != "" {
			require.Regexp(t, slugShape, once)
		}
	}
}
