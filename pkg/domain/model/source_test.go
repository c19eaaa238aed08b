package model_test

import (
	"testing"

	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestParseGitHubSource(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected model.GitHubSource
	}{
		{
			name:     "latest release",
			input:    "Steamopollys/Steamodded",
			expected: model.GitHubSource{Owner: "Steamopollys", Repo: "Steamodded"},
		},
		{
			name:     "with ref",
			input:    "SpectralPack/Talisman@v2.0.0",
			expected: model.GitHubSource{Owner: "SpectralPack", Repo: "Talisman", Ref: "v2.0.0"},
		},
		{
			name:     "git suffix dropped",
			input:    " owner/repo.git ",
			expected: model.GitHubSource{Owner: "owner", Repo: "repo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := model.ParseGitHubSource(tt.input)
			gt.NoError(t, err)
			gt.Equal(t, *src, tt.expected)
		})
	}
}

func TestParseGitHubSource_Invalid(t *testing.T) {
	for _, input := range []string{"", "owner", "/repo", "owner/", "a/b/c", "@main"} {
		t.Run(input, func(t *testing.T) {
			_, err := model.ParseGitHubSource(input)
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, types.ErrTagInvalidState))
		})
	}
}

func TestGitHubSource_String(t *testing.T) {
	gt.Equal(t, model.GitHubSource{Owner: "o", Repo: "r"}.String(), "o/r")
	gt.Equal(t, model.GitHubSource{Owner: "o", Repo: "r", Ref: "dev"}.String(), "o/r@dev")
}
