package gitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePullRequestURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantID    int
		wantErr   bool
	}{
		{
			name:      "Valid HTTPS URL",
			url:       "https://github.com/sfdnas-adm/warden-judge/pull/123",
			wantOwner: "sfdnas-adm",
			wantRepo:  "warden-judge",
			wantID:    123,
			wantErr:   false,
		},
		{
			name:      "Valid URL without scheme",
			url:       "github.com/sfdnas-adm/warden-judge/pull/456",
			wantOwner: "sfdnas-adm",
			wantRepo:  "warden-judge",
			wantID:    456,
			wantErr:   false,
		},
		{
			name:      "URL with trailing slash",
			url:       "https://github.com/sfdnas-adm/warden-judge/pull/789/",
			wantOwner: "sfdnas-adm",
			wantRepo:  "warden-judge",
			wantID:    789,
			wantErr:   false,
		},
		{
			name:    "Invalid PR ID",
			url:     "https://github.com/sfdnas-adm/warden-judge/pull/abc",
			wantErr: true,
		},
		{
			name:    "Invalid format (missing pull)",
			url:     "https://github.com/sfdnas-adm/warden-judge/issues/123",
			wantErr: true,
		},
		{
			name:    "Invalid format (too many segments)",
			url:     "https://github.com/sfdnas-adm/warden-judge/pull/123/files",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, id, err := ParsePullRequestURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantOwner, owner)
				assert.Equal(t, tt.wantRepo, repo)
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestParseMergeRequestURL(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantHost    string
		wantProject string
		wantIID     int
		wantErr     bool
	}{
		{
			name:        "Valid HTTPS URL",
			url:         "https://gitlab.com/acme/backend/-/merge_requests/42",
			wantHost:    "gitlab.com",
			wantProject: "acme/backend",
			wantIID:     42,
		},
		{
			name:        "Nested group with trailing slash",
			url:         "https://gitlab.example.org/acme/platform/api/-/merge_requests/7/",
			wantHost:    "gitlab.example.org",
			wantProject: "acme/platform/api",
			wantIID:     7,
		},
		{
			name:    "Issue URL",
			url:     "https://gitlab.com/acme/backend/-/issues/42",
			wantErr: true,
		},
		{
			name:    "Diffs tab",
			url:     "https://gitlab.com/acme/backend/-/merge_requests/42/diffs",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, project, iid, err := ParseMergeRequestURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantProject, project)
			assert.Equal(t, tt.wantIID, iid)
		})
	}
}

func TestIsMergeRequestURL(t *testing.T) {
	assert.True(t, IsMergeRequestURL("https://gitlab.com/acme/backend/-/merge_requests/42"))
	assert.False(t, IsMergeRequestURL("https://github.com/sfdnas-adm/warden-judge/pull/123"))
}
