package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/warden-judge/internal/core"
)

func TestParseKey(t *testing.T) {
	listed := []*core.PersistedContext{
		{ProjectID: 8462, ChangeID: 42},
		{ProjectID: 77, ChangeID: 3},
	}

	tests := []struct {
		name        string
		args        []string
		wantProject int64
		wantChange  int
		wantErr     bool
	}{
		{name: "index", args: []string{"2"}, wantProject: 77, wantChange: 3},
		{name: "project and change", args: []string{"8462", "42"}, wantProject: 8462, wantChange: 42},
		{name: "index out of range", args: []string{"3"}, wantErr: true},
		{name: "index zero", args: []string{"0"}, wantErr: true},
		{name: "bad project", args: []string{"abc", "1"}, wantErr: true},
		{name: "bad change", args: []string{"1", "x"}, wantErr: true},
		{name: "no args", args: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectID, changeID, err := parseKey(tt.args, listed)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProject, projectID)
			assert.Equal(t, tt.wantChange, changeID)
		})
	}
}
