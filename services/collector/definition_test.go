package collector

import (
	"reflect"
	"testing"
)

func TestParseDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		raw     []map[string]any
		want    []ArtifactDefinition
		wantErr bool
	}{
		{
			name: "scalar path",
			raw:  []map[string]any{{"name": "logs", "path": "logs"}},
			want: []ArtifactDefinition{{Name: "logs", Patterns: []string{"logs"}}},
		},
		{
			name: "path list",
			raw:  []map[string]any{{"name": "r", "path": []any{"coverage", "reports/junit.xml"}}},
			want: []ArtifactDefinition{{Name: "r", Patterns: []string{"coverage", "reports/junit.xml"}}},
		},
		{
			name: "whitespace entries dropped silently",
			raw:  []map[string]any{{"name": " logs ", "path": []any{"  ", "logs", ""}}},
			want: []ArtifactDefinition{{Name: "logs", Patterns: []string{"logs"}}},
		},
		{
			name: "empty objects ignored",
			raw: []map[string]any{
				{},
				{"name": "logs", "path": "logs"},
				{},
			},
			want: []ArtifactDefinition{{Name: "logs", Patterns: []string{"logs"}}},
		},
		{
			name: "no records",
			raw:  nil,
			want: []ArtifactDefinition{},
		},
		{
			name:    "missing name",
			raw:     []map[string]any{{"path": "logs"}},
			wantErr: true,
		},
		{
			name:    "blank name",
			raw:     []map[string]any{{"name": "   ", "path": "logs"}},
			wantErr: true,
		},
		{
			name:    "missing path",
			raw:     []map[string]any{{"name": "logs"}},
			wantErr: true,
		},
		{
			name:    "path list of only whitespace",
			raw:     []map[string]any{{"name": "logs", "path": []any{" ", ""}}},
			wantErr: true,
		},
		{
			name:    "path wrong type",
			raw:     []map[string]any{{"name": "logs", "path": 42}},
			wantErr: true,
		},
		{
			name:    "path list with non-string entry",
			raw:     []map[string]any{{"name": "logs", "path": []any{"logs", 1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDefinitions(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDefinitions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseDefinitions() = %v, want %v", got, tt.want)
			}
		})
	}
}
