package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Config
		wantErr error
	}{
		{
			name:    "引数なし",
			args:    nil,
			wantErr: ErrUsage,
		},
		{
			name:    "引数が1つだけ",
			args:    []string{"in.xml"},
			wantErr: ErrUsage,
		},
		{
			name: "パスを正規化する",
			args: []string{"./data/../data/in", "out//report.csv"},
			want: Config{
				InputPath:  filepath.Join("data", "in"),
				OutputPath: filepath.Join("out", "report.csv"),
			},
		},
		{
			name: "余分な引数は無視する",
			args: []string{"in", "out", "extra"},
			want: Config{InputPath: "in", OutputPath: "out"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
