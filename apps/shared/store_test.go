package shared

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/profile"
)

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name   string
		conf   core.DatabaseConfig
		wantDB bool
	}{
		{name: "memory", conf: core.DatabaseConfig{Engine: core.EngineMemory}},
		{name: "sqlite", conf: core.DatabaseConfig{Engine: core.EngineSQLite, Name: filepath.Join(t.TempDir(), "gradebook.db")}, wantDB: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, err := OpenStore(ctx, tt.conf)
			require.NoError(t, err)
			defer func() { assert.NoError(t, store.Close()) }()
			assert.Equal(t, tt.wantDB, store.DB != nil)

			conf := &core.Config{Env: "TEST", TestMode: true, Grading: core.GradingConfig{RetakeGrade: "B", CreditsRequired: 120}}
			svc, translator := NewProfileService(store, NewLogger("TEST : ", conf), conf)
			require.NotNil(t, translator)

			p, created, err := svc.LoadDemo(ctx)
			require.NoError(t, err)
			assert.True(t, created)
			assert.Equal(t, profile.DemoName, p.Name)
			assert.Len(t, p.Semesters, 2)
		})
	}

	t.Run("unsupported engine", func(t *testing.T) {
		_, err := OpenStore(context.Background(), core.DatabaseConfig{Engine: "mysql"})
		assert.Error(t, err)
	})
}
