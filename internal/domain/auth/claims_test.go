package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name        string
		claims      Claims
		expectedErr error
	}{
		{
			name:        "管理者クレームがtrue",
			claims:      Claims{Subject: "user-1", Admin: true},
			expectedErr: nil,
		},
		{
			name:        "管理者クレームがfalse",
			claims:      Claims{Subject: "user-2", Admin: false},
			expectedErr: ErrPermissionDenied,
		},
		{
			name:        "ゼロ値のクレームは拒否（フェイルクローズ）",
			claims:      Claims{},
			expectedErr: ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireAdmin(tt.claims)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
