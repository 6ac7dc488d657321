package matching_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/domain"
	"github.com/MrJamesThe3rd/stash/internal/matching"
)

func TestService_Learn(t *testing.T) {
	type args struct {
		pattern  string
		category budget.Category
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{pattern: "  uber ", category: budget.CategoryTransport},
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().
					CreateRule(gomock.Any(), "ama@x.com", matching.Rule{Pattern: "uber", Category: budget.CategoryTransport}).
					Return(nil)
			},
		},
		{
			name:    "EmptyPattern",
			args:    args{pattern: " ", category: budget.CategoryFood},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "UnknownCategory",
			args:    args{pattern: "uber", category: "Rides"},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := matching.NewService(repo).Learn(context.Background(), "ama@x.com", tt.args.pattern, tt.args.category)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_Suggest_BlankDescription(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	got, err := matching.NewService(matching.NewMockRepository(ctrl)).Suggest(context.Background(), "ama@x.com", "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
