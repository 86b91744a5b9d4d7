package mutation

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/prometheus"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func recordingPipeline(trace *[]string, fail string) Pipeline[string] {
	step := func(name string) error {
		*trace = append(*trace, name)
		if name == fail {
			return apperr.Validation(name + " failed")
		}
		return nil
	}
	return Pipeline[string]{
		Require:  auth.Role(models.RoleAuthor),
		Validate: func() error { return step("validate") },
		Check:    func(ctx context.Context, id *auth.Identity) error { return step("check") },
		Write: func(ctx context.Context, id *auth.Identity) (string, error) {
			return "written", step("write")
		},
	}
}

func TestRunStagesInOrder(t *testing.T) {
	author := &auth.Identity{SubjectID: "u1", Role: models.RoleAuthor, Active: true}

	var trace []string
	got, err := Run(context.Background(), author, recordingPipeline(&trace, ""))
	require.NoError(t, err)
	require.Equal(t, "written", got)
	require.Equal(t, []string{"validate", "check", "write"}, trace)
}

func TestRunAbortsAtFirstFailingStage(t *testing.T) {
	author := &auth.Identity{SubjectID: "u1", Role: models.RoleAuthor, Active: true}

	tests := []struct {
		fail string
		want []string
	}{
		{"validate", []string{"validate"}},
		{"check", []string{"validate", "check"}},
	}
	for _, tt := range tests {
		t.Run(tt.fail, func(t *testing.T) {
			var trace []string
			_, err := Run(context.Background(), author, recordingPipeline(&trace, tt.fail))
			require.True(t, apperr.Is(err, apperr.KindValidation))
			require.Equal(t, tt.want, trace)
		})
	}
}

func TestRunRejectsBeforeAnyStage(t *testing.T) {
	tests := []struct {
		name string
		id   *auth.Identity
		kind apperr.Kind
	}{
		{"anonymous", nil, apperr.KindUnauthenticated},
		{"inactive", &auth.Identity{SubjectID: "u1", Role: models.RoleAuthor}, apperr.KindUnauthenticated},
		{"reader", &auth.Identity{SubjectID: "u1", Role: models.RoleReader, Active: true}, apperr.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trace []string
			_, err := Run(context.Background(), tt.id, recordingPipeline(&trace, ""))
			require.True(t, apperr.Is(err, tt.kind))
			require.Empty(t, trace)
		})
	}
}

func TestRunPublicSkipsAuthorization(t *testing.T) {
	var trace []string
	p := recordingPipeline(&trace, "")
	p.Public = true

	_, err := Run(context.Background(), nil, p)
	require.NoError(t, err)
	require.Equal(t, []string{"validate", "check", "write"}, trace)
}

func TestProblems(t *testing.T) {
	var p Problems
	require.NoError(t, p.Err())

	p.Add(false, "fine")
	p.Add(true, "Title is required")
	p.Add(true, "Rating must be between 1 and 5")

	err := p.Err()
	require.True(t, apperr.Is(err, apperr.KindValidation))
	require.Equal(t, "Title is required, Rating must be between 1 and 5", err.Error())
}

func TestCounterIsBestEffort(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(quietLogger())
	c := NewCounter(st, quietLogger())

	novel := &models.Novel{ID: "n1", TotalFavorites: 1}
	require.NoError(t, st.Insert(ctx, store.Novels, novel.ID, novel))

	c.Adjust(ctx, store.Novels, "n1", "totalFavorites", 2)
	got, err := store.Load[models.Novel](ctx, st, store.Novels, "n1")
	require.NoError(t, err)
	require.Equal(t, 3, got.TotalFavorites)

	before := testutil.ToFloat64(prometheus.CounterAdjustmentFailures.WithLabelValues(store.Novels, "totalFavorites"))
	c.Adjust(ctx, store.Novels, "missing", "totalFavorites", 1)
	require.Equal(t, before+1, testutil.ToFloat64(prometheus.CounterAdjustmentFailures.WithLabelValues(store.Novels, "totalFavorites")))

	c.Do(ctx, store.Novels, "n1", "lastUpdated", func(ctx context.Context) error {
		return errors.New("boom")
	})
}
