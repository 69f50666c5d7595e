package providers

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
	"github.com/stacklok/toolhive-catalog-provider/internal/config"
	"github.com/stacklok/toolhive-catalog-provider/internal/scheduler"
	schedmocks "github.com/stacklok/toolhive-catalog-provider/internal/scheduler/mocks"
	"github.com/stacklok/toolhive-catalog-provider/internal/sources/mocks"
)

func TestEncodeURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://myaccount.blob.core.windows.net/container-1/key1.yaml", "https://myaccount.blob.core.windows.net/container-1/key1.yaml"},
		{"https://h/c/sub/dir/my file.yaml", "https://h/c/sub/dir/my%20file.yaml"},
		{"https://h/c/a?b=c&d#e", "https://h/c/a?b=c&d#e"},
		{"https://h/c/100%.yaml", "https://h/c/100%25.yaml"},
		{"https://h/c/ünï.yaml", "https://h/c/%C3%BCn%C3%AF.yaml"},
		{"https://h/c/[x]{y}|z\\^`\"<>", "https://h/c/%5Bx%5D%7By%7D%7Cz%5C%5E%60%22%3C%3E"},
		{"-_.!~*'()", "-_.!~*'()"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EncodeURI(tt.in))
		})
	}
}

func TestNaming(t *testing.T) {
	t.Parallel()

	name := ProviderName("azureBlobStorage", "staticContainer")
	assert.Equal(t, "azureBlobStorage-provider:staticContainer", name)
	assert.Equal(t, "azureBlobStorage-provider:staticContainer:refresh", TaskID(name))
}

func TestLocationEntities(t *testing.T) {
	t.Parallel()

	base := "https://myaccount.blob.core.windows.net/container-1/"
	entities := LocationEntities(base, []string{"key1.yaml", "sub/dir/my file.yaml"}, "loc")

	require.Len(t, entities, 2)
	assert.Equal(t, base+"key1.yaml", entities[0].Entity.Spec.Target)
	assert.Equal(t, "generated-e01179791bf64315a47a010ba8cddb9d786cc92b", entities[0].Entity.Metadata.Name)
	assert.Equal(t, base+"sub/dir/my%20file.yaml", entities[1].Entity.Spec.Target)
	assert.Equal(t, "generated-fbbb9d0d762ce6d89649e31a4438ed4fa46f2c3f", entities[1].Entity.Metadata.Name)
	for _, e := range entities {
		assert.Equal(t, "loc", e.LocationKey)
		assert.Equal(t, "url:"+e.Entity.Spec.Target, e.Entity.Metadata.Annotations[catalog.AnnotationManagedByLocation])
	}

	assert.Empty(t, LocationEntities(base, nil, "loc"))
}

func seq(keys []string, err error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, k := range keys {
			if !yield(k, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	}
}

func TestListLocationEntities(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lister := mocks.NewMockObjectLister(ctrl)

	lister.EXPECT().ListObjects(gomock.Any(), "sub/").Return(seq([]string{"sub/a.yaml"}, nil))
	entities, err := ListLocationEntities(context.Background(), lister, "sub/", "https://h/c/", "loc")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "https://h/c/sub/a.yaml", entities[0].Entity.Spec.Target)

	lister.EXPECT().ListObjects(gomock.Any(), "").Return(seq([]string{"a"}, errors.New("throttled")))
	_, err = ListLocationEntities(context.Background(), lister, "", "https://h/c/", "loc")
	require.ErrorContains(t, err, "throttled")
}

func TestResolveScheduleConfig(t *testing.T) {
	t.Parallel()

	hourly := &config.ScheduleConfig{
		Frequency: &config.FrequencyConfig{Interval: time.Hour},
		Timeout:   config.NewDuration(time.Minute),
	}
	inline := &config.ScheduleConfig{
		Frequency: &config.FrequencyConfig{Interval: 30 * time.Minute},
		Timeout:   config.NewDuration(3 * time.Minute),
	}
	cfg := &config.Config{Schedules: map[string]*config.ScheduleConfig{"hourly": hourly}}

	got, err := ResolveScheduleConfig(cfg, inline, "hourly")
	require.NoError(t, err)
	assert.Same(t, inline, got)

	got, err = ResolveScheduleConfig(cfg, nil, "hourly")
	require.NoError(t, err)
	assert.Same(t, hourly, got)

	got, err = ResolveScheduleConfig(cfg, nil, "")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ResolveScheduleConfig(cfg, nil, "daily")
	require.ErrorContains(t, err, `scheduleKey "daily"`)
}

func TestResolveTaskRunner(t *testing.T) {
	t.Parallel()

	schedule := &config.ScheduleConfig{
		Frequency: &config.FrequencyConfig{Interval: 30 * time.Minute},
		Timeout:   config.NewDuration(3 * time.Minute),
	}

	t.Run("neither schedule nor scheduler", func(t *testing.T) {
		t.Parallel()

		_, err := ResolveTaskRunner(ScheduleOptions{}, "AzureBlobStorageEntityProvider", "test", schedule)
		require.ErrorIs(t, err, ErrMissingScheduleOrScheduler)
		assert.EqualError(t, err, "Either schedule or scheduler must be provided")
	})

	t.Run("caller runner wins over config", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		runner := schedmocks.NewMockTaskRunner(ctrl)
		sched := schedmocks.NewMockScheduler(ctrl)

		got, err := ResolveTaskRunner(ScheduleOptions{Schedule: runner, Scheduler: sched}, "T", "id", schedule)
		require.NoError(t, err)
		assert.Same(t, runner, got)
	})

	t.Run("scheduler builds runner from config", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		runner := schedmocks.NewMockTaskRunner(ctrl)
		sched := schedmocks.NewMockScheduler(ctrl)
		sched.EXPECT().CreateScheduledTaskRunner(scheduler.ScheduleDefinition{
			Frequency: scheduler.Frequency{Interval: 30 * time.Minute},
			Timeout:   3 * time.Minute,
			Scope:     scheduler.ScopeGlobal,
		}).Return(runner)

		got, err := ResolveTaskRunner(ScheduleOptions{Scheduler: sched}, "T", "id", schedule)
		require.NoError(t, err)
		assert.Same(t, runner, got)
	})

	t.Run("scheduler without schedule", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		sched := schedmocks.NewMockScheduler(ctrl)

		_, err := ResolveTaskRunner(ScheduleOptions{Scheduler: sched}, "AzureBlobStorageEntityProvider", "test", nil)
		var unresolved *UnresolvedScheduleError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "test", unresolved.ID)
		assert.EqualError(t, err, "No schedule provided neither via code nor config for AzureBlobStorageEntityProvider:test.")
	})
}
