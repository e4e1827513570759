package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/audit"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
	"github.com/xSp1der42/disk-site-sub000/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type notifierRecorder struct {
	entries []*audit.Entry
}

func (n *notifierRecorder) PublishLog(_ context.Context, e *audit.Entry) {
	n.entries = append(n.entries, e)
}

func TestRecord_AppendsAndNotifies(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	notifier := &notifierRecorder{}

	var appended *audit.Entry
	repo.On("Append", ctx, mock.Anything).Run(func(args mock.Arguments) {
		appended = args.Get(1).(*audit.Entry)
	}).Return(nil)

	svc := audit.NewService(repo, notifier, 0, nil)
	svc.Record(ctx, auth.Actor{Name: "ivan", Role: auth.RoleAdmin}, "create-site", `created site "A"`)

	require.NotNil(t, appended)
	require.Equal(t, "ivan", appended.Actor)
	require.Equal(t, auth.RoleAdmin, appended.Role)
	require.Equal(t, "create-site", appended.Category)
	require.NotEmpty(t, appended.ID)
	require.Len(t, notifier.entries, 1)
	require.Same(t, appended, notifier.entries[0])
}

func TestRecord_AppendFailureStaysServerSide(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	notifier := &notifierRecorder{}
	repo.On("Append", ctx, mock.Anything).Return(context.DeadlineExceeded)

	svc := audit.NewService(repo, notifier, 0, nil)
	// Must not panic or notify; the mutation that produced the record is
	// already persisted.
	svc.Record(ctx, auth.Actor{Name: "ivan", Role: auth.RoleAdmin}, "create-site", "x")

	require.Empty(t, notifier.entries)
}

func TestQuery_PageMath(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	repo.On("Query", ctx, 0, audit.PageSize, "paint").Return([]*audit.Entry{{ID: "1"}}, 73, nil)
	repo.On("Query", ctx, audit.PageSize, audit.PageSize, "").Return([]*audit.Entry{}, 73, nil)

	svc := audit.NewService(repo, nil, 0, nil)

	entries, total, err := svc.Query(ctx, 1, "paint")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 73, total)

	// Page numbers below 1 clamp to the first page.
	_, _, err = svc.Query(ctx, 0, "paint")
	require.NoError(t, err)

	_, _, err = svc.Query(ctx, 2, "")
	require.NoError(t, err)
	repo.AssertCalled(t, "Query", ctx, audit.PageSize, audit.PageSize, "")
}

func TestPurge_UsesRetentionCutoff(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}

	var cutoff time.Time
	repo.On("DeleteOlderThan", ctx, mock.Anything).Run(func(args mock.Arguments) {
		cutoff = args.Get(1).(time.Time)
	}).Return(int64(4), nil)

	svc := audit.NewService(repo, nil, 0, nil)
	require.NoError(t, svc.Purge(ctx))

	expected := time.Now().Add(-audit.DefaultRetention)
	require.WithinDuration(t, expected, cutoff, time.Minute)
}
