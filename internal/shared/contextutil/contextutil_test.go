package contextutil_test

import (
	"context"
	"testing"

	"go-payroll/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadataRoundTrip(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithUserID(ctx, "user-1")
	ctx = contextutil.WithCompanyID(ctx, "company-1")

	md := contextutil.ExtractMetadata(ctx)
	assert.Equal(t, "rid-1", md.RequestID)
	assert.Equal(t, "user-1", md.UserID)
	assert.Equal(t, "company-1", md.CompanyID)
	assert.Len(t, md.Fields(), 3)
}

func TestMetadataFieldsSkipsEmpty(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")

	fields := contextutil.ExtractMetadata(ctx).Fields()
	assert.Len(t, fields, 1)
	assert.Equal(t, "request_id", fields[0].Key)
	assert.Empty(t, contextutil.ExtractMetadata(context.Background()).Fields())
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewNop().Named("fallback")

	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))

	scoped := zap.NewNop().Named("scoped")
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, fallback))
}
