package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/modcss/internal/adapters/telemetry"
)

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	newCtx, span := tracer.Start(ctx, "compile")
	assert.Equal(t, ctx, newCtx)

	span.SetAttribute("modcss.file", "a.css")
	span.RecordError(errors.New("boom"))
	span.End()
}
