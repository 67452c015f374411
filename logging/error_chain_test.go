package logging

import (
	"bytes"
	stderrs "errors"
	"fmt"
	"testing"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrorChain(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		chain, ops, root, rootOp := buildErrorChain(nil)
		assert.Empty(t, chain)
		assert.Empty(t, ops)
		assert.Empty(t, root)
		assert.Empty(t, rootOp)
	})

	t.Run("plain error", func(t *testing.T) {
		chain, ops, root, _ := buildErrorChain(stderrs.New("boom"))
		require.Len(t, chain, 1)
		assert.Equal(t, "boom", chain[0])
		assert.Equal(t, "boom", root)
		assert.Equal(t, []string{""}, ops)
	})

	t.Run("wrapped stdlib chain", func(t *testing.T) {
		inner := stderrs.New("disk full")
		outer := fmt.Errorf("flush failed: %w", inner)

		chain, _, root, _ := buildErrorChain(outer)
		require.Len(t, chain, 2)
		assert.Equal(t, "flush failed: disk full", chain[0])
		assert.Equal(t, "disk full", root)
	})

	t.Run("detailed error chain carries ops", func(t *testing.T) {
		const innerOp smerrors.Op = "logging.inner"
		const outerOp smerrors.Op = "logging.outer"

		inner := smerrors.New(innerOp).Msg("sink gone")
		outer := smerrors.New(outerOp).Err(inner).Msg("apply failed")

		chain, ops, _, rootOp := buildErrorChain(outer)
		require.GreaterOrEqual(t, len(chain), 2)
		assert.Equal(t, string(outerOp), ops[0])
		assert.Equal(t, string(innerOp), rootOp)
	})
}

func TestLogEvent_ErrorEnrichment(t *testing.T) {
	t.Run("Err adds chain fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		inner := stderrs.New("root cause")
		outer := fmt.Errorf("outer: %w", inner)

		newLogEvent(logger.Error()).Err(outer).Msg("failed")

		out := buf.String()
		assert.Contains(t, out, `"error_chain"`)
		assert.Contains(t, out, `"error_root":"root cause"`)
		assert.Contains(t, out, `"error_history":"outer: root cause -> root cause"`)
	})

	t.Run("AnErr uses the given key prefix", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		newLogEvent(logger.Warn()).AnErr("shutdown_reason", stderrs.New("bad state")).Msg("stopping")

		out := buf.String()
		assert.Contains(t, out, `"shutdown_reason_root":"bad state"`)
		assert.Contains(t, out, `"shutdown_reason_chain"`)
	})

	t.Run("nil error adds nothing", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		newLogEvent(logger.Info()).Err(nil).Msg("ok")

		assert.NotContains(t, buf.String(), "error_chain")
	})
}
