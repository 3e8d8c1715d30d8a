package rates

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_ReloadSwapsSnapshot(t *testing.T) {
	conn := newTestDB(t)
	path := writeRateCard(t, testRateCard)

	holder, err := NewHolder(path, conn, nil)
	require.NoError(t, err)
	assert.Equal(t, "test-1", holder.Table().Version)

	updated := strings.Replace(testRateCard, `version: "test-1"`, `version: "test-2"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.NoError(t, holder.Reload())
	assert.Equal(t, "test-2", holder.Table().Version)
}

func TestHolder_FailedReloadKeepsPrevious(t *testing.T) {
	conn := newTestDB(t)
	path := writeRateCard(t, testRateCard)

	holder, err := NewHolder(path, conn, nil)
	require.NoError(t, err)
	before := holder.Table()

	broken := strings.Replace(testRateCard, "area_rate: 0.08", "area_rate: 0", 1)
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	require.Error(t, holder.Reload())
	assert.Same(t, before, holder.Table())
}

func TestNewHolder_FailsOnBadInitialData(t *testing.T) {
	conn := newTestDB(t)
	path := writeRateCard(t, "pricing: [not a map")

	_, err := NewHolder(path, conn, nil)
	assert.Error(t, err)
}
