package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	runID := Setup(&buf, false, true)

	log.Debug().Msg("hidden")
	log.Info().Str("query", "hvac").Msg("fetching")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "fetching", entry["message"])
	assert.Equal(t, "hvac", entry["query"])
	assert.Equal(t, runID, entry["run_id"])
}

func TestSetup_Verbose(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Setup(&buf, true, false)

	log.Debug().Msg("page fetched")
	assert.Contains(t, buf.String(), "page fetched")
}
