package output_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonnii/gg/internal/output"
	"github.com/jonnii/gg/internal/stackmodel"
)

func TestErrorResponseMarshalsSingleLineSchema(t *testing.T) {
	resp := output.ErrorResponse{Version: output.OutputVersion, Error: "boom"}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"error":"boom"}`, string(data))
}

func TestLandResponseOmitsEmptyStopReason(t *testing.T) {
	resp := output.LandResponse{
		Version: output.OutputVersion,
		Land:    output.LandResultJ{Landed: []string{"c-abc1234"}},
	}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stop_reason")
}

func TestFormatEntryLineIncludesShaAndTitle(t *testing.T) {
	e := stackmodel.Entry{Position: 1, ShortSHA: "abc1234", Title: "add widget", GGID: "c-abc1234"}
	line := output.FormatEntryLine(e, true)
	assert.Contains(t, line, "abc1234")
	assert.Contains(t, line, "add widget")
}
