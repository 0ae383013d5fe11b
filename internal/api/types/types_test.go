package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshal(t *testing.T) {
	var req CreatePromotionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"fecha_inicio":"2025-06-01","fecha_fin":"2025-06-30T12:00:00Z"}`), &req))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), req.FechaInicio.Time)
	assert.Equal(t, 12, req.FechaFin.Hour())

	assert.Error(t, json.Unmarshal([]byte(`{"fecha_inicio":"junio"}`), &req))
}

func TestFlagUnmarshal(t *testing.T) {
	var req UploadImageRequest
	require.NoError(t, json.Unmarshal([]byte(`{"principal":"true"}`), &req))
	assert.True(t, bool(req.Principal))
	require.NoError(t, json.Unmarshal([]byte(`{"principal":false}`), &req))
	assert.False(t, bool(req.Principal))
	assert.Error(t, json.Unmarshal([]byte(`{"principal":"si"}`), &req))
}

func TestFromError(t *testing.T) {
	status, resp := FromError(appErr.Invalid("Datos inválidos").WithMeta("missingIds", []string{"x"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid", resp.Code)
	assert.Equal(t, "Datos inválidos", resp.Message)
	assert.Equal(t, []string{"x"}, resp.Details["missingIds"])

	status, resp = FromError(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, internalMessage, resp.Message)
	assert.Nil(t, resp.Details)
}
